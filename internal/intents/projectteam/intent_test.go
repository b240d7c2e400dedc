package projectteam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/models"
)

type fakeSource struct {
	members     []models.TeamMember
	lastProject string
}

func (f *fakeSource) QueryWorkItems(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, error) {
	return nil, nil
}
func (f *fakeSource) ListProjects(ctx context.Context) ([]models.Project, error) { return nil, nil }
func (f *fakeSource) TeamMembers(ctx context.Context, project string) ([]models.TeamMember, error) {
	f.lastProject = project
	return f.members, nil
}

func TestTeamRequiresSelectedProject(t *testing.T) {
	meta := Definition(&fakeSource{}, logger.NewNoOpLogger())
	assert.True(t, meta.RequiresProject)

	h := meta.Factory("c1")
	_, err := h.Handle(context.Background(), intent.Request{Message: "quem está na equipe?"})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProjectContextRequired))
}

func TestTeamWithSelectedProject(t *testing.T) {
	source := &fakeSource{members: []models.TeamMember{
		{ID: "u1", DisplayName: "Alice", Email: "alice@acme.com", Role: "developer"},
		{ID: "u2", DisplayName: "Bruno", Email: "bruno@acme.com"},
	}}
	meta := Definition(source, logger.NewNoOpLogger())
	h := meta.Factory("c1")

	resp, err := h.Handle(context.Background(), intent.Request{
		Message:         "quem está na equipe?",
		SelectedProject: &intent.ProjectContext{Name: "Delta", Scope: intent.ScopeSpecific},
	})

	require.NoError(t, err)
	assert.Equal(t, "Delta", source.lastProject)
	assert.Equal(t, 2, resp.Data["member_count"])
	assert.Equal(t, []string{"Alice", "Bruno"}, resp.Data["member_names"])
	assert.Equal(t, "A equipe do projeto Delta tem 2 pessoa(s).", resp.Message)
}

func TestTeamEmpty(t *testing.T) {
	meta := Definition(&fakeSource{}, logger.NewNoOpLogger())
	h := meta.Factory("c1")

	resp, err := h.Handle(context.Background(), intent.Request{
		Message:         "equipe?",
		SelectedProject: &intent.ProjectContext{Name: "Orion", Scope: intent.ScopeSpecific},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Data["member_count"])
	assert.Contains(t, resp.Message, "Não encontrei membros")
}
