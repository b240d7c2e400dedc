package workedhours

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/llm"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/models"
)

// fakeLLM returns canned extraction payloads.
type fakeLLM struct {
	llm.Client
	extraction map[string]interface{}
	err        error
}

func (f *fakeLLM) Extract(ctx context.Context, req llm.ExtractRequest, out interface{}) error {
	if f.err != nil {
		return f.err
	}
	raw, _ := json.Marshal(f.extraction)
	return json.Unmarshal(raw, out)
}

type fakeSource struct {
	items      []models.WorkItem
	err        error
	lastFilter models.WorkItemFilter
}

func (f *fakeSource) QueryWorkItems(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, error) {
	f.lastFilter = filter
	return f.items, f.err
}

func (f *fakeSource) ListProjects(ctx context.Context) ([]models.Project, error) { return nil, nil }
func (f *fakeSource) TeamMembers(ctx context.Context, project string) ([]models.TeamMember, error) {
	return nil, nil
}

func hoursPtr(v float64) *float64 { return &v }

// Wednesday 2025-11-05 anchors every relative period in these tests.
var reference = time.Date(2025, 11, 5, 15, 0, 0, 0, time.UTC)

func TestWorkedHoursThisWeek(t *testing.T) {
	client := &fakeLLM{extraction: map[string]interface{}{
		"person":          "Alice",
		"relative_period": "this_week",
	}}
	source := &fakeSource{items: []models.WorkItem{
		{ID: 1, Title: "Fix login", State: "Active", CompletedHours: hoursPtr(8.25)},
		{ID: 2, Title: "Review PR", State: "Closed", CompletedHours: hoursPtr(4.2)},
		{ID: 3, Title: "Triagem", State: "New"}, // no hours logged
	}}

	meta := Definition(client, source, "Delta", logger.NewNoOpLogger())
	h := meta.Factory("c1")

	resp, err := h.Handle(context.Background(), intent.Request{
		Message:   "quantas horas a Alice trabalhou esta semana?",
		Reference: reference,
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.Data["person"])
	assert.Equal(t, "2025-11-03", resp.Data["start_date"])
	assert.Equal(t, "2025-11-09", resp.Data["end_date"])
	// 8.25 + 4.2 + 0 = 12.45, rounded to one decimal.
	assert.Equal(t, 12.5, resp.Data["total_hours"])
	assert.Equal(t, 3, resp.Data["task_count"])

	// The service saw the resolved absolute range.
	assert.Equal(t, "2025-11-03", source.lastFilter.ChangedAfter.Format("2006-01-02"))
	assert.Equal(t, "2025-11-09", source.lastFilter.ChangedUntil.Format("2006-01-02"))
	assert.Equal(t, "Alice", source.lastFilter.AssignedTo)

	// Carry-over params stored with the turn.
	assert.Equal(t, "Alice", resp.Params["person"])
	assert.Equal(t, "2025-11-03", resp.Params["start_date"])
}

func TestWorkedHoursCarryOverPerson(t *testing.T) {
	// "e no mês passado?" names a period but no person: the previous
	// turn's params supply it.
	client := &fakeLLM{extraction: map[string]interface{}{
		"relative_period": "last_month",
	}}
	source := &fakeSource{items: []models.WorkItem{
		{ID: 7, Title: "Planning", CompletedHours: hoursPtr(6)},
	}}

	meta := Definition(client, source, "Delta", logger.NewNoOpLogger())
	h := meta.Factory("c1")

	resp, err := h.Handle(context.Background(), intent.Request{
		Message:   "e no mês passado?",
		Reference: reference,
		RecentTurns: []intent.TurnRef{{
			UserMessage: "quantas horas a Alice trabalhou esta semana?",
			Intent:      Category,
		}},
		LastParams: map[string]interface{}{
			"person":     "Alice",
			"start_date": "2025-11-03",
			"end_date":   "2025-11-09",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.Data["person"])
	// New period wins over the carried-over one.
	assert.Equal(t, "2025-10-01", resp.Data["start_date"])
	assert.Equal(t, "2025-10-31", resp.Data["end_date"])
	assert.Equal(t, 6.0, resp.Data["total_hours"])
}

func TestWorkedHoursMissingPerson(t *testing.T) {
	client := &fakeLLM{extraction: map[string]interface{}{
		"relative_period": "this_week",
	}}
	source := &fakeSource{}

	meta := Definition(client, source, "Delta", logger.NewNoOpLogger())
	h := meta.Factory("c1")

	// No person in the message and no carry-over context.
	_, err := h.Handle(context.Background(), intent.Request{
		Message:   "quantas horas esta semana?",
		Reference: reference,
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingParameter))
	stdErr := errors.AsStandardError(err)
	assert.Equal(t, "person", stdErr.Metadata["parameter"])
}

func TestWorkedHoursProjectScope(t *testing.T) {
	tests := []struct {
		name        string
		extraction  map[string]interface{}
		selected    *intent.ProjectContext
		wantProject string
	}{
		{
			name:        "no selection falls back to default project",
			extraction:  map[string]interface{}{"person": "Alice", "relative_period": "today"},
			wantProject: "Delta",
		},
		{
			name:        "selected project pins the query",
			extraction:  map[string]interface{}{"person": "Alice", "relative_period": "today"},
			selected:    &intent.ProjectContext{Name: "Orion", Scope: intent.ScopeSpecific},
			wantProject: "Orion",
		},
		{
			name:        "explicit project in the message wins",
			extraction:  map[string]interface{}{"person": "Alice", "relative_period": "today", "project": "Vega"},
			selected:    &intent.ProjectContext{Name: "Orion", Scope: intent.ScopeSpecific},
			wantProject: "Vega",
		},
		{
			name:        "all-projects scope drops the filter",
			extraction:  map[string]interface{}{"person": "Alice", "relative_period": "today"},
			selected:    &intent.ProjectContext{Name: "", Scope: intent.ScopeAll},
			wantProject: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeLLM{extraction: tt.extraction}
			source := &fakeSource{}

			meta := Definition(client, source, "Delta", logger.NewNoOpLogger())
			h := meta.Factory("c1")

			_, err := h.Handle(context.Background(), intent.Request{
				Message:         "horas da Alice hoje",
				Reference:       reference,
				SelectedProject: tt.selected,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantProject, source.lastFilter.Project)
		})
	}
}

func TestWorkedHoursDeterministicSummary(t *testing.T) {
	client := &fakeLLM{extraction: map[string]interface{}{
		"person":          "Alice",
		"relative_period": "this_week",
	}}
	source := &fakeSource{items: []models.WorkItem{
		{ID: 1, Title: "Fix login", CompletedHours: hoursPtr(12.5)},
	}}

	meta := Definition(client, source, "Delta", logger.NewNoOpLogger())
	assert.True(t, meta.RequiresLLMFinish)

	h := meta.Factory("c1")
	resp, err := h.Handle(context.Background(), intent.Request{
		Message:   "quantas horas a Alice trabalhou esta semana?",
		Reference: reference,
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice registrou 12.5 horas entre 2025-11-03 e 2025-11-09.", resp.Message)
}
