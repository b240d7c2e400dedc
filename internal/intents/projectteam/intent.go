// Package projectteam answers "who is on the team?" for the selected
// project. The only intent gated on a project selection.
package projectteam

import (
	"context"
	"fmt"

	"devops-assistant/internal/common/devops"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/handler"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/dispatch/registry"
)

const (
	Category  = "project_team"
	AgentName = "project-team-agent"
)

type service struct {
	source devops.Source
}

func (s *service) Fetch(ctx context.Context, req intent.Request, _ intent.Params) (map[string]interface{}, error) {
	// The pipeline's project check guarantees a selection here.
	project := req.SelectedProject.Name

	members, err := s.source.TeamMembers(ctx, project)
	if err != nil {
		return nil, err
	}

	people := make([]map[string]interface{}, 0, len(members))
	names := make([]string, 0, len(members))
	for _, m := range members {
		people = append(people, map[string]interface{}{
			"name":  m.DisplayName,
			"email": m.Email,
			"role":  m.Role,
		})
		names = append(names, m.DisplayName)
	}

	return map[string]interface{}{
		"project":      project,
		"member_count": len(people),
		"members":      people,
		"member_names": names,
	}, nil
}

// Definition builds the registry entry for the project-team intent.
func Definition(source devops.Source, log logger.Logger) registry.Metadata {
	svc := &service{source: source}

	return registry.Metadata{
		Category:          Category,
		DisplayName:       "Equipe do projeto",
		Description:       "Quem faz parte da equipe do projeto selecionado.",
		AgentName:         AgentName,
		RequiresProject:   true,
		RequiresLLMFinish: true,
		Factory: func(conversationID string) intent.Handler {
			return &handler.Pipeline{
				Category:        Category,
				RequiresProject: true,
				Service:         svc,
				Summarize:       summarize,
				Logger:          log,
			}
		},
	}
}

func summarize(req intent.Request, _ intent.Params, data map[string]interface{}) string {
	project, _ := data["project"].(string)
	count, _ := data["member_count"].(int)
	if count == 0 {
		return fmt.Sprintf("Não encontrei membros na equipe do projeto %s.", project)
	}
	return fmt.Sprintf("A equipe do projeto %s tem %d pessoa(s).", project, count)
}
