// Package projectdeselection clears the conversation's project selection.
package projectdeselection

import (
	"context"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/dispatch/registry"
)

const (
	Category  = "project_deselection"
	AgentName = "project-deselection-agent"
)

// Definition builds the registry entry. No extraction and no data source:
// the handler only flips the conversation's selection off.
func Definition(log logger.Logger) registry.Metadata {
	return registry.Metadata{
		Category:    Category,
		DisplayName: "Remover seleção de projeto",
		Description: "Deixar de considerar o projeto selecionado nas próximas perguntas.",
		AgentName:   AgentName,
		Factory: func(conversationID string) intent.Handler {
			return intent.HandlerFunc(func(ctx context.Context, req intent.Request) (*intent.Response, error) {
				if req.SelectedProject == nil {
					return &intent.Response{
						Message: "Nenhum projeto está selecionado no momento.",
					}, nil
				}
				return &intent.Response{
					Message:      "Seleção de projeto removida. As próximas perguntas vão considerar todos os projetos.",
					ClearProject: true,
					Data: map[string]interface{}{
						"cleared_project": req.SelectedProject.Name,
					},
				}, nil
			})
		},
	}
}
