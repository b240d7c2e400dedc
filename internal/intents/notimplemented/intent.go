// Package notimplemented is the placeholder for categories the product
// recognizes but has no handler for yet.
package notimplemented

import (
	"context"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/dispatch/registry"
)

const AgentName = "not-implemented-agent"

// Planned categories registered as placeholders so the classifier can
// name them and the user gets an honest answer instead of a fallback.
// Slice, not map: registration order must be deterministic.
var PlannedCategories = []struct {
	Category    string
	Description string
}{
	{"project_progress", "Andamento e percentual de conclusão de um projeto."},
	{"delayed_tasks", "Tarefas atrasadas ou estouradas de prazo."},
	{"daily_activities", "Resumo diário de atividades de uma pessoa ou equipe."},
}

// Definition builds a placeholder registry entry for one category.
func Definition(category, description string, log logger.Logger) registry.Metadata {
	return registry.Metadata{
		Category:    category,
		DisplayName: category,
		Description: description,
		AgentName:   AgentName,
		Factory:     Factory(category),
	}
}

// Factory returns the placeholder handler for a category.
func Factory(category string) func(conversationID string) intent.Handler {
	return func(conversationID string) intent.Handler {
		return intent.HandlerFunc(func(ctx context.Context, req intent.Request) (*intent.Response, error) {
			return &intent.Response{
				Message: "Entendi o que você quer, mas essa função ainda não está disponível. Por enquanto posso ajudar com horas trabalhadas, tarefas, equipes e projetos.",
				Data: map[string]interface{}{
					"requested_capability": category,
				},
			}, nil
		})
	}
}
