// Package defaultintent is the fallback route: off-topic messages and
// every classification the router could not trust end up here.
package defaultintent

import (
	"context"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/dispatch/registry"
)

const (
	Category  = "default"
	AgentName = "default-agent"
)

// Definition builds the registry entry for the fallback intent. Every
// deployment must register it: the router depends on its presence.
func Definition(log logger.Logger) registry.Metadata {
	return registry.Metadata{
		Category:    Category,
		DisplayName: "Fora de escopo",
		Description: "Perguntas fora do escopo de acompanhamento de projetos.",
		AgentName:   AgentName,
		Factory: func(conversationID string) intent.Handler {
			return intent.HandlerFunc(func(ctx context.Context, req intent.Request) (*intent.Response, error) {
				return &intent.Response{
					Message: "Não tenho certeza de como ajudar com isso. Posso responder sobre horas trabalhadas, tarefas, equipes e projetos — experimente 'o que você faz?' para ver as opções.",
				}, nil
			})
		},
	}
}
