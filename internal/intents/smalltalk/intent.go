// Package smalltalk covers greetings and chit-chat that the assistant
// recognizes but does not act on.
package smalltalk

import (
	"context"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/dispatch/registry"
)

const (
	Category  = "other"
	AgentName = "small-talk-agent"
)

// Definition builds the registry entry for conversational messages with
// no project-tracking content.
func Definition(log logger.Logger) registry.Metadata {
	return registry.Metadata{
		Category:    Category,
		DisplayName: "Conversa",
		Description: "Saudações, agradecimentos e conversa sem relação com projetos ou tarefas.",
		AgentName:   AgentName,
		Factory: func(conversationID string) intent.Handler {
			return intent.HandlerFunc(func(ctx context.Context, req intent.Request) (*intent.Response, error) {
				return &intent.Response{
					Message: "Olá! Sou o assistente de acompanhamento de projetos. Pergunte sobre horas trabalhadas, tarefas ou projetos — ou diga 'o que você faz?' para ver tudo o que sei fazer.",
				}, nil
			})
		},
	}
}
