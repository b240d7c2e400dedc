// Package availableintents lists what the assistant can do, generated
// from the registry itself so the listing never drifts from the code.
package availableintents

import (
	"context"
	"fmt"
	"strings"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/dispatch/registry"
)

const (
	Category  = "available_intents"
	AgentName = "available-intents-agent"
)

// Hidden categories that make no sense in a capability listing.
var hidden = map[string]bool{
	Category:  true,
	"default": true,
	"other":   true,
}

// Definition builds the registry entry. The registry pointer is read
// lazily so intents registered after this one still appear.
func Definition(reg *registry.Registry, log logger.Logger) registry.Metadata {
	return registry.Metadata{
		Category:    Category,
		DisplayName: "Capacidades",
		Description: "O que o assistente sabe fazer; pedido de ajuda sobre as funções disponíveis.",
		AgentName:   AgentName,
		Factory: func(conversationID string) intent.Handler {
			return intent.HandlerFunc(func(ctx context.Context, req intent.Request) (*intent.Response, error) {
				var lines []string
				capabilities := make([]map[string]interface{}, 0)
				for _, meta := range reg.ListAll() {
					if hidden[meta.Category] {
						continue
					}
					lines = append(lines, fmt.Sprintf("- %s: %s", meta.DisplayName, meta.Description))
					capabilities = append(capabilities, map[string]interface{}{
						"category":    meta.Category,
						"displayName": meta.DisplayName,
						"description": meta.Description,
					})
				}

				message := "Posso ajudar com:\n" + strings.Join(lines, "\n")
				return &intent.Response{
					Message: message,
					Data: map[string]interface{}{
						"capabilities": capabilities,
					},
				}, nil
			})
		},
	}
}
