// internal/intents/workedhours/intent.go
package workedhours

import (
	"fmt"

	"devops-assistant/internal/common/devops"
	"devops-assistant/internal/common/llm"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/handler"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/dispatch/registry"
)

// Definition builds the registry entry for the worked-hours intent.
func Definition(client llm.Client, source devops.Source, defaultProject string, log logger.Logger) registry.Metadata {
	extractor := NewExtractor(client, log)
	service := NewService(source, defaultProject, log)

	return registry.Metadata{
		Category:          Category,
		DisplayName:       "Horas trabalhadas",
		Description:       "Perguntas sobre horas trabalhadas por uma pessoa num período (hoje, esta semana, mês passado, datas específicas).",
		AgentName:         AgentName,
		RequiresLLMFinish: true,
		Factory: func(conversationID string) intent.Handler {
			return &handler.Pipeline{
				Category:  Category,
				Extractor: extractor,
				Service:   service,
				Summarize: summarize,
				Logger:    log,
			}
		},
	}
}

func summarize(req intent.Request, params intent.Params, data map[string]interface{}) string {
	p, _ := params.(Params)
	total, _ := data["total_hours"].(float64)
	return fmt.Sprintf("%s registrou %.1f horas entre %s e %s.", p.Person, total, p.StartDate, p.EndDate)
}
