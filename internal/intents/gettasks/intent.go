// internal/intents/gettasks/intent.go
package gettasks

import (
	"fmt"

	"devops-assistant/internal/common/devops"
	"devops-assistant/internal/common/llm"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/handler"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/dispatch/registry"
)

// Definition builds the registry entry for the task-listing intent.
func Definition(client llm.Client, source devops.Source, defaultProject string, log logger.Logger) registry.Metadata {
	extractor := NewExtractor(client, log)
	service := NewService(source, defaultProject, log)

	return registry.Metadata{
		Category:          Category,
		DisplayName:       "Tarefas",
		Description:       "Listar tarefas, bugs ou histórias atribuídas a uma pessoa, com filtros de estado, tipo, tags ou período.",
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
	count, _ := data["task_count"].(int)
	if count == 0 {
		return fmt.Sprintf("Não encontrei tarefas atribuídas a %s.", p.Person)
	}
	return fmt.Sprintf("%s tem %d tarefa(s) no filtro pedido.", p.Person, count)
}
