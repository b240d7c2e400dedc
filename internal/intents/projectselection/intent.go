// internal/intents/projectselection/intent.go
package projectselection

import (
	"context"
	"fmt"
	"strings"

	"devops-assistant/internal/common/devops"
	"devops-assistant/internal/common/llm"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/handler"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/dispatch/registry"
)

type extractor struct {
	client llm.Client
}

func (e *extractor) Extract(ctx context.Context, req intent.Request) (intent.Params, error) {
	var raw rawParams
	err := e.client.Extract(ctx, llm.ExtractRequest{
		Message: req.Message,
		Schema:  extractionSchema,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return Params{Project: raw.Project, SelectionNumber: raw.SelectionNumber}, nil
}

// Definition builds the registry entry for the project-selection intent.
func Definition(client llm.Client, source devops.Source, log logger.Logger) registry.Metadata {
	ext := &extractor{client: client}
	service := NewService(source, log)

	return registry.Metadata{
		Category:    Category,
		DisplayName: "Seleção de projeto",
		Description: "Selecionar um projeto para as próximas perguntas (por nome ou pelo número de uma lista anterior).",
		AgentName:   AgentName,
		Factory: func(conversationID string) intent.Handler {
			p := &handler.Pipeline{
				Category:  Category,
				Extractor: ext,
				Service:   service,
				Summarize: summarize,
				Logger:    log,
			}
			return intent.HandlerFunc(func(ctx context.Context, req intent.Request) (*intent.Response, error) {
				resp, err := p.Handle(ctx, req)
				if err != nil {
					return nil, err
				}
				if name, ok := resp.Data["selected_project"].(string); ok && name != "" {
					resp.Project = &intent.ProjectContext{
						Name:  name,
						Scope: intent.ScopeSpecific,
					}
				}
				return resp, nil
			})
		},
	}
}

func summarize(req intent.Request, params intent.Params, data map[string]interface{}) string {
	status, _ := data["status"].(string)
	selected, _ := data["selected_project"].(string)

	switch status {
	case StatusExact:
		return fmt.Sprintf("Projeto %s selecionado. As próximas perguntas vão considerar esse projeto.", selected)
	case StatusSuggested:
		return fmt.Sprintf("Não encontrei esse nome exato; selecionei o projeto mais próximo: %s.", selected)
	case StatusAmbiguous:
		candidates, _ := data["candidates"].([]string)
		return fmt.Sprintf("Encontrei mais de um projeto parecido: %s. Qual deles você quer?", strings.Join(candidates, ", "))
	default:
		return "Não encontrei nenhum projeto com esse nome. Tente 'buscar projetos' para ver as opções."
	}
}
