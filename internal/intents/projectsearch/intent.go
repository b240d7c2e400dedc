// internal/intents/projectsearch/intent.go
package projectsearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

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
	keywords := raw.Keywords
	if keywords == "" {
		// Fall back to the whole message; the index scores relevance.
		keywords = strings.TrimSpace(req.Message)
	}
	return Params{Keywords: keywords}, nil
}

// Definition builds the registry entry for the project-search intent.
func Definition(client llm.Client, es *elasticsearch.Client, index string, log logger.Logger) registry.Metadata {
	ext := &extractor{client: client}
	service := NewService(es, index, log)

	return registry.Metadata{
		Category:          Category,
		DisplayName:       "Busca de projetos",
		Description:       "Encontrar projetos por nome, tema ou palavras-chave.",
		AgentName:         AgentName,
		RequiresLLMFinish: true,
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
				// The listed names ride along in the turn params so a
				// bare-number follow-up can select from this list.
				if names, ok := resp.Data["project_names"].([]string); ok && len(names) > 0 {
					if resp.Params == nil {
						resp.Params = map[string]interface{}{}
					}
					resp.Params["listed_projects"] = names
				}
				return resp, nil
			})
		},
	}
}

func summarize(req intent.Request, params intent.Params, data map[string]interface{}) string {
	names, _ := data["project_names"].([]string)
	if len(names) == 0 {
		return "Não encontrei projetos com esses termos."
	}
	return fmt.Sprintf("Encontrei %d projeto(s): %s.", len(names), strings.Join(names, ", "))
}
