// internal/intents/projectsearch/service.go
package projectsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
)

const maxResults = 10

type Service struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewService(client *elasticsearch.Client, index string, log logger.Logger) *Service {
	return &Service{
		client: client,
		index:  index,
		logger: log.With(map[string]interface{}{"agent": AgentName}),
	}
}

// Fetch runs a relevance search over the project index. Name matches
// rank above description matches.
func (s *Service) Fetch(ctx context.Context, req intent.Request, params intent.Params) (map[string]interface{}, error) {
	p := params.(Params)

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  p.Keywords,
				"fields": []string{"name^3", "description"},
				"type":   "best_fields",
			},
		},
	}
	body, _ := json.Marshal(queryBody)

	size := maxResults
	searchReq := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := searchReq.Do(ctx, s.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewServiceTimeoutError("elasticsearch")
		}
		return nil, errors.NewServiceError("elasticsearch", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewServiceError("elasticsearch", fmt.Errorf("search error: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64 `json:"_score"`
				Source struct {
					ID          string `json:"id"`
					Name        string `json:"name"`
					Description string `json:"description"`
					State       string `json:"state"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewServiceError("elasticsearch", fmt.Errorf("decode response: %w", err))
	}

	projects := make([]map[string]interface{}, 0, len(parsed.Hits.Hits))
	names := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		projects = append(projects, map[string]interface{}{
			"id":          hit.Source.ID,
			"name":        hit.Source.Name,
			"description": hit.Source.Description,
			"state":       hit.Source.State,
			"score":       hit.Score,
		})
		names = append(names, hit.Source.Name)
	}

	s.logger.Debug("project search done", map[string]interface{}{
		"keywords": p.Keywords,
		"hits":     len(projects),
	})

	return map[string]interface{}{
		"keywords":      p.Keywords,
		"project_count": len(projects),
		"projects":      projects,
		"project_names": names,
	}, nil
}
