// internal/intents/projectselection/service.go
package projectselection

import (
	"context"
	"strings"

	"devops-assistant/internal/common/devops"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
)

type Service struct {
	source devops.Source
	logger logger.Logger
}

func NewService(source devops.Source, log logger.Logger) *Service {
	return &Service{
		source: source,
		logger: log.With(map[string]interface{}{"agent": AgentName}),
	}
}

// Fetch resolves the requested selection against the known projects.
// A bare number refers to the previous search turn's listing.
func (s *Service) Fetch(ctx context.Context, req intent.Request, params intent.Params) (map[string]interface{}, error) {
	p := params.(Params)

	if p.SelectionNumber > 0 {
		return s.selectByNumber(p.SelectionNumber, req.LastParams), nil
	}

	projects, err := s.source.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	wanted := strings.ToLower(strings.TrimSpace(p.Project))

	var partial []string
	for _, project := range projects {
		name := strings.ToLower(project.Name)
		if name == wanted {
			return result(StatusExact, project.Name, nil), nil
		}
		if strings.Contains(name, wanted) {
			partial = append(partial, project.Name)
		}
	}

	switch len(partial) {
	case 0:
		return result(StatusNotFound, "", nil), nil
	case 1:
		return result(StatusSuggested, partial[0], nil), nil
	default:
		return result(StatusAmbiguous, "", partial), nil
	}
}

func (s *Service) selectByNumber(n int, lastParams map[string]interface{}) map[string]interface{} {
	listed := listedProjects(lastParams)
	if n < 1 || n > len(listed) {
		return result(StatusNotFound, "", listed)
	}
	return result(StatusExact, listed[n-1], nil)
}

// listedProjects reads the previous turn's listing. The slice arrives
// as []string in memory or []interface{} after a JSON round trip.
func listedProjects(lastParams map[string]interface{}) []string {
	if lastParams == nil {
		return nil
	}
	switch v := lastParams["listed_projects"].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func result(status, selected string, candidates []string) map[string]interface{} {
	data := map[string]interface{}{"status": status}
	if selected != "" {
		data["selected_project"] = selected
	}
	if len(candidates) > 0 {
		data["candidates"] = candidates
	}
	return data
}
