package devops

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/models"
)

const apiVersion = "7.0"

// Fields requested from the work-item batch endpoint.
var workItemFields = []string{
	"System.Id",
	"System.Title",
	"System.State",
	"System.WorkItemType",
	"System.AssignedTo",
	"System.TeamProject",
	"System.Tags",
	"System.CreatedDate",
	"System.ChangedDate",
	"Microsoft.VSTS.Scheduling.CompletedWork",
}

// RESTConfig holds connection settings for the tracker REST API.
type RESTConfig struct {
	BaseURL      string
	Organization string
	PAT          string
	Timeout      time.Duration
	MaxRetries   int
}

// RESTSource queries work items through the tracker's WIQL endpoint:
// one call resolves matching ids, a second fetches the fields in batch.
type RESTSource struct {
	config *RESTConfig
	client *http.Client
	logger logger.Logger
}

func NewRESTSource(config *RESTConfig, log logger.Logger) *RESTSource {
	return &RESTSource{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log.With(map[string]interface{}{
			"component": "devops-rest",
		}),
	}
}

func (s *RESTSource) QueryWorkItems(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, error) {
	wiql := BuildWIQL(filter)

	var refs struct {
		WorkItems []struct {
			ID int `json:"id"`
		} `json:"workItems"`
	}
	wiqlPath := fmt.Sprintf("%s/_apis/wit/wiql", url.PathEscape(s.config.Organization))
	if filter.Project != "" {
		wiqlPath = fmt.Sprintf("%s/%s/_apis/wit/wiql",
			url.PathEscape(s.config.Organization), url.PathEscape(filter.Project))
	}
	if err := s.call(ctx, http.MethodPost, wiqlPath, map[string]string{"query": wiql}, &refs); err != nil {
		return nil, err
	}

	if len(refs.WorkItems) == 0 {
		return []models.WorkItem{}, nil
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 200 // batch endpoint hard cap
	}
	ids := make([]int, 0, limit)
	for _, ref := range refs.WorkItems {
		if len(ids) == limit {
			break
		}
		ids = append(ids, ref.ID)
	}

	var batch struct {
		Value []struct {
			ID     int                    `json:"id"`
			Fields map[string]interface{} `json:"fields"`
		} `json:"value"`
	}
	batchPath := fmt.Sprintf("%s/_apis/wit/workitemsbatch", url.PathEscape(s.config.Organization))
	body := map[string]interface{}{"ids": ids, "fields": workItemFields}
	if err := s.call(ctx, http.MethodPost, batchPath, body, &batch); err != nil {
		return nil, err
	}

	items := make([]models.WorkItem, 0, len(batch.Value))
	for _, raw := range batch.Value {
		items = append(items, workItemFromFields(raw.ID, raw.Fields))
	}

	s.logger.Debug("work items fetched", map[string]interface{}{
		"count":   len(items),
		"project": filter.Project,
	})
	return items, nil
}

func (s *RESTSource) ListProjects(ctx context.Context) ([]models.Project, error) {
	var resp struct {
		Value []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			State       string `json:"state"`
		} `json:"value"`
	}
	path := fmt.Sprintf("%s/_apis/projects", url.PathEscape(s.config.Organization))
	if err := s.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(resp.Value))
	for _, p := range resp.Value {
		projects = append(projects, models.Project{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			State:       p.State,
		})
	}
	return projects, nil
}

func (s *RESTSource) TeamMembers(ctx context.Context, project string) ([]models.TeamMember, error) {
	var resp struct {
		Value []struct {
			Identity struct {
				ID          string `json:"id"`
				DisplayName string `json:"displayName"`
				UniqueName  string `json:"uniqueName"`
			} `json:"identity"`
		} `json:"value"`
	}
	// The default team carries the project's name.
	path := fmt.Sprintf("%s/_apis/projects/%s/teams/%s/members",
		url.PathEscape(s.config.Organization),
		url.PathEscape(project),
		url.PathEscape(project+" Team"))
	if err := s.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	members := make([]models.TeamMember, 0, len(resp.Value))
	for _, m := range resp.Value {
		members = append(members, models.TeamMember{
			ID:          m.Identity.ID,
			DisplayName: m.Identity.DisplayName,
			Email:       m.Identity.UniqueName,
		})
	}
	return members, nil
}

// call performs one authenticated API request with backoff on 5xx and
// transport failures.
func (s *RESTSource) call(ctx context.Context, method, path string, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return errors.NewServiceError("devops-rest", fmt.Errorf("encode request: %w", err))
		}
	}

	fullURL := strings.TrimSuffix(s.config.BaseURL, "/") + "/" + path + "?api-version=" + apiVersion

	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return errors.NewServiceTimeoutError("devops-rest")
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return errors.NewServiceError("devops-rest", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if s.config.PAT != "" {
			req.SetBasicAuth("", s.config.PAT)
		}

		resp, doErr := s.client.Do(req)
		if ctx.Err() != nil ||
			stderrors.Is(doErr, context.DeadlineExceeded) ||
			stderrors.Is(doErr, context.Canceled) {
			return errors.NewServiceTimeoutError("devops-rest")
		}
		if doErr != nil {
			lastErr = doErr
			continue
		}

		if resp.StatusCode >= 500 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return errors.NewServiceError("devops-rest", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path))
		}

		decErr := json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if decErr != nil {
			return errors.NewServiceError("devops-rest", fmt.Errorf("decode response: %w", decErr))
		}
		return nil
	}

	return errors.NewServiceError("devops-rest", fmt.Errorf("no successful response after %d attempts: %w", s.config.MaxRetries+1, lastErr))
}

func workItemFromFields(id int, fields map[string]interface{}) models.WorkItem {
	item := models.WorkItem{ID: id}
	item.Title, _ = fields["System.Title"].(string)
	item.State, _ = fields["System.State"].(string)
	item.WorkItemType, _ = fields["System.WorkItemType"].(string)
	item.Project, _ = fields["System.TeamProject"].(string)
	item.CreatedDate, _ = fields["System.CreatedDate"].(string)
	item.ChangedDate, _ = fields["System.ChangedDate"].(string)

	// AssignedTo arrives either as a plain string or an identity object.
	switch v := fields["System.AssignedTo"].(type) {
	case string:
		item.AssignedTo = v
	case map[string]interface{}:
		item.AssignedTo, _ = v["displayName"].(string)
	}

	if tags, ok := fields["System.Tags"].(string); ok && tags != "" {
		for _, tag := range strings.Split(tags, ";") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				item.Tags = append(item.Tags, trimmed)
			}
		}
	}

	if hours, ok := toFloat(fields["Microsoft.VSTS.Scheduling.CompletedWork"]); ok {
		item.CompletedHours = &hours
	}
	return item
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
