// internal/intents/gettasks/service.go
package gettasks

import (
	"context"

	"devops-assistant/internal/common/devops"
	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/common/timeutil"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/models"
)

const maxListedTasks = 50

type Service struct {
	source         devops.Source
	defaultProject string
	logger         logger.Logger
}

func NewService(source devops.Source, defaultProject string, log logger.Logger) *Service {
	return &Service{
		source:         source,
		defaultProject: defaultProject,
		logger:         log.With(map[string]interface{}{"agent": AgentName}),
	}
}

func (s *Service) Fetch(ctx context.Context, req intent.Request, params intent.Params) (map[string]interface{}, error) {
	p := params.(Params)

	filter := models.WorkItemFilter{
		AssignedTo:   p.Person,
		State:        p.State,
		WorkItemType: p.WorkItemType,
		Tags:         p.Tags,
		Limit:        maxListedTasks,
	}
	if p.StartDate != "" {
		start, err := timeutil.ParseISO(p.StartDate)
		if err != nil {
			return nil, errors.NewExtractionError(err)
		}
		end, err := timeutil.ParseISO(p.EndDate)
		if err != nil {
			return nil, errors.NewExtractionError(err)
		}
		filter.ChangedAfter = start
		filter.ChangedUntil = end
	}
	switch p.Scope {
	case intent.ScopeSpecific:
		filter.Project = p.Project
	case intent.ScopeAll:
	default:
		filter.Project = s.defaultProject
	}

	items, err := s.source.QueryWorkItems(ctx, filter)
	if err != nil {
		return nil, err
	}

	tasks := make([]map[string]interface{}, 0, len(items))
	byState := map[string]int{}
	for _, item := range items {
		byState[item.State]++
		tasks = append(tasks, map[string]interface{}{
			"id":      item.ID,
			"title":   item.Title,
			"state":   item.State,
			"type":    item.WorkItemType,
			"project": item.Project,
		})
	}

	return map[string]interface{}{
		"person":     p.Person,
		"task_count": len(tasks),
		"by_state":   byState,
		"tasks":      tasks,
	}, nil
}
