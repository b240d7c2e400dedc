// internal/intents/workedhours/service.go
package workedhours

import (
	"context"
	"math"
	"sort"

	"devops-assistant/internal/common/devops"
	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/common/timeutil"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/models"
)

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

// Fetch sums completed hours for the person over the period. Absent
// hour fields count as zero; totals are rounded to one decimal.
func (s *Service) Fetch(ctx context.Context, req intent.Request, params intent.Params) (map[string]interface{}, error) {
	p := params.(Params)

	start, err := timeutil.ParseISO(p.StartDate)
	if err != nil {
		return nil, errors.NewExtractionError(err)
	}
	end, err := timeutil.ParseISO(p.EndDate)
	if err != nil {
		return nil, errors.NewExtractionError(err)
	}

	filter := models.WorkItemFilter{
		AssignedTo:   p.Person,
		ChangedAfter: start,
		ChangedUntil: end,
	}
	switch p.Scope {
	case intent.ScopeSpecific:
		filter.Project = p.Project
	case intent.ScopeAll:
		// span every project
	default:
		filter.Project = s.defaultProject
	}

	items, err := s.source.QueryWorkItems(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := 0.0
	tasks := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		hours := round1(item.HoursOrZero())
		total += item.HoursOrZero()
		tasks = append(tasks, map[string]interface{}{
			"id":    item.ID,
			"title": item.Title,
			"state": item.State,
			"hours": hours,
		})
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i]["id"].(int) < tasks[j]["id"].(int)
	})

	return map[string]interface{}{
		"person":      p.Person,
		"start_date":  p.StartDate,
		"end_date":    p.EndDate,
		"total_hours": round1(total),
		"task_count":  len(tasks),
		"tasks":       tasks,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
