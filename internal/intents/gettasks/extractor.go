// internal/intents/gettasks/extractor.go
package gettasks

import (
	"context"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/llm"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/common/timeutil"
	"devops-assistant/internal/dispatch/intent"
)

type Extractor struct {
	client llm.Client
	logger logger.Logger
}

func NewExtractor(client llm.Client, log logger.Logger) *Extractor {
	return &Extractor{
		client: client,
		logger: log.With(map[string]interface{}{"agent": AgentName}),
	}
}

func (e *Extractor) Extract(ctx context.Context, req intent.Request) (intent.Params, error) {
	var raw rawParams
	err := e.client.Extract(ctx, llm.ExtractRequest{
		Message:     req.Message,
		Schema:      extractionSchema,
		RecentTurns: turnSummaries(req.RecentTurns),
	}, &raw)
	if err != nil {
		return nil, err
	}

	params := Params{
		Person:       raw.Person,
		State:        raw.State,
		WorkItemType: raw.WorkItemType,
		Tags:         raw.Tags,
		Project:      raw.Project,
	}

	if params.Person == "" {
		params.Person = stringParam(req.LastParams, "person")
	}
	if params.Project == "" {
		params.Project = stringParam(req.LastParams, "project")
	}

	// Task listings default to no date filter: "minhas tarefas" means
	// everything currently assigned, not a period.
	switch {
	case raw.RelativePeriod != "":
		rng, rerr := timeutil.Resolve(raw.RelativePeriod, req.Reference)
		if rerr != nil {
			return nil, errors.NewExtractionError(rerr)
		}
		params.StartDate = rng.StartISO()
		params.EndDate = rng.EndISO()
	case raw.StartDate != "" && raw.EndDate != "":
		params.StartDate = raw.StartDate
		params.EndDate = raw.EndDate
	}

	params.Scope = resolveScope(params.Project, req.SelectedProject)
	if params.Project == "" && req.SelectedProject != nil {
		params.Project = req.SelectedProject.Name
	}
	return params, nil
}

func resolveScope(explicitProject string, selected *intent.ProjectContext) string {
	switch {
	case explicitProject != "":
		return intent.ScopeSpecific
	case selected != nil:
		return selected.Scope
	default:
		return intent.ScopeDefault
	}
}

func stringParam(params map[string]interface{}, key string) string {
	if params == nil {
		return ""
	}
	s, _ := params[key].(string)
	return s
}

func turnSummaries(turns []intent.TurnRef) []llm.TurnSummary {
	out := make([]llm.TurnSummary, 0, len(turns))
	for _, t := range turns {
		out = append(out, llm.TurnSummary{UserMessage: t.UserMessage, Intent: t.Intent})
	}
	return out
}
