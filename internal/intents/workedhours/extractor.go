// internal/intents/workedhours/extractor.go
package workedhours

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

// Extract pulls person and period from the message, fills gaps from the
// previous turn's params and resolves relative periods to absolute days.
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
		Person:  raw.Person,
		Project: raw.Project,
	}

	// Carry-over: a follow-up like "e no mês passado?" names a new
	// period but no person, so the previous turn supplies it.
	if params.Person == "" {
		params.Person = stringParam(req.LastParams, "person")
	}
	if params.Project == "" {
		params.Project = stringParam(req.LastParams, "project")
	}

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
	default:
		params.StartDate = stringParam(req.LastParams, "start_date")
		params.EndDate = stringParam(req.LastParams, "end_date")
	}
	if params.StartDate == "" || params.EndDate == "" {
		// No period anywhere in the conversation: assume this week.
		rng, _ := timeutil.Resolve(timeutil.PeriodThisWeek, req.Reference)
		params.StartDate = rng.StartISO()
		params.EndDate = rng.EndISO()
	}

	params.Scope = resolveScope(params.Project, req.SelectedProject)
	if params.Project == "" && req.SelectedProject != nil {
		params.Project = req.SelectedProject.Name
	}

	e.logger.Debug("params extracted", map[string]interface{}{
		"person":    params.Person,
		"startDate": params.StartDate,
		"endDate":   params.EndDate,
		"scope":     params.Scope,
	})
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
