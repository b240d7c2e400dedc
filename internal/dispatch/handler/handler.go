// Package handler provides the shared pipeline every data-backed intent
// runs through: extract params, validate, check project context, fetch.
package handler

import (
	"context"
	"fmt"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
)

// Pipeline runs one intent's turn through the fixed stages. Intents with
// no extraction or no data needs leave the corresponding field nil.
type Pipeline struct {
	Category        string
	RequiresProject bool
	Extractor       intent.Extractor
	Service         intent.Service
	// Summarize renders the fetched data as a deterministic reply.
	// Intents finished by the language model use it as the fallback.
	Summarize func(req intent.Request, params intent.Params, data map[string]interface{}) string
	Logger    logger.Logger
}

// Handle executes the stages in order. A panic anywhere inside an intent
// becomes an unexpected error for this turn; the process keeps serving.
func (p *Pipeline) Handle(ctx context.Context, req intent.Request) (resp *intent.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.Logger.Error("intent handler panicked", map[string]interface{}{
				"intent":         p.Category,
				"conversationId": req.ConversationID,
				"panic":          fmt.Sprintf("%v", r),
			})
			resp = nil
			err = errors.NewUnexpectedError(fmt.Errorf("panic in %s handler: %v", p.Category, r))
		}
	}()

	if p.RequiresProject && req.SelectedProject == nil {
		return nil, errors.NewProjectContextRequiredError(p.Category)
	}

	var params intent.Params
	if p.Extractor != nil {
		params, err = p.Extractor.Extract(ctx, req)
		if err != nil {
			return nil, err
		}
		if err = params.Validate(); err != nil {
			return nil, err
		}
	}

	var data map[string]interface{}
	if p.Service != nil {
		data, err = p.Service.Fetch(ctx, req, params)
		if err != nil {
			return nil, err
		}
	}

	message := ""
	if p.Summarize != nil {
		message = p.Summarize(req, params, data)
	}

	resp = &intent.Response{Message: message, Data: data}
	if mp, ok := params.(intent.MapParams); ok {
		resp.Params = mp.AsMap()
	}
	return resp, nil
}
