// Package router classifies each user message against the registered
// intent catalog. Classification is fail-closed: any capability error,
// unknown category or low-confidence verdict routes to the default
// intent instead of surfacing an error to the user.
package router

import (
	"context"

	"devops-assistant/internal/common/llm"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/memory"
	"devops-assistant/internal/dispatch/registry"
)

// DefaultCategory is the fallback intent every deployment registers.
const DefaultCategory = "default"

type Router struct {
	registry    *registry.Registry
	client      llm.Client
	threshold   float64
	recentTurns int
	logger      logger.Logger
}

func New(reg *registry.Registry, client llm.Client, threshold float64, recentTurns int, log logger.Logger) *Router {
	return &Router{
		registry:    reg,
		client:      client,
		threshold:   threshold,
		recentTurns: recentTurns,
		logger:      log.With(map[string]interface{}{"component": "router"}),
	}
}

// Route returns the intent to handle the message and the classifier's
// confidence. Fallback routes report zero confidence.
func (r *Router) Route(ctx context.Context, message string, memCtx memory.Context) (registry.Metadata, float64) {
	req := llm.ClassifyRequest{
		Message: message,
		Options: r.options(),
	}
	if memCtx.SelectedProject != nil {
		req.SelectedProject = memCtx.SelectedProject.Name
	}
	turns := memCtx.Turns
	if len(turns) > r.recentTurns {
		turns = turns[len(turns)-r.recentTurns:]
	}
	for _, t := range turns {
		req.RecentTurns = append(req.RecentTurns, llm.TurnSummary{
			UserMessage: t.UserMessage,
			Intent:      t.Intent,
		})
	}

	verdict, err := r.client.Classify(ctx, req)
	if err != nil {
		r.logger.Warn("classification failed, using default intent", map[string]interface{}{
			"conversationId": memCtx.ConversationID,
			"error":          err.Error(),
		})
		return r.fallback(), 0
	}

	meta, ok := r.registry.Get(verdict.Category)
	if !ok {
		r.logger.Warn("classifier returned unregistered category", map[string]interface{}{
			"category":       verdict.Category,
			"conversationId": memCtx.ConversationID,
		})
		return r.fallback(), 0
	}

	if verdict.Confidence < r.threshold {
		r.logger.Info("confidence below threshold, using default intent", map[string]interface{}{
			"category":   verdict.Category,
			"confidence": verdict.Confidence,
			"threshold":  r.threshold,
		})
		return r.fallback(), 0
	}

	return meta, verdict.Confidence
}

func (r *Router) options() []llm.IntentOption {
	opts := r.registry.Options()
	out := make([]llm.IntentOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, llm.IntentOption{
			Category:    o.Category,
			Description: o.Description,
		})
	}
	return out
}

func (r *Router) fallback() registry.Metadata {
	if meta, ok := r.registry.Get(DefaultCategory); ok {
		return meta
	}
	// A registry without the default intent is a packaging bug; return
	// a zero Metadata and let the dispatcher reject the turn.
	return registry.Metadata{}
}
