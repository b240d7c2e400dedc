// Package dispatch wires the router, the intent registry and the
// conversation memory into the single entry point the API layer calls.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/llm"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/common/observability"
	"devops-assistant/internal/dispatch/intent"
	"devops-assistant/internal/dispatch/memory"
	"devops-assistant/internal/dispatch/registry"
	"devops-assistant/internal/dispatch/router"
)

// ErrorInfo is the coded error surfaced in API responses. The message is
// user-safe; underlying causes stay in logs.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueryResponse is the outcome of one dispatched user message.
type QueryResponse struct {
	Message         string                 `json:"message"`
	Intent          string                 `json:"intent"`
	Confidence      float64                `json:"confidence"`
	Data            map[string]interface{} `json:"data,omitempty"`
	ConversationID  string                 `json:"conversationId"`
	SelectedProject string                 `json:"selectedProject,omitempty"`
	Error           *ErrorInfo             `json:"error,omitempty"`
}

type Dispatcher struct {
	registry *registry.Registry
	router   *router.Router
	memory   memory.Store
	llm      llm.Client
	obs      *observability.Observability
	logger   logger.Logger
	now      func() time.Time
}

func New(reg *registry.Registry, rt *router.Router, mem memory.Store, client llm.Client, obs *observability.Observability, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		router:   rt,
		memory:   mem,
		llm:      client,
		obs:      obs,
		logger:   log.With(map[string]interface{}{"component": "dispatcher"}),
		now:      time.Now,
	}
}

// HandleQuery processes one user message end to end: route, handle,
// apply project changes, persist the turn. Turns for the same
// conversation are serialized; a failed turn leaves memory untouched.
func (d *Dispatcher) HandleQuery(ctx context.Context, message, conversationID string) *QueryResponse {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	unlock := d.memory.Lock(conversationID)
	defer unlock()

	start := d.now()

	memCtx, err := d.memory.Context(ctx, conversationID)
	if err != nil {
		return d.errorResponse(conversationID, "", 0, "", err)
	}

	meta, confidence := d.router.Route(ctx, message, memCtx)
	if meta.Factory == nil {
		return d.errorResponse(conversationID, meta.Category, confidence, projectName(memCtx.SelectedProject),
			errors.NewUnexpectedError(fmt.Errorf("no handler registered for category %q", meta.Category)))
	}

	log := d.logger.With(map[string]interface{}{
		"conversationId": conversationID,
		"intent":         meta.Category,
	})
	log.Info("dispatching query", map[string]interface{}{
		"confidence": confidence,
		"agent":      meta.AgentName,
	})

	req := intent.Request{
		Message:         message,
		ConversationID:  conversationID,
		SelectedProject: memCtx.SelectedProject,
		RecentTurns:     memCtx.RecentTurnRefs(),
		LastParams:      memCtx.LastParams,
		Reference:       d.now(),
	}

	h := meta.Factory(conversationID)
	resp, err := h.Handle(ctx, req)

	d.obs.RecordQueryDuration(ctx, d.now().Sub(start), meta.Category)

	if err != nil {
		d.obs.RecordQuery(ctx, meta.Category, "error")
		log.WithError(err).Warn("intent handling failed", nil)
		return d.errorResponse(conversationID, meta.Category, confidence, projectName(memCtx.SelectedProject), err)
	}

	// Project changes take effect before the reply is composed so the
	// response reflects the new selection.
	selected := memCtx.SelectedProject
	switch {
	case resp.ClearProject:
		if err := d.memory.ClearProject(ctx, conversationID); err != nil {
			log.WithError(err).Error("failed to clear project selection", nil)
		}
		selected = nil
	case resp.Project != nil:
		if err := d.memory.SetProject(ctx, conversationID, *resp.Project); err != nil {
			log.WithError(err).Error("failed to store project selection", nil)
		}
		selected = resp.Project
	}

	finalMessage := resp.Message
	if meta.RequiresLLMFinish {
		composed, composeErr := d.llm.Compose(ctx, llm.ComposeRequest{
			Question: message,
			Intent:   meta.Category,
			Data:     resp.Data,
		})
		if composeErr != nil {
			// Keep the deterministic summary rather than failing a
			// turn whose data is already in hand.
			log.WithError(composeErr).Warn("compose failed, using deterministic summary", nil)
		} else {
			finalMessage = composed
		}
	}

	// A cancelled request must not leave a half-recorded turn behind.
	if ctx.Err() != nil {
		d.obs.RecordQuery(ctx, meta.Category, "cancelled")
		return d.errorResponse(conversationID, meta.Category, confidence, projectName(selected),
			errors.NewServiceTimeoutError("dispatch"))
	}

	turn := memory.Turn{
		ID:          uuid.NewString(),
		UserMessage: message,
		Intent:      meta.Category,
		Params:      resp.Params,
		Response:    finalMessage,
		Timestamp:   d.now(),
	}
	if err := d.memory.Append(ctx, conversationID, turn); err != nil {
		// The user still gets their answer; only carry-over is lost.
		log.WithError(err).Error("failed to persist turn", nil)
	}

	d.obs.RecordQuery(ctx, meta.Category, "success")

	return &QueryResponse{
		Message:         finalMessage,
		Intent:          meta.Category,
		Confidence:      confidence,
		Data:            resp.Data,
		ConversationID:  conversationID,
		SelectedProject: projectName(selected),
	}
}

// Clear forgets one conversation.
func (d *Dispatcher) Clear(ctx context.Context, conversationID string) error {
	unlock := d.memory.Lock(conversationID)
	defer unlock()
	return d.memory.Clear(ctx, conversationID)
}

// ListConversations returns the ids of live conversations.
func (d *Dispatcher) ListConversations(ctx context.Context) ([]string, error) {
	return d.memory.ListIDs(ctx)
}

// Intents returns the registered intent catalog.
func (d *Dispatcher) Intents() []registry.Metadata {
	return d.registry.ListAll()
}

func (d *Dispatcher) errorResponse(conversationID, category string, confidence float64, selectedProject string, err error) *QueryResponse {
	stdErr := errors.AsStandardError(err)
	return &QueryResponse{
		Message:         errors.UserMessage(stdErr),
		Intent:          category,
		Confidence:      confidence,
		ConversationID:  conversationID,
		SelectedProject: selectedProject,
		Error: &ErrorInfo{
			Code:    string(stdErr.Code),
			Message: errors.UserMessage(stdErr),
		},
	}
}

func projectName(p *intent.ProjectContext) string {
	if p == nil {
		return ""
	}
	return p.Name
}
