// Package intent defines the contracts shared by the dispatcher, the
// registry and every intent implementation.
package intent

import (
	"context"
	"time"
)

// Project scope values. "specific" pins queries to the selected project,
// "all" spans every project, "default" falls back to the configured one.
const (
	ScopeSpecific = "specific"
	ScopeAll      = "all"
	ScopeDefault  = "default"
)

// ProjectContext is the project selection carried by a conversation.
type ProjectContext struct {
	Name  string `json:"name"`
	Scope string `json:"scope"`
}

// TurnRef is the view of a past turn given to extractors for carry-over:
// a follow-up like "and last month?" reuses the previous turn's params.
type TurnRef struct {
	UserMessage string                 `json:"userMessage"`
	Intent      string                 `json:"intent"`
	Params      map[string]interface{} `json:"params,omitempty"`
}

// Request is one user message plus the conversation context available
// when handling it.
type Request struct {
	Message         string
	ConversationID  string
	SelectedProject *ProjectContext
	RecentTurns     []TurnRef // oldest first
	LastParams      map[string]interface{}
	Reference       time.Time // anchor for relative date resolution
}

// LastIntent returns the category of the most recent turn, or "".
func (r Request) LastIntent() string {
	if len(r.RecentTurns) == 0 {
		return ""
	}
	return r.RecentTurns[len(r.RecentTurns)-1].Intent
}

// Response is the structured outcome of one handled turn.
type Response struct {
	// Message is the deterministic reply. Intents finished by the
	// language model may leave it as a fallback summary.
	Message string
	// Data holds the typed results exposed in the API response.
	Data map[string]interface{}
	// Params is the extracted parameter set, stored with the turn so
	// follow-up questions can reuse it.
	Params map[string]interface{}
	// Project, when set, replaces the conversation's selection.
	Project *ProjectContext
	// ClearProject drops the conversation's selection.
	ClearProject bool
}

// Params is a typed parameter set produced by an extractor. Validate
// reports a missing-parameter error when a required field is absent
// even after carry-over fill.
type Params interface {
	Validate() error
}

// MapParams is implemented by param sets that can be stored with the
// turn for carry-over.
type MapParams interface {
	AsMap() map[string]interface{}
}

// Extractor turns the message and carry-over context into typed params.
type Extractor interface {
	Extract(ctx context.Context, req Request) (Params, error)
}

// Service answers an intent's data needs from the backing systems.
type Service interface {
	Fetch(ctx context.Context, req Request, params Params) (map[string]interface{}, error)
}

// Handler processes one turn for one intent.
type Handler interface {
	Handle(ctx context.Context, req Request) (*Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req Request) (*Response, error)

func (f HandlerFunc) Handle(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Option is one category offered to the classifier.
type Option struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}
