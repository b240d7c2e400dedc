// Package memory stores per-conversation state: the recent turn history,
// the selected project and the params of the last handled turn, which
// drive carry-over for follow-up questions.
package memory

import (
	"context"
	"time"

	"devops-assistant/internal/dispatch/intent"
)

// HistoryLimit is how many recent turns a conversation context exposes.
const HistoryLimit = 5

// Turn is one completed exchange: only successfully handled turns are
// appended, failed ones leave the conversation state untouched.
type Turn struct {
	ID          string                 `json:"id"`
	UserMessage string                 `json:"userMessage"`
	Intent      string                 `json:"intent"`
	Params      map[string]interface{} `json:"params,omitempty"`
	Response    string                 `json:"response"`
	Timestamp   time.Time              `json:"timestamp"`
}

// Context is the read snapshot handed to the router and the handlers.
type Context struct {
	ConversationID  string                 `json:"conversationId"`
	SelectedProject *intent.ProjectContext `json:"selectedProject,omitempty"`
	Turns           []Turn                 `json:"turns"` // oldest first, at most HistoryLimit
	LastParams      map[string]interface{} `json:"lastParams,omitempty"`
}

// RecentTurnRefs converts the history to the extractor's view.
func (c Context) RecentTurnRefs() []intent.TurnRef {
	refs := make([]intent.TurnRef, 0, len(c.Turns))
	for _, t := range c.Turns {
		refs = append(refs, intent.TurnRef{
			UserMessage: t.UserMessage,
			Intent:      t.Intent,
			Params:      t.Params,
		})
	}
	return refs
}

// Store is the conversation state backend.
type Store interface {
	// Context returns the current snapshot. Unknown ids yield an empty
	// context, not an error: a new conversation starts implicitly.
	Context(ctx context.Context, conversationID string) (Context, error)
	// Append records a completed turn and refreshes the TTL.
	Append(ctx context.Context, conversationID string, turn Turn) error
	// Clear forgets the conversation entirely.
	Clear(ctx context.Context, conversationID string) error
	// ListIDs returns the ids of live conversations.
	ListIDs(ctx context.Context) ([]string, error)
	// SetProject stores the conversation's project selection.
	SetProject(ctx context.Context, conversationID string, project intent.ProjectContext) error
	// ClearProject drops the selection but keeps the history.
	ClearProject(ctx context.Context, conversationID string) error
	// Lock serializes turns for one conversation. The returned func
	// releases the lock. Different conversations never contend.
	Lock(conversationID string) func()
}
