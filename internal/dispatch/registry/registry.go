// Package registry is the intent catalog: every category the assistant
// understands is registered here at startup, and the router's option set
// is derived from it.
package registry

import (
	"sync"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/dispatch/intent"
)

// Metadata describes one registered intent.
type Metadata struct {
	// Category is the stable identifier used by the classifier.
	Category string `json:"category"`
	// DisplayName is the human-readable name shown in listings.
	DisplayName string `json:"displayName"`
	// Description tells the classifier when this intent applies.
	Description string `json:"description"`
	// AgentName identifies the handler implementation, for logs.
	AgentName string `json:"agentName"`
	// RequiresProject gates the intent on a selected project.
	RequiresProject bool `json:"requiresProject"`
	// RequiresLLMFinish marks intents whose reply is phrased by the
	// language model from the handler's structured data.
	RequiresLLMFinish bool `json:"requiresLLMFinish"`
	// Factory builds a handler bound to one conversation.
	Factory func(conversationID string) intent.Handler `json:"-"`
}

// Registry holds intent metadata keyed by category. Registration order
// is preserved so listings and classifier prompts are deterministic.
type Registry struct {
	mu    sync.RWMutex
	byCat map[string]Metadata
	order []string
}

func New() *Registry {
	return &Registry{
		byCat: make(map[string]Metadata),
	}
}

// Register adds an intent. Registering the same category twice is a
// packaging bug and fails with a duplicate-intent error.
func (r *Registry) Register(meta Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCat[meta.Category]; exists {
		return errors.NewDuplicateIntentError(meta.Category)
	}
	r.byCat[meta.Category] = meta
	r.order = append(r.order, meta.Category)
	return nil
}

// Get looks up an intent by category.
func (r *Registry) Get(category string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.byCat[category]
	return meta, ok
}

// ListAll returns every registered intent in registration order.
func (r *Registry) ListAll() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.order))
	for _, cat := range r.order {
		out = append(out, r.byCat[cat])
	}
	return out
}

// Options returns the classifier option set in registration order.
func (r *Registry) Options() []intent.Option {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]intent.Option, 0, len(r.order))
	for _, cat := range r.order {
		meta := r.byCat[cat]
		out = append(out, intent.Option{
			Category:    meta.Category,
			Description: meta.Description,
		})
	}
	return out
}

// Len returns the number of registered intents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Reset removes every registration. Test hook.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCat = make(map[string]Metadata)
	r.order = nil
}
