package memory

import (
	"context"
	"sync"
	"time"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
)

const maxStoredTurns = 50

type conversation struct {
	turns        []Turn
	project      *intent.ProjectContext
	lastParams   map[string]interface{}
	lastActivity time.Time
}

// InMemoryStore keeps conversation state in process memory. The default
// backend for single-instance deployments and tests.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*conversation
	ttl           time.Duration
	locks         *keyLock
	logger        logger.Logger
	now           func() time.Time
}

func NewInMemoryStore(ttl time.Duration, log logger.Logger) *InMemoryStore {
	return &InMemoryStore{
		conversations: make(map[string]*conversation),
		ttl:           ttl,
		locks:         newKeyLock(),
		logger:        log.With(map[string]interface{}{"component": "memory-inmemory"}),
		now:           time.Now,
	}
}

func (s *InMemoryStore) Context(_ context.Context, conversationID string) (Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Context{ConversationID: conversationID}
	conv, ok := s.conversations[conversationID]
	if !ok || s.expired(conv) {
		return out, nil
	}

	turns := conv.turns
	if len(turns) > HistoryLimit {
		turns = turns[len(turns)-HistoryLimit:]
	}
	out.Turns = append([]Turn(nil), turns...)
	out.LastParams = conv.lastParams
	if conv.project != nil {
		p := *conv.project
		out.SelectedProject = &p
	}
	return out, nil
}

func (s *InMemoryStore) Append(_ context.Context, conversationID string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.live(conversationID)
	conv.turns = append(conv.turns, turn)
	if len(conv.turns) > maxStoredTurns {
		conv.turns = conv.turns[len(conv.turns)-maxStoredTurns:]
	}
	if turn.Params != nil {
		conv.lastParams = turn.Params
	}
	conv.lastActivity = s.now()
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
	return nil
}

func (s *InMemoryStore) ListIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.conversations))
	for id, conv := range s.conversations {
		if !s.expired(conv) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *InMemoryStore) SetProject(_ context.Context, conversationID string, project intent.ProjectContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.live(conversationID)
	conv.project = &project
	conv.lastActivity = s.now()
	return nil
}

func (s *InMemoryStore) ClearProject(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.conversations[conversationID]; ok {
		conv.project = nil
		conv.lastActivity = s.now()
	}
	return nil
}

func (s *InMemoryStore) Lock(conversationID string) func() {
	return s.locks.Lock(conversationID)
}

// StartPruning evicts expired conversations in the background until the
// context is cancelled.
func (s *InMemoryStore) StartPruning(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.prune()
			}
		}
	}()
}

func (s *InMemoryStore) prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, conv := range s.conversations {
		if s.expired(conv) {
			delete(s.conversations, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("pruned expired conversations", map[string]interface{}{
			"removed":   removed,
			"remaining": len(s.conversations),
		})
	}
}

// live returns the conversation, replacing an expired one. Callers must
// hold the write lock.
func (s *InMemoryStore) live(conversationID string) *conversation {
	conv, ok := s.conversations[conversationID]
	if !ok || s.expired(conv) {
		conv = &conversation{lastActivity: s.now()}
		s.conversations[conversationID] = conv
	}
	return conv
}

func (s *InMemoryStore) expired(conv *conversation) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(conv.lastActivity) > s.ttl
}
