package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
)

const redisKeyPrefix = "conversation:"

// redisDoc is the stored shape of one conversation.
type redisDoc struct {
	Turns      []Turn                 `json:"turns"`
	Project    *intent.ProjectContext `json:"project,omitempty"`
	LastParams map[string]interface{} `json:"lastParams,omitempty"`
}

// RedisStore keeps conversation state in Redis so it survives restarts
// and can be shared by several assistant instances. Expiry is delegated
// to Redis key TTLs. Turn ordering is still enforced by a process-local
// lock, which assumes one conversation is not split across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  *keyLock
	logger logger.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		locks:  newKeyLock(),
		logger: log.With(map[string]interface{}{"component": "memory-redis"}),
	}
}

func (s *RedisStore) Context(ctx context.Context, conversationID string) (Context, error) {
	out := Context{ConversationID: conversationID}

	doc, err := s.load(ctx, conversationID)
	if err != nil {
		return out, err
	}
	if doc == nil {
		return out, nil
	}

	turns := doc.Turns
	if len(turns) > HistoryLimit {
		turns = turns[len(turns)-HistoryLimit:]
	}
	out.Turns = turns
	out.LastParams = doc.LastParams
	out.SelectedProject = doc.Project
	return out, nil
}

func (s *RedisStore) Append(ctx context.Context, conversationID string, turn Turn) error {
	doc, err := s.load(ctx, conversationID)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = &redisDoc{}
	}

	doc.Turns = append(doc.Turns, turn)
	if len(doc.Turns) > maxStoredTurns {
		doc.Turns = doc.Turns[len(doc.Turns)-maxStoredTurns:]
	}
	if turn.Params != nil {
		doc.LastParams = turn.Params
	}
	return s.save(ctx, conversationID, doc)
}

func (s *RedisStore) Clear(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+conversationID).Err(); err != nil {
		return errors.NewMemoryStoreError(err)
	}
	return nil
}

func (s *RedisStore) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(redisKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, errors.NewMemoryStoreError(err)
	}
	return ids, nil
}

func (s *RedisStore) SetProject(ctx context.Context, conversationID string, project intent.ProjectContext) error {
	doc, err := s.load(ctx, conversationID)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = &redisDoc{}
	}
	doc.Project = &project
	return s.save(ctx, conversationID, doc)
}

func (s *RedisStore) ClearProject(ctx context.Context, conversationID string) error {
	doc, err := s.load(ctx, conversationID)
	if err != nil || doc == nil {
		return err
	}
	doc.Project = nil
	return s.save(ctx, conversationID, doc)
}

func (s *RedisStore) Lock(conversationID string) func() {
	return s.locks.Lock(conversationID)
}

func (s *RedisStore) load(ctx context.Context, conversationID string) (*redisDoc, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+conversationID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewMemoryStoreError(err)
	}

	var doc redisDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		// Corrupt state is unrecoverable for this conversation; start fresh.
		s.logger.Warn("discarding corrupt conversation state", map[string]interface{}{
			"conversationId": conversationID,
			"error":          err.Error(),
		})
		return nil, nil
	}
	return &doc, nil
}

func (s *RedisStore) save(ctx context.Context, conversationID string, doc *redisDoc) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.NewMemoryStoreError(err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+conversationID, raw, s.ttl).Err(); err != nil {
		return errors.NewMemoryStoreError(err)
	}
	return nil
}
