package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, 24*time.Hour, logger.NewNoOpLogger()), mr
}

func TestRedisAppendAndContext(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "c1", Turn{
		ID:          "t1",
		UserMessage: "minhas tarefas",
		Intent:      "get_tasks",
		Params:      map[string]interface{}{"person": "Bruno"},
		Response:    "3 tarefas ativas",
	}))

	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Turns, 1)
	assert.Equal(t, "get_tasks", got.Turns[0].Intent)
	assert.Equal(t, map[string]interface{}{"person": "Bruno"}, got.LastParams)
}

func TestRedisKeyCarriesTTL(t *testing.T) {
	store, mr := newRedisStore(t)

	require.NoError(t, store.Append(context.Background(), "c1", Turn{ID: "t1", Intent: "other"}))

	ttl := mr.TTL(redisKeyPrefix + "c1")
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestRedisExpiryForgetsConversation(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "c1", Turn{ID: "t1", Intent: "other"}))

	mr.FastForward(25 * time.Hour)

	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, got.Turns)
}

func TestRedisProjectSelection(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetProject(ctx, "c1", intent.ProjectContext{
		Name: "Orion", Scope: intent.ScopeSpecific,
	}))

	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got.SelectedProject)
	assert.Equal(t, "Orion", got.SelectedProject.Name)

	require.NoError(t, store.ClearProject(ctx, "c1"))

	got, err = store.Context(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got.SelectedProject)
}

func TestRedisClearAndListIDs(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "c1", Turn{ID: "t1", Intent: "other"}))
	require.NoError(t, store.Append(ctx, "c2", Turn{ID: "t2", Intent: "other"}))

	ids, err := store.ListIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, ids)

	require.NoError(t, store.Clear(ctx, "c1"))

	ids, err = store.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, ids)
}

func TestRedisCorruptStateStartsFresh(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(redisKeyPrefix+"c1", "{not json"))

	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, got.Turns)

	// Appending over the corrupt doc works.
	require.NoError(t, store.Append(ctx, "c1", Turn{ID: "t1", Intent: "other"}))
	got, err = store.Context(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got.Turns, 1)
}

func TestRedisHistoryLimit(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, store.Append(ctx, "c1", Turn{ID: string(rune('a' + i)), Intent: "other"}))
	}

	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got.Turns, HistoryLimit)
	assert.Equal(t, "g", got.Turns[len(got.Turns)-1].ID)
}
