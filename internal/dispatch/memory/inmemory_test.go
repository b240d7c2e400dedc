package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
)

func newStore(t *testing.T, ttl time.Duration) *InMemoryStore {
	t.Helper()
	return NewInMemoryStore(ttl, logger.NewNoOpLogger())
}

func TestContextUnknownConversationIsEmpty(t *testing.T) {
	store := newStore(t, time.Hour)

	got, err := store.Context(context.Background(), "nope")

	require.NoError(t, err)
	assert.Equal(t, "nope", got.ConversationID)
	assert.Empty(t, got.Turns)
	assert.Nil(t, got.SelectedProject)
}

func TestAppendAndContext(t *testing.T) {
	store := newStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "c1", Turn{
		ID:          "t1",
		UserMessage: "quantas horas a Alice trabalhou esta semana?",
		Intent:      "worked_hours",
		Params:      map[string]interface{}{"person": "Alice"},
		Response:    "12.5 horas",
	}))

	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Turns, 1)
	assert.Equal(t, "worked_hours", got.Turns[0].Intent)
	assert.Equal(t, map[string]interface{}{"person": "Alice"}, got.LastParams)
}

func TestContextExposesAtMostFiveTurns(t *testing.T) {
	store := newStore(t, time.Hour)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		require.NoError(t, store.Append(ctx, "c1", Turn{
			ID:          fmt.Sprintf("t%d", i),
			UserMessage: fmt.Sprintf("message %d", i),
			Intent:      "other",
		}))
	}

	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Turns, HistoryLimit)
	// Oldest first, ending with the newest.
	assert.Equal(t, "t3", got.Turns[0].ID)
	assert.Equal(t, "t7", got.Turns[4].ID)
}

func TestLastParamsKeptWhenTurnHasNone(t *testing.T) {
	store := newStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "c1", Turn{
		ID: "t1", Intent: "worked_hours",
		Params: map[string]interface{}{"person": "Alice"},
	}))
	require.NoError(t, store.Append(ctx, "c1", Turn{ID: "t2", Intent: "other"}))

	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"person": "Alice"}, got.LastParams)
}

func TestProjectSelection(t *testing.T) {
	store := newStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.SetProject(ctx, "c1", intent.ProjectContext{
		Name: "Delta", Scope: intent.ScopeSpecific,
	}))

	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got.SelectedProject)
	assert.Equal(t, "Delta", got.SelectedProject.Name)

	require.NoError(t, store.ClearProject(ctx, "c1"))

	got, err = store.Context(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got.SelectedProject)
}

func TestExpiry(t *testing.T) {
	store := newStore(t, time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "c1", Turn{ID: "t1", Intent: "other"}))

	// Still alive just under the TTL.
	now = now.Add(59 * time.Minute)
	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got.Turns, 1)

	// Expired past it.
	now = now.Add(2 * time.Minute)
	got, err = store.Context(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, got.Turns)

	ids, err := store.ListIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestClear(t *testing.T) {
	store := newStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "c1", Turn{ID: "t1", Intent: "other"}))
	require.NoError(t, store.Clear(ctx, "c1"))

	got, err := store.Context(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, got.Turns)
}

func TestLockSerializesSameConversation(t *testing.T) {
	store := newStore(t, time.Hour)

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup

	unlock := store.Lock("c1")
	for i := 1; i <= 3; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			u := store.Lock("c1")
			defer u()
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		}(i)
	}

	// Nothing proceeds while the first lock is held.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Empty(t, order)
	mu.Unlock()

	unlock()
	wg.Wait()

	mu.Lock()
	assert.Len(t, order, 3)
	mu.Unlock()
}

func TestLockDifferentConversationsDoNotContend(t *testing.T) {
	store := newStore(t, time.Hour)

	unlock := store.Lock("c1")
	defer unlock()

	done := make(chan struct{})
	go func() {
		u := store.Lock("c2")
		u()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different conversation blocked")
	}
}
