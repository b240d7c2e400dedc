package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/logger"
)

// Backend failures are simulated with a mocked client: miniredis covers
// the happy paths, these cover the error taxonomy.

func TestRedisContextBackendFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, time.Hour, logger.NewNoOpLogger())

	mock.ExpectGet(redisKeyPrefix + "c1").SetErr(fmt.Errorf("connection refused"))

	_, err := store.Context(context.Background(), "c1")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMemoryStoreFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClearBackendFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, time.Hour, logger.NewNoOpLogger())

	mock.ExpectDel(redisKeyPrefix + "c1").SetErr(fmt.Errorf("connection refused"))

	err := store.Clear(context.Background(), "c1")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMemoryStoreFailed))
}
