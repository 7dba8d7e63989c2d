package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/commercegate/catalog-agent/pkg/domain/session"
	"github.com/commercegate/catalog-agent/pkg/infra/repository"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionRepository_GetByID(t *testing.T) {
	t.Run("returns the stored session", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := repository.NewRedisSessionRepository(db, time.Hour)

		stored := session.NewSession("abc")
		stored.Append("show me mugs", "Here are some mugs.")
		raw, err := json.Marshal(stored)
		require.NoError(t, err)

		mock.ExpectGet("session:abc").SetVal(string(raw))

		got, err := repo.GetByID(context.Background(), "abc")

		require.NoError(t, err)
		assert.Equal(t, "abc", got.ID)
		assert.Len(t, got.History, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing key maps to not found", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := repository.NewRedisSessionRepository(db, time.Hour)

		mock.ExpectGet("session:missing").RedisNil()

		got, err := repo.GetByID(context.Background(), "missing")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("corrupt payload is an error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := repository.NewRedisSessionRepository(db, time.Hour)

		mock.ExpectGet("session:abc").SetVal("not json")

		got, err := repo.GetByID(context.Background(), "abc")

		assert.Nil(t, got)
		assert.Error(t, err)
	})
}

func TestRedisSessionRepository_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := repository.NewRedisSessionRepository(db, 30*time.Minute)

	s := session.NewSession("abc")
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	mock.ExpectSet("session:abc", string(raw), 30*time.Minute).SetVal("OK")

	require.NoError(t, repo.Save(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepository_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := repository.NewRedisSessionRepository(db, time.Hour)

	mock.ExpectDel("session:abc").SetVal(1)

	require.NoError(t, repo.Delete(context.Background(), "abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		repo := repository.NewMemorySessionRepository(time.Hour)

		s := session.NewSession("abc")
		s.Append("hello", "hi")
		require.NoError(t, repo.Save(ctx, s))

		got, err := repo.GetByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, s.ID, got.ID)
		assert.Len(t, got.History, 2)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		repo := repository.NewMemorySessionRepository(time.Hour)

		got, err := repo.GetByID(ctx, "missing")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("expired entries are evicted", func(t *testing.T) {
		repo := repository.NewMemorySessionRepository(time.Millisecond)

		require.NoError(t, repo.Save(ctx, session.NewSession("abc")))
		time.Sleep(5 * time.Millisecond)

		got, err := repo.GetByID(ctx, "abc")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("delete removes the session", func(t *testing.T) {
		repo := repository.NewMemorySessionRepository(time.Hour)

		require.NoError(t, repo.Save(ctx, session.NewSession("abc")))
		require.NoError(t, repo.Delete(ctx, "abc"))

		_, err := repo.GetByID(ctx, "abc")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}
