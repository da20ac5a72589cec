package redis_a_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/stockroom-console/internal/adapters/redis_adapter"
	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/test/helpers"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)
	store := redis_a.NewSessionStore(cache, time.Hour, helpers.TestLogger())

	sess := domain.NewSession("tok-1", domain.UserProfile{FullName: "Ayesha Khan", Role: domain.RoleAdmin}, 10)
	sess.View.CurrentPage = 3
	sess.View.SearchTerm = "bolt"
	sess.AddNotice(domain.NoticeSuccess, "Login successful")

	require.NoError(t, store.Save(ctx, sess))
	assert.True(t, mr.Exists("session:"+sess.ID.String()))
	assert.Equal(t, time.Hour, mr.TTL("session:"+sess.ID.String()))

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "tok-1", loaded.Token)
	assert.Equal(t, sess.User, loaded.User)
	assert.Equal(t, sess.View, loaded.View)
	require.Len(t, loaded.Flash, 1)
	assert.Equal(t, "Login successful", loaded.Flash[0].Message)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_Errors(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)
	store := redis_a.NewSessionStore(cache, time.Minute, helpers.TestLogger())

	t.Run("unknown_session", func(t *testing.T) {
		_, err := store.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	})

	t.Run("expired_session", func(t *testing.T) {
		sess := domain.NewSession("tok", domain.UserProfile{}, 0)
		require.NoError(t, store.Save(ctx, sess))

		mr.FastForward(2 * time.Minute)

		_, err := store.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	})

	t.Run("missing_id_is_rejected", func(t *testing.T) {
		assert.Error(t, store.Save(ctx, &domain.Session{}))
		assert.Error(t, store.Save(ctx, nil))
	})
}
