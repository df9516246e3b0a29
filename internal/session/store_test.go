package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-web/internal/db"
	svcErr "github.com/oggyb/muzz-web/internal/errors"
	"github.com/oggyb/muzz-web/internal/session"
	"github.com/oggyb/muzz-web/internal/testutil"
)

func TestStore_CreateResolveDestroy(t *testing.T) {
	ctx := context.Background()
	rc, mr := testutil.NewCache(t)
	store := session.NewStore(rc, time.Hour)

	token, err := store.Create(ctx, db.User{ID: 42})
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:"+token))

	id, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	require.NoError(t, store.Destroy(ctx, token))
	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, svcErr.ErrUnauthenticated)

	// logout is idempotent
	assert.NoError(t, store.Destroy(ctx, token))
	assert.NoError(t, store.Destroy(ctx, ""))
}

func TestStore_ResolveRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	rc, mr := testutil.NewCache(t)
	store := session.NewStore(rc, time.Hour)

	_, err := store.Resolve(ctx, "")
	assert.ErrorIs(t, err, svcErr.ErrUnauthenticated)

	_, err = store.Resolve(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, svcErr.ErrUnauthenticated)

	// a well-formed token nobody issued
	_, err = store.Resolve(ctx, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	assert.ErrorIs(t, err, svcErr.ErrUnauthenticated)

	// corrupted value
	require.NoError(t, mr.Set("session:1b4e28ba-2fa1-11d2-883f-0016d3cca427", "abc"))
	_, err = store.Resolve(ctx, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	assert.ErrorIs(t, err, svcErr.ErrUnauthenticated)
}

func TestStore_SlidingExpiry(t *testing.T) {
	ctx := context.Background()
	rc, mr := testutil.NewCache(t)
	store := session.NewStore(rc, time.Hour)

	token, err := store.Create(ctx, db.User{ID: 1})
	require.NoError(t, err)

	mr.FastForward(50 * time.Minute)
	_, err = store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("session:"+token))

	mr.FastForward(61 * time.Minute)
	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, svcErr.ErrUnauthenticated)
}
