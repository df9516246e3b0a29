package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-web/internal/db"
	"github.com/oggyb/muzz-web/internal/repository"
	"github.com/oggyb/muzz-web/internal/testutil"
)

func usernames(users []db.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}

func TestLikeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbase := testutil.NewDB(t)
	repo := repository.NewLikeRepository(dbase)

	require.NoError(t, repo.Like(ctx, 1, 2))
	require.NoError(t, repo.Like(ctx, 1, 2))

	var count int64
	require.NoError(t, dbase.Model(&db.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	liked, err := repo.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	// direction matters
	liked, err = repo.HasLiked(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestUnlike(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLikeRepository(testutil.NewDB(t))

	require.NoError(t, repo.Like(ctx, 1, 2))
	require.NoError(t, repo.Unlike(ctx, 1, 2))
	require.NoError(t, repo.Unlike(ctx, 1, 2)) // no-op

	liked, err := repo.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestLikesOfAndLikedBy(t *testing.T) {
	ctx := context.Background()
	dbase := testutil.NewDB(t)
	repo := repository.NewLikeRepository(dbase)

	alice := testutil.CreateUser(t, dbase, "alice", "female", "")
	bob := testutil.CreateUser(t, dbase, "bob", "male", "")
	carol := testutil.CreateUser(t, dbase, "carol", "female", "")

	require.NoError(t, repo.Like(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.Like(ctx, alice.ID, carol.ID))
	require.NoError(t, repo.Like(ctx, carol.ID, bob.ID))

	likes, err := repo.LikesOf(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol"}, usernames(likes))

	likers, err := repo.LikedBy(ctx, bob.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "carol"}, usernames(likers))

	likers, err = repo.LikedBy(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, likers)
}

func TestMatchesRequireBothDirections(t *testing.T) {
	ctx := context.Background()
	dbase := testutil.NewDB(t)
	repo := repository.NewLikeRepository(dbase)

	alice := testutil.CreateUser(t, dbase, "alice", "female", "")
	bob := testutil.CreateUser(t, dbase, "bob", "male", "")
	dave := testutil.CreateUser(t, dbase, "dave", "male", "")

	require.NoError(t, repo.Like(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.Like(ctx, dave.ID, alice.ID)) // one-way towards alice

	matches, err := repo.Matches(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)

	require.NoError(t, repo.Like(ctx, bob.ID, alice.ID))

	matches, err = repo.Matches(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, usernames(matches))

	matches, err = repo.Matches(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, usernames(matches))

	matches, err = repo.Matches(ctx, dave.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
