package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movers-solution/movers/internal/models"
)

// testRepoContract exercises the behaviour every Repo must share
func testRepoContract(t *testing.T, repo Repo) {
	ctx := context.Background()

	t.Run("load missing", func(t *testing.T) {
		_, err := repo.Load(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save and load authenticated", func(t *testing.T) {
		want := New("42", "alex", "alex@example.com", RoleMover)
		require.NoError(t, repo.Save(ctx, "k1", want))

		got, err := repo.Load(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
	})

	t.Run("save replaces wholesale", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "k1", Empty()))

		got, err := repo.Load(ctx, "k1")
		require.NoError(t, err)
		assert.False(t, got.IsAuthenticated())
		assert.Equal(t, "", got.Username)
		assert.Equal(t, RoleNone, got.Role)
	})

	t.Run("touch", func(t *testing.T) {
		assert.NoError(t, repo.Touch(ctx, "k1"))
		assert.ErrorIs(t, repo.Touch(ctx, "missing"), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "k2", New("7", "lisa", "lisa@example.com", RoleUser)))
		require.NoError(t, repo.Delete(ctx, "k2"))

		_, err := repo.Load(ctx, "k2")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryRepo(t *testing.T) {
	testRepoContract(t, NewMemoryRepo())
}

func TestMemoryRepo_DeleteIdle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }
	require.NoError(t, repo.Save(ctx, "old", Empty()))

	repo.now = func() time.Time { return base.Add(2 * time.Hour) }
	require.NoError(t, repo.Save(ctx, "fresh", Empty()))

	removed, err := repo.DeleteIdle(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.Load(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryRepo_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.Save(ctx, "k", New("1", "a", "a@example.com", RoleUser)))

	got, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	*got.ID = "mutated"

	again, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", again.UserID())
}

func openTestDB(t *testing.T) *GormRepo {
	t.Helper()
	db, err := models.Open(filepath.Join(t.TempDir(), "sessions.sqlite"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = models.Close(db) })
	return NewGormRepo(db)
}

func TestGormRepo(t *testing.T) {
	testRepoContract(t, openTestDB(t))
}

func TestGormRepo_DeleteIdle(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }
	require.NoError(t, repo.Save(ctx, "old", Empty()))

	repo.now = func() time.Time { return base.Add(2 * time.Hour) }
	require.NoError(t, repo.Save(ctx, "fresh", New("9", "m", "m@example.com", RoleMover)))

	removed, err := repo.DeleteIdle(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRedisRepo(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDRESS not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	repo := NewRedisRepo(client, time.Minute)
	t.Cleanup(func() {
		ctx := context.Background()
		for _, k := range []string{"k1", "k2"} {
			_ = repo.Delete(ctx, k)
		}
	})
	testRepoContract(t, repo)
}
