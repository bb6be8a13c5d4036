package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"flipforma-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return NewRedisStore(rdb, ""), mr
}

func newDatabaseStore(t *testing.T) *DatabaseStore {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ProjectEntry{}))
	return &DatabaseStore{DB: db}
}

func newFileStore(t *testing.T) *FileStore {
	return NewFileStore(filepath.Join(t.TempDir(), "projects.json"))
}

// Every backend must honour the same contract.
func TestStores_Contract(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]Store{
		"redis":    redisStore,
		"database": newDatabaseStore(t),
		"file":     newFileStore(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			keys, err := s.List(ctx, "project")
			require.NoError(t, err)
			assert.Empty(t, keys)

			_, err = s.Get(ctx, "project_1")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "project_2", `{"projectName":"B"}`))
			require.NoError(t, s.Set(ctx, "project_1", `{"projectName":"A"}`))
			require.NoError(t, s.Set(ctx, "other", `{"projectName":"C"}`))

			keys, err = s.List(ctx, "project")
			require.NoError(t, err)
			assert.Equal(t, []string{"project_1", "project_2"}, keys)

			all, err := s.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)

			v, err := s.Get(ctx, "project_1")
			require.NoError(t, err)
			assert.Contains(t, v, `"projectName"`)
			assert.Contains(t, v, `"A"`)

			require.NoError(t, s.Set(ctx, "project_1", `{"projectName":"A2"}`))
			v, err = s.Get(ctx, "project_1")
			require.NoError(t, err)
			assert.Contains(t, v, `"A2"`)
			keys, _ = s.List(ctx, "project")
			assert.Len(t, keys, 2, "set replaces instead of appending")

			require.NoError(t, s.Remove(ctx, "project_1"))
			_, err = s.Get(ctx, "project_1")
			assert.ErrorIs(t, err, ErrNotFound)
			require.NoError(t, s.Remove(ctx, "project_1"), "removing a missing key is fine")

			if p, ok := s.(Pinger); ok {
				assert.NoError(t, p.Ping(ctx))
			}
		})
	}
}

func TestRedisStore_PrefixNamespacesKeys(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "project_1", `{}`))
	require.NoError(t, mr.Set("unrelated:project_9", "x"))

	assert.True(t, mr.Exists(DefaultRedisPrefix+"project_1"))
	keys, err := s.List(ctx, "project")
	require.NoError(t, err)
	assert.Equal(t, []string{"project_1"}, keys)
}

func TestRedisStore_GlobCharactersInPrefix(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a*b", `{}`))
	require.NoError(t, s.Set(ctx, "axb", `{}`))

	keys, err := s.List(ctx, "a*")
	require.NoError(t, err)
	assert.Equal(t, []string{"a*b"}, keys)
}

func TestDatabaseStore_LikeWildcardsInPrefix(t *testing.T) {
	s := newDatabaseStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "project_1", `{}`))
	require.NoError(t, s.Set(ctx, "projectX1", `{}`))

	keys, err := s.List(ctx, "project_")
	require.NoError(t, err)
	assert.Equal(t, []string{"project_1"}, keys)
}

func TestDatabaseStore_RejectsNonJSON(t *testing.T) {
	s := newDatabaseStore(t)
	err := s.Set(context.Background(), "k", "not json")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFileStore_WritesSingleArrayDocument(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "project_1", `{"projectName":"A"}`))
	require.NoError(t, s.Set(ctx, "plain", "hello"))

	raw, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"project_1","projectName":"A"},{"id":"plain","value":"hello"}]`, string(raw))

	v, err := s.Get(ctx, "plain")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"plain","value":"hello"}`, v)
}

func TestFileStore_CorruptDocument(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, os.WriteFile(s.Path, []byte("{oops"), 0o600))
	_, err := s.List(context.Background(), "")
	assert.Error(t, err)
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend(" Redis ")
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, b)

	_, err = ParseBackend("s3")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
