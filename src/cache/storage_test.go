package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage runs the behaviour every backend must share.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	ok, err := s.Has(ctx, "job-node-test-commit-1", KindJSON)
	require.NoError(t, err)
	require.False(t, ok, "Has() on empty storage")
	_, err = s.Read(ctx, "job-node-test-commit-1", KindJSON)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write(ctx, "job-node-test-commit-1", KindJSON, []byte(`{"a":1}`)))
	require.NoError(t, s.Write(ctx, "job-node-test-commit-1", KindJSON, []byte(`{"a":2}`)))

	data, err := s.Read(ctx, "job-node-test-commit-1", KindJSON)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	ok, _ = s.Has(ctx, "job-node-test-commit-1", KindText)
	assert.False(t, ok, "text kind should be a separate entry")
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestDirStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirStorage(filepath.Join(dir, "nested", "cache"))
	require.NoError(t, err)
	exerciseStorage(t, s)

	_, err = os.Stat(filepath.Join(s.Dir(), "job-node-test-commit-1.json"))
	assert.NoError(t, err, "expected json file on disk")
}

func TestDirStorage_KeysStayInsideDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirStorage(dir)
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), "../../escape/attempt", KindText, []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsDir())
}

func TestDirStorage_SimilarKeysKeepSeparateEntries(t *testing.T) {
	s, err := NewDirStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	keys := []string{"job/a-b/1", "job/a/b-1", "job-a-b-1", "job:a/b\\1", "job_a/b-1"}
	for _, key := range keys {
		require.NoError(t, s.Write(ctx, key, KindText, []byte(key)))
	}
	for _, key := range keys {
		data, err := s.Read(ctx, key, KindText)
		require.NoError(t, err)
		assert.Equal(t, key, string(data))
	}

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, len(keys))
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping integration test")
	}
	s, err := NewRedisStorage(context.Background(), addr)
	require.NoError(t, err)
	defer s.Close()
	s.client.Del(context.Background(), redisKey("job-node-test-commit-1", KindJSON))
	exerciseStorage(t, s)
}

func TestPostgresStorage(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set, skipping integration test")
	}
	s, err := NewPostgresStorage(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.db.Exec(`DELETE FROM cache_entries WHERE key = $1`, "job-node-test-commit-1")
	require.NoError(t, err)
	exerciseStorage(t, s)
}
