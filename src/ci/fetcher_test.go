package ci

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cisleuth/src/cache"
	"cisleuth/src/logger"
)

func TestCachedFetcher(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		wantCalls int
	}{
		{"enabled cache fetches once", true, 1},
		{"disabled cache always fetches", false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := newFakeFetcher()
			inner.json["job/node-test-commit/1/"] = `{"result": "FAILURE", "number": 1}`
			inner.text["job/node-test-linter/2/"] = "Error: lint\n"

			c := cache.NewCache(cache.NewMemoryStorage(), logger.NewSilentLogger())
			if tt.enabled {
				c.Enable()
			}
			f := NewCachedFetcher(inner, c)

			for i := 0; i < 3; i++ {
				var data buildData
				require.NoError(t, f.FetchJSON(context.Background(), "job/node-test-commit/1/", commitTree, &data))
				assert.Equal(t, Failure, data.Result)
				assert.Equal(t, 1, data.Number)

				text, err := f.FetchText(context.Background(), "job/node-test-linter/2/")
				require.NoError(t, err)
				assert.Equal(t, "Error: lint\n", text)
			}

			assert.Equal(t, tt.wantCalls, inner.jsonCalls("job/node-test-commit/1/"))
			assert.Equal(t, tt.wantCalls, inner.textCalls("job/node-test-linter/2/"))
		})
	}
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "job/node-test-commit/1", TextKey("job/node-test-commit/1/"))
	assert.Equal(t, TextKey("job/node-test-commit/1/"), TextKey("/job/node-test-commit/1"))

	a := JSONKey("job/node-test-commit/1/", commitTree)
	b := JSONKey("job/node-test-commit/1/", normalTree)
	assert.NotEqual(t, a, b, "different trees must not share an entry")
	assert.Len(t, a, len("job/node-test-commit/1?")+8)
}

func TestCacheKeys_DistinctPaths(t *testing.T) {
	paths := []string{
		"job/a-b/1/",
		"job/a/b-1/",
		"job/a/b/1/",
		"job/a%2Fb/1/",
		"job/a?x/1/",
	}

	seen := make(map[string]string)
	for _, p := range paths {
		for _, key := range []string{TextKey(p), JSONKey(p, normalTree)} {
			require.NotContains(t, seen, key, "%s shares key %q with %s", p, key, seen[key])
			seen[key] = p
		}
	}
}

func TestResolveThroughCache(t *testing.T) {
	inner := newFakeFetcher()
	inner.json["job/node-test-commit/500/"] = commitData
	seedCommitTree(inner)

	c := cache.NewCache(cache.NewMemoryStorage(), logger.NewSilentLogger())
	c.Enable()
	f := NewCachedFetcher(inner, c)

	first, err := newTestResolver(f).CommitBuild(CommitJob, 500).Resolve(context.Background())
	require.NoError(t, err)
	calls := inner.totalCalls()

	second, err := newTestResolver(f).CommitBuild(CommitJob, 500).Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, calls, inner.totalCalls(), "second resolution should be served from cache")
	assert.Equal(t, first.Failures, second.Failures)
}
