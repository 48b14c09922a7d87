package ci

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strings"

	"cisleuth/src/cache"
)

// Fetcher reads build data from Jenkins.
type Fetcher interface {
	FetchJSON(ctx context.Context, path, tree string, out any) error
	FetchText(ctx context.Context, path string) (string, error)
}

type jsonRequest struct {
	path string
	tree string
}

// CachedFetcher answers from a cache before asking the wrapped Fetcher.
type CachedFetcher struct {
	fetchJSON cache.Op[jsonRequest, json.RawMessage]
	fetchText cache.Op[string, string]
}

// NewCachedFetcher decorates inner with c. A disabled cache passes every call
// through.
func NewCachedFetcher(inner Fetcher, c *cache.Cache) *CachedFetcher {
	rawJSON := func(ctx context.Context, req jsonRequest) (json.RawMessage, error) {
		var raw json.RawMessage
		if err := inner.FetchJSON(ctx, req.path, req.tree, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	return &CachedFetcher{
		fetchJSON: cache.Wrap(c, rawJSON, func(req jsonRequest) cache.Entry {
			return cache.Entry{Key: JSONKey(req.path, req.tree), Kind: cache.KindJSON}
		}),
		fetchText: cache.Wrap(c, inner.FetchText, func(path string) cache.Entry {
			return cache.Entry{Key: TextKey(path), Kind: cache.KindText}
		}),
	}
}

func (f *CachedFetcher) FetchJSON(ctx context.Context, path, tree string, out any) error {
	raw, err := f.fetchJSON(ctx, jsonRequest{path: path, tree: tree})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *CachedFetcher) FetchText(ctx context.Context, path string) (string, error) {
	return f.fetchText(ctx, path)
}

// TextKey is the cache key of the console output at path. Each path segment
// is escaped, so distinct paths give distinct keys.
func TextKey(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// JSONKey is the cache key of the tree query at path.
func JSONKey(path, tree string) string {
	sum := sha1.Sum([]byte(tree))
	return TextKey(path) + "?" + hex.EncodeToString(sum[:])[:8]
}
