package ci

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// fakeFetcher serves canned Jenkins responses keyed by path. Paths listed in
// gates block until their channel is closed, and report completion on done.
type fakeFetcher struct {
	mu    sync.Mutex
	json  map[string]string
	text  map[string]string
	errs  map[string]error
	calls map[string]int

	gates map[string]chan struct{}
	done  chan string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		json:  make(map[string]string),
		text:  make(map[string]string),
		errs:  make(map[string]error),
		calls: make(map[string]int),
		gates: make(map[string]chan struct{}),
	}
}

func (f *fakeFetcher) record(kind, path string) (chan struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[kind+":"+path]++
	return f.gates[path], f.errs[path]
}

func (f *fakeFetcher) FetchJSON(ctx context.Context, path, tree string, out any) error {
	_, err := f.record("json", path)
	if err != nil {
		return err
	}
	f.mu.Lock()
	body, ok := f.json[path]
	f.mu.Unlock()
	if !ok {
		return fmt.Errorf("no json for %s", path)
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeFetcher) FetchText(ctx context.Context, path string) (string, error) {
	gate, err := f.record("text", path)
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	body, ok := f.text[path]
	f.mu.Unlock()
	if f.done != nil {
		f.done <- path
	}
	if !ok {
		return "", fmt.Errorf("no text for %s", path)
	}
	return body, nil
}

func (f *fakeFetcher) jsonCalls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls["json:"+path]
}

func (f *fakeFetcher) textCalls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls["text:"+path]
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

const testBase = "https://ci.nodejs.org/"

func newTestResolver(f Fetcher) *Resolver {
	return NewResolver(f, ResolverOptions{BaseURL: testBase, Concurrency: 4})
}

func tap(n int, file string) string {
	return fmt.Sprintf("not ok %d %s\n  ---\n  duration_ms: 10\n  severity: fail\n  ...\n", n, file)
}
