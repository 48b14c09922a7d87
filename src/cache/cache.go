// Package cache persists fetched build data keyed by a caller-chosen identity.
//
// A Cache starts disabled. While disabled every lookup misses and nothing is
// written, so callers always hit the network. Entries never expire.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"cisleuth/src/logger"
)

// Kind is the content kind of an entry.
type Kind string

const (
	// KindJSON entries hold JSON-encoded structured data.
	KindJSON Kind = "json"
	// KindText entries hold raw text such as console logs.
	KindText Kind = "text"
)

// Ext returns the file extension used for the kind.
func (k Kind) Ext() string {
	if k == KindText {
		return ".txt"
	}
	return ".json"
}

// ErrNotFound is returned by Storage.Read on a miss.
var ErrNotFound = errors.New("cache entry not found")

// Entry identifies one cached value.
type Entry struct {
	Key  string
	Kind Kind
}

// Storage is a durable key/value store addressed by key and kind.
type Storage interface {
	Has(ctx context.Context, key string, kind Kind) (bool, error)
	Read(ctx context.Context, key string, kind Kind) ([]byte, error)
	Write(ctx context.Context, key string, kind Kind, data []byte) error
}

// Cache gates a Storage behind an enabled flag and handles encoding.
type Cache struct {
	storage Storage
	log     logger.Logger
	enabled atomic.Bool
}

// NewCache creates a disabled cache over storage.
func NewCache(storage Storage, log logger.Logger) *Cache {
	if log == nil {
		log = &logger.SilentLogger{}
	}
	return &Cache{storage: storage, log: log}
}

func (c *Cache) Enable()       { c.enabled.Store(true) }
func (c *Cache) Disable()      { c.enabled.Store(false) }
func (c *Cache) Enabled() bool { return c.enabled.Load() }

// Has reports whether an entry exists. Always false while disabled.
func (c *Cache) Has(ctx context.Context, key string, kind Kind) bool {
	if !c.Enabled() {
		return false
	}
	ok, err := c.storage.Has(ctx, key, kind)
	if err != nil {
		c.log.Debug("[cache] has %s: %v", key, err)
		return false
	}
	return ok
}

// Get loads an entry into out. JSON entries are decoded into out; text entries
// require out to be a *string or *[]byte. The bool is false on a miss.
func (c *Cache) Get(ctx context.Context, key string, kind Kind, out any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	data, err := c.storage.Read(ctx, key, kind)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}

	if kind == KindJSON {
		if err := json.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("decode %s: %w", key, err)
		}
		return true, nil
	}

	switch v := out.(type) {
	case *string:
		*v = string(data)
	case *[]byte:
		*v = data
	default:
		return false, fmt.Errorf("text entry %s cannot be loaded into %T", key, out)
	}
	return true, nil
}

// GetText loads a text entry.
func (c *Cache) GetText(ctx context.Context, key string) (string, bool, error) {
	var s string
	ok, err := c.Get(ctx, key, KindText, &s)
	return s, ok, err
}

// Write stores content. It does nothing while disabled.
func (c *Cache) Write(ctx context.Context, key string, kind Kind, content any) error {
	if !c.Enabled() {
		return nil
	}

	var data []byte
	if kind == KindJSON {
		var err error
		if data, err = json.Marshal(content); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
	} else {
		switch v := content.(type) {
		case string:
			data = []byte(v)
		case []byte:
			data = v
		default:
			return fmt.Errorf("text entry %s cannot store %T", key, content)
		}
	}

	if err := c.storage.Write(ctx, key, kind, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	c.log.Debug("[cache] stored %s (%s, %d bytes)", key, kind, len(data))
	return nil
}
