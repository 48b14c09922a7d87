// Package progress reports what a long-running resolution is doing.
package progress

import (
	"sync"

	"cisleuth/src/logger"
)

// Reporter receives progress messages. Implementations must be safe for
// concurrent use; nodes resolve in parallel.
type Reporter interface {
	// Announce starts a new unit of work.
	Announce(msg string)
	// Update replaces the message of the current unit.
	Update(msg string)
	// Done finishes the current unit.
	Done(msg string)
}

// LogReporter forwards progress to a logger at debug level, and completions at
// info level.
type LogReporter struct {
	mu  sync.Mutex
	log logger.Logger
}

func NewLogReporter(log logger.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Announce(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Debug("[progress] %s", msg)
}

func (r *LogReporter) Update(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Debug("[progress] %s", msg)
}

func (r *LogReporter) Done(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Info("%s", msg)
}

// Silent discards all progress.
type Silent struct{}

func (Silent) Announce(string) {}
func (Silent) Update(string)   {}
func (Silent) Done(string)     {}
