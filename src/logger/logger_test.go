package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "quiet", verbose: false, wantDebug: false},
		{name: "verbose", verbose: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWriterLogger(&buf, tt.verbose)

			log.Info("resolving %s", "node-test-commit/1")
			log.Debug("cache hit %d", 42)
			log.Error("fetch failed: %v", "boom")

			out := buf.String()
			assert.Contains(t, out, "resolving node-test-commit/1")
			assert.Contains(t, out, "fetch failed: boom")
			if tt.wantDebug {
				assert.Contains(t, out, "cache hit 42")
			} else {
				assert.NotContains(t, out, "cache hit 42")
			}
		})
	}
}

func TestSilentLogger_DiscardsEverything(t *testing.T) {
	var log Logger = NewSilentLogger()
	assert.NotPanics(t, func() {
		log.Info("x")
		log.Error("y")
		log.Debug("z")
	})
}
