package progress

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	debug []string
}

func (l *recordingLogger) Info(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Error(msg string, args ...interface{}) {}

func (l *recordingLogger) Debug(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, fmt.Sprintf(msg, args...))
}

func TestLogReporter(t *testing.T) {
	log := &recordingLogger{}
	r := NewLogReporter(log)

	r.Announce("Querying job/node-test-commit/1/")
	r.Update("Querying job/node-test-linter/2/")
	r.Done("Resolved 3 failures")

	assert.Len(t, log.debug, 2)
	assert.Equal(t, []string{"Resolved 3 failures"}, log.infos)
}

func TestLogReporter_Concurrent(t *testing.T) {
	log := &recordingLogger{}
	r := NewLogReporter(log)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Update(fmt.Sprintf("run %d", n))
		}(i)
	}
	wg.Wait()

	assert.Len(t, log.debug, 20)
}

func TestSilent(t *testing.T) {
	var r Reporter = Silent{}
	assert.NotPanics(t, func() {
		r.Announce("a")
		r.Update("b")
		r.Done("c")
	})
}
