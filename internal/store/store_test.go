package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liquorlane/liquorfront/internal/localstate"
	"github.com/liquorlane/liquorfront/internal/logging"
)

var testLog = logging.New("error")

type staticToken string

func (s staticToken) Token() string { return string(s) }

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

// fakePublisher records events in place of the Kafka producer.
type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, _ := event.(map[string]any)
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: m})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		if t, ok := e.Event["type"].(string); ok {
			out = append(out, t)
		}
	}
	return out
}

func newTestState(t *testing.T) *localstate.Store {
	t.Helper()
	state, err := localstate.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { state.Close() })
	return state
}
