package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (s *captureSink) Record(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *captureSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestDispatcher_DeliversAllEvents(t *testing.T) {
	sink := &captureSink{}
	d := NewDispatcher(sink, logger.NewNop(), 2, 64)

	for i := 0; i < 20; i++ {
		require.NoError(t, d.Record(context.Background(), NewEvent("boss", "car.create", "")))
	}
	require.NoError(t, d.Close(context.Background()))

	assert.Len(t, sink.snapshot(), 20)
	assert.True(t, sink.closed)
}

func TestDispatcher_RecordNeverBlocks(t *testing.T) {
	// no workers drain during the loop: queue of 1 overflows immediately
	sink := &captureSink{}
	d := &Dispatcher{
		sink:  sink,
		log:   logger.NewNop(),
		queue: make(chan Event, 1),
	}

	for i := 0; i < 100; i++ {
		require.NoError(t, d.Record(context.Background(), NewEvent("boss", "car.create", "")))
	}
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(&captureSink{}, logger.NewNop(), 1, 8)

	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))
}
