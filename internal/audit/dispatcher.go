package audit

import (
	"context"
	"sync"
	"time"

	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// Dispatcher decouples audit emission from delivery: Record enqueues and
// returns immediately, a pool of workers drains the queue into the underlying
// sink. A full queue drops the event rather than blocking a request.
type Dispatcher struct {
	sink    Sink
	log     logger.Logger
	queue   chan Event
	wg      sync.WaitGroup
	timeout time.Duration

	closeOnce sync.Once
}

// NewDispatcher starts the worker pool immediately.
func NewDispatcher(sink Sink, log logger.Logger, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	d := &Dispatcher{
		sink:    sink,
		log:     log,
		queue:   make(chan Event, queueSize),
		timeout: 5 * time.Second,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Record enqueues the event. The passed context is ignored on purpose: the
// event must not die with the request that produced it.
func (d *Dispatcher) Record(_ context.Context, e Event) error {
	select {
	case d.queue <- e:
	default:
		d.log.Warn("audit queue full, dropping event",
			logger.String("action", e.Action),
			logger.String("username", e.Username),
		)
	}
	return nil
}

// Close stops accepting events, waits for the workers to drain the queue and
// closes the underlying sink.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
	return d.sink.Close(ctx)
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for e := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sink.Record(ctx, e); err != nil {
			d.log.Error("audit delivery failed",
				logger.String("action", e.Action),
				logger.Error(err),
			)
		}
		cancel()
	}
}
