package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Emitter is what the engine sees; the engine never waits on delivery.
type Emitter interface {
	Emit(in Intent)
}

// Dispatcher delivers intents off the request path. A full queue drops
// the intent (with a log line) rather than ever blocking or failing the
// state transition that produced it.
type Dispatcher struct {
	store   *Store
	senders []Sender
	log     *zap.Logger
	queue   chan Intent
	done    chan struct{}
}

func NewDispatcher(store *Store, log *zap.Logger, senders ...Sender) *Dispatcher {
	d := &Dispatcher{
		store:   store,
		senders: senders,
		log:     log,
		queue:   make(chan Intent, 100),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for in := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if d.store != nil {
			if _, err := d.store.Save(ctx, in); err != nil {
				d.log.Error("failed to persist notification",
					zap.String("type", string(in.Type)),
					zap.Error(err),
				)
			}
		}

		for _, s := range d.senders {
			if err := s.Send(ctx, in); err != nil {
				d.log.Error("notification delivery failed",
					zap.String("sender", s.Name()),
					zap.String("type", string(in.Type)),
					zap.Error(err),
				)
			}
		}

		cancel()
	}
}

// Emit never blocks the caller.
func (d *Dispatcher) Emit(in Intent) {
	select {
	case d.queue <- in:
	default:
		d.log.Warn("notification queue full, dropping intent",
			zap.String("type", string(in.Type)),
			zap.Uint("business_id", in.BusinessID),
		)
	}
}

// Close drains the queue; used by tests and shutdown.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
