package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

type Event struct {
	ActorID   *uint
	ActorRole string
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

type Dispatcher struct {
	sink    Sink
	logger  zerolog.Logger
	metrics *metrics.Metrics
	queue   chan Event
	done    chan struct{}
}

func NewDispatcher(sink Sink, logger zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	d := &Dispatcher{
		sink:    sink,
		logger:  logger,
		metrics: m,
		queue:   make(chan Event, 100),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Log(ctx, ev); err != nil {
			d.logger.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
		cancel()
	}
}

// Dispatch never blocks the request; a full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.metrics.Dropped("audit")
		d.logger.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
