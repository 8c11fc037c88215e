package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher delivers mail off the request path. Delivery errors are
// logged and never reach the caller.
type Dispatcher struct {
	sender  Sender
	logger  zerolog.Logger
	queue   chan Message
	timeout time.Duration
	done    chan struct{}
}

func NewDispatcher(sender Sender, logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		logger:  logger,
		queue:   make(chan Message, 100),
		timeout: 15 * time.Second,
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.Error().Err(err).
				Str("to", msg.To).
				Str("subject", msg.Subject).
				Msg("notification delivery failed")
		}
		cancel()
	}
}

func (d *Dispatcher) Enqueue(msgs ...Message) {
	for _, msg := range msgs {
		if msg.To == "" {
			continue
		}
		select {
		case d.queue <- msg:
		default:
			d.logger.Warn().Str("to", msg.To).Msg("notification queue full, dropping message")
		}
	}
}

// SendNow delivers synchronously; used when the caller records the outcome.
func (d *Dispatcher) SendNow(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.sender.Send(ctx, msg)
}

// Close drains the queue.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
