package mailer

import (
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher runs a fixed pool of workers draining a bounded queue of
// outbound messages. Enqueue never blocks the request path: a full queue
// drops the message. Once a message is accepted it runs to completion
// (success or exhausted retries) regardless of client disconnects.
type Dispatcher struct {
	sender Sender
	queue  chan Message
	wg     sync.WaitGroup
	log    zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts workers consuming from a queue of the given size.
func NewDispatcher(sender Sender, workers, queueSize int, log zerolog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Message, queueSize),
		log:    log,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue submits a message for background delivery. It reports false when
// the queue is saturated or the dispatcher is shutting down.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		return false
	}
}

// Close stops intake and waits for in-flight deliveries to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		if err := d.sender.Send(msg); err != nil {
			// Delivery is best-effort: log and move on.
			d.log.Error().Err(err).Str("to", msg.To).Msg("notification delivery failed")
		}
	}
}
