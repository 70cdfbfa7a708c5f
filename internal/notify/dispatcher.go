package notify

import "log"

// Sink delivers one notification. Delivery is best effort: a failing
// sink is logged, never propagated to the operation that emitted it.
type Sink interface {
	Deliver(ev Event) error
}

type Dispatcher struct {
	sinks []Sink
	queue chan Event
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		for _, s := range d.sinks {
			if err := s.Deliver(ev); err != nil {
				log.Printf("notify: %s delivery failed: %v", ev.Type, err)
			}
		}
	}
}

// Dispatch never blocks; when the queue is full the event is dropped
// rather than slowing the booking path.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Printf("notify: queue full, dropping %s event", ev.Type)
	}
}
