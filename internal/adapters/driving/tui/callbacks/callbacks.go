// Package callbacks dispatches application lifecycle events to registered
// handlers.
package callbacks

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Event names an application lifecycle event.
type Event string

// Recognised events.
const (
	// OnAppStart fires once when a session starts.
	OnAppStart Event = "on_app_start"
	// OnPageChange fires every time the active page changes.
	OnPageChange Event = "on_page_change"
	// OnAppEnd fires once when the application shuts down.
	OnAppEnd Event = "on_app_end"
)

// ErrUnknownEvent is returned when registering for an unrecognised event.
var ErrUnknownEvent = errors.New("callbacks: unknown event")

// Events returns all recognised events.
func Events() []Event {
	return []Event{OnAppStart, OnPageChange, OnAppEnd}
}

// IsValid returns true if the event is recognised.
func (e Event) IsValid() bool {
	switch e {
	case OnAppStart, OnPageChange, OnAppEnd:
		return true
	default:
		return false
	}
}

// Callback is a zero-argument event handler.
type Callback func() error

// Dispatcher holds the callbacks registered for each event.
type Dispatcher struct {
	mu        sync.RWMutex
	callbacks map[Event][]Callback
	log       logrus.FieldLogger
}

// NewDispatcher creates a dispatcher that logs callback failures to log.
func NewDispatcher(log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.ErrorLevel)
		log = l
	}
	d := &Dispatcher{
		callbacks: make(map[Event][]Callback, 3),
		log:       log,
	}
	for _, e := range Events() {
		d.callbacks[e] = nil
	}
	return d
}

// Register appends cb to the callbacks for event.
func (d *Dispatcher) Register(event Event, cb Callback) error {
	if !event.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	if cb == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks[event] = append(d.callbacks[event], cb)
	return nil
}

// Fire invokes every callback for event in registration order.
// A failing or panicking callback is logged and the rest still run.
func (d *Dispatcher) Fire(event Event) {
	d.mu.RLock()
	cbs := make([]Callback, len(d.callbacks[event]))
	copy(cbs, d.callbacks[event])
	d.mu.RUnlock()

	for _, cb := range cbs {
		if err := d.invoke(cb); err != nil {
			d.log.Errorf("Error executing callback for %s: %v", event, err)
		}
	}
}

func (d *Dispatcher) invoke(cb Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return cb()
}

// Count returns the number of callbacks registered for event.
func (d *Dispatcher) Count(event Event) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.callbacks[event])
}
