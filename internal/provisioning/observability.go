package provisioning

import (
	"time"

	"github.com/rs/zerolog"
)

// Observer receives structured events during provisioning operations.
type Observer interface {
	// Event emits a structured event.
	Event(event Event)

	// WithFields returns a new Observer with additional context fields.
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Action    string            // Operation name (e.g. "clone", "delete")
	Message   string            // Human-readable message
	Instance  int               // VMID if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventOperationStarted indicates an operation has started.
	EventOperationStarted EventType = "operation.started"
	// EventOperationCompleted indicates an operation completed successfully.
	EventOperationCompleted EventType = "operation.completed"
	// EventOperationFailed indicates an operation failed.
	EventOperationFailed EventType = "operation.failed"

	// EventIdentityUnresolved indicates a clone succeeded but its
	// auto-assigned VMID could not be matched by name. Surfaced as a
	// warning so operators refresh the inventory instead of assuming
	// failure.
	EventIdentityUnresolved EventType = "identity.unresolved"

	// EventTaskSettled indicates an awaited cluster task reached a
	// terminal state.
	EventTaskSettled EventType = "task.settled"
)

// ZerologObserver implements Observer on a zerolog logger.
type ZerologObserver struct {
	log           zerolog.Logger
	contextFields map[string]string
}

// NewZerologObserver creates an observer emitting through the given logger.
func NewZerologObserver(log zerolog.Logger) *ZerologObserver {
	return &ZerologObserver{log: log, contextFields: map[string]string{}}
}

// Event implements Observer.
func (o *ZerologObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	evt := o.log.Info()
	switch event.Type {
	case EventOperationFailed:
		evt = o.log.Error()
	case EventIdentityUnresolved:
		evt = o.log.Warn()
	}

	evt = evt.Str("event", string(event.Type)).Str("action", event.Action)
	if event.Instance != 0 {
		evt = evt.Int("vmid", event.Instance)
	}
	for k, v := range o.contextFields {
		evt = evt.Str(k, v)
	}
	for k, v := range event.Fields {
		evt = evt.Str(k, v)
	}
	evt.Msg(event.Message)
}

// WithFields implements Observer.
func (o *ZerologObserver) WithFields(fields map[string]string) Observer {
	merged := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &ZerologObserver{log: o.log, contextFields: merged}
}

// NopObserver discards all events.
type NopObserver struct{}

// Event implements Observer.
func (NopObserver) Event(Event) {}

// WithFields implements Observer.
func (n NopObserver) WithFields(map[string]string) Observer { return n }
