package ports

import "broker-demo-service/internal/domain"

// Port: a boundary for pushing simulation events to connected clients.
// Publish must not block the caller; slow consumers are the sink's problem.
type EventSink interface {
	Publish(ev domain.Event)
}
