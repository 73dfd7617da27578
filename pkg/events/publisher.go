package events

import "context"

// Publisher delivers events to the bus. Implemented by the watermill-backed
// publisher service; tests substitute a recording fake.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
