package notify

import "log"

// Publisher fans reservation events out to interested consumers. Publishing
// is best effort from the caller's perspective: workflow requests never fail
// because a notification could not be delivered.
type Publisher interface {
	Publish(topic string, payload any) error
	Close()
}

// LogPublisher writes events to the process log. Used in development and as
// the fallback when no broker is configured.
type LogPublisher struct{}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(topic string, payload any) error {
	log.Printf("[notify] %s: %+v", topic, payload)
	return nil
}

func (p *LogPublisher) Close() {}
