package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	StreamName    = "NOTE_EVENTS"
	SubjectPrefix = "notes"
)

// Connect dials NATS with reconnect enabled. Publisher and Subscriber
// share the returned connection.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("learnflow-be"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

func Subject(eventType string) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, eventType)
}
