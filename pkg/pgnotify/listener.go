// Package pgnotify relays Postgres LISTEN/NOTIFY payloads.
package pgnotify

import (
	"context"
	"fmt"
	"time"

	"learnflow-be/internal/pkg/logger"

	"github.com/jackc/pgx/v5"
)

const DefaultChannel = "note_updates"

type Handler func(ctx context.Context, payload string) error

// Listener holds one dedicated connection outside the GORM pool, since a
// LISTEN is bound to the session that issued it.
type Listener struct {
	dsn     string
	channel string
	backoff time.Duration
	logger  logger.ILogger
}

func NewListener(dsn, channel string, log logger.ILogger) *Listener {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Listener{
		dsn:     dsn,
		channel: channel,
		backoff: 2 * time.Second,
		logger:  log,
	}
}

// Listen blocks until ctx is cancelled, reconnecting after connection
// loss. Notifications sent while disconnected are lost.
func (l *Listener) Listen(ctx context.Context, handler func(ctx context.Context, payload string) error) error {
	for {
		err := l.listenOnce(ctx, handler)
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Warn("PGNOTIFY", "Listener disconnected, reconnecting", map[string]interface{}{
			"channel": l.channel,
			"error":   fmt.Sprint(err),
		})

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.backoff):
		}
	}
}

func (l *Listener) listenOnce(ctx context.Context, handler func(ctx context.Context, payload string) error) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	l.logger.Info("PGNOTIFY", "Listening", map[string]interface{}{"channel": l.channel})

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if err := handler(ctx, n.Payload); err != nil {
			l.logger.Warn("PGNOTIFY", "Handler failed", map[string]interface{}{
				"channel": l.channel,
				"error":   err.Error(),
			})
		}
	}
}
