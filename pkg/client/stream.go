package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"learnflow-be/internal/dto"

	"github.com/gorilla/websocket"
)

const noteUpdatedFrame = "note_updated"

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Backoff grows the reconnect delay geometrically up to Max.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

var DefaultBackoff = Backoff{Initial: time.Second, Max: 30 * time.Second, Multiplier: 2}

func (b Backoff) next(prev time.Duration) time.Duration {
	if prev <= 0 {
		return b.Initial
	}
	d := time.Duration(float64(prev) * b.Multiplier)
	if d > b.Max {
		return b.Max
	}
	return d
}

// StreamEvents reports connection state to watchers.
type StreamEvents struct {
	OnConnect    func()
	OnDisconnect func(err error)
}

// Watch delivers every pushed note to fn until ctx is cancelled,
// reconnecting with backoff. Updates missed while disconnected are not
// replayed; OnConnect is the place to refetch.
func (c *Client) Watch(ctx context.Context, fn func(dto.NoteResponse), events StreamEvents, backoff Backoff) error {
	var delay time.Duration
	for {
		connected, err := c.watchOnce(ctx, fn, events)
		if ctx.Err() != nil {
			return nil
		}
		if events.OnDisconnect != nil {
			events.OnDisconnect(err)
		}

		var authErr *APIError
		if errors.As(err, &authErr) && authErr.StatusCode == http.StatusUnauthorized {
			return err
		}

		if connected {
			delay = 0
		}
		delay = backoff.next(delay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (c *Client) watchOnce(ctx context.Context, fn func(dto.NoteResponse), events StreamEvents) (bool, error) {
	dialer := websocket.Dialer{
		Jar:              c.jar,
		HandshakeTimeout: 10 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, c.streamURL(), nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return false, &APIError{StatusCode: resp.StatusCode, Message: "Unauthorized"}
		}
		return false, err
	}
	defer conn.Close()

	if events.OnConnect != nil {
		events.OnConnect()
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return true, err
		}
		if f.Type != noteUpdatedFrame {
			continue
		}
		var note dto.NoteResponse
		if err := json.Unmarshal(f.Data, &note); err != nil {
			continue
		}
		fn(note)
	}
}

func (c *Client) streamURL() string {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = u.Path + "/api/ws"
	if c.token != "" {
		u.RawQuery = url.Values{"token": {c.token}}.Encode()
	}
	return u.String()
}
