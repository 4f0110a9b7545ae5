// Package push implements the websocket push-channel client for the
// analysis device. The device pushes JSON envelopes of the form
//
//	{"event": "connection_status", "data": {"connected": true}}
//	{"event": "new_data",          "data": {...}}
//	{"event": "connection_error",  "data": {"error": "..."}}
//
// Each decoded event is delivered through a caller-supplied handler.
// The read loop ends when the connection drops; redialing is the
// caller's decision (the dashboard relies on its periodic status poll
// rather than push-channel backoff).
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/gorilla/websocket"

	"github.com/rebarvista/vista/pkg/jsonutil"
)

// EventKind discriminates the push events the device emits.
type EventKind int

const (
	// KindConnection carries a connection-state change.
	KindConnection EventKind = iota
	// KindNewData signals fresh analysis results; the payload is
	// otherwise unused and the client re-fetches via the HTTP API.
	KindNewData
	// KindError carries a device-reported error message.
	KindError
)

// Event is one decoded push-channel notification.
type Event struct {
	Kind      EventKind
	Connected bool   // valid for KindConnection
	Message   string // valid for KindError
}

// Handler receives decoded push events. It is invoked from the
// listener's read goroutine; implementations must hand off to their
// own event loop (e.g. tea.Program.Send) rather than block.
type Handler func(Event)

// envelope is the wire framing of a push message.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Listener consumes push events from a single device.
type Listener struct {
	url     string
	handler Handler
}

// NewListener creates a listener for the given websocket URL.
func NewListener(url string, handler Handler) *Listener {
	return &Listener{url: url, handler: handler}
}

// Listen dials the push channel and consumes events until the
// connection fails or ctx is canceled. It always returns a non-nil
// error describing why the loop ended.
func (l *Listener) Listen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return fmt.Errorf("dialing push channel %s: %w", l.url, err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the context is canceled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return fmt.Errorf("push channel closed: %w", err)
			}
			return fmt.Errorf("push channel read: %w", err)
		}

		ev, ok := decode(raw)
		if !ok {
			continue
		}
		l.handler(ev)
	}
}

// decode maps a wire envelope onto an Event. Unknown event names are
// logged and skipped so firmware additions don't break older clients.
func decode(raw []byte) (Event, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("[WARN] push: dropping malformed message: %v", err)
		return Event{}, false
	}

	switch env.Event {
	case "connection_status":
		var data struct {
			Connected bool `json:"connected"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("[WARN] push: bad connection_status payload: %v", err)
			return Event{}, false
		}
		return Event{Kind: KindConnection, Connected: data.Connected}, true

	case "new_data":
		return Event{Kind: KindNewData}, true

	case "connection_error":
		var data struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("[WARN] push: bad connection_error payload: %v", err)
			return Event{}, false
		}
		return Event{Kind: KindError, Message: data.Error}, true

	default:
		log.Printf("[DEBUG] push: ignoring event %q: %s",
			env.Event, jsonutil.Truncate(jsonutil.Compact(env.Data), 120))
		return Event{}, false
	}
}
