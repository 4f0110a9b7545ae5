package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newPushServer runs a websocket server that writes the given raw
// messages to the first client, then closes the connection.
func newPushServer(t *testing.T, messages []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestListenDecodesEvents(t *testing.T) {
	srv := newPushServer(t, []string{
		`{"event": "connection_status", "data": {"connected": true}}`,
		`{"event": "new_data", "data": {"timestamp": "20240115-143022"}}`,
		`{"event": "connection_error", "data": {"error": "camera fault"}}`,
		`{"event": "firmware_update", "data": {"pct": 40}}`,
		`not json at all`,
		`{"event": "connection_status", "data": {"connected": false}}`,
	})
	defer srv.Close()

	var got []Event
	done := make(chan struct{})
	l := NewListener(wsURL(srv), func(ev Event) {
		got = append(got, ev)
		if len(got) == 4 {
			close(done)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- l.Listen(ctx) }()

	select {
	case <-done:
	case err := <-errCh:
		t.Fatalf("listener ended early after %d events: %v", len(got), err)
	case <-ctx.Done():
		t.Fatalf("timed out after %d events", len(got))
	}

	// Unknown events and malformed frames are skipped, not surfaced.
	want := []Event{
		{Kind: KindConnection, Connected: true},
		{Kind: KindNewData},
		{Kind: KindError, Message: "camera fault"},
		{Kind: KindConnection, Connected: false},
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("event %d = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestListenReturnsOnServerClose(t *testing.T) {
	srv := newPushServer(t, nil)
	defer srv.Close()

	l := NewListener(wsURL(srv), func(Event) {})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.Listen(ctx); err == nil {
		t.Fatal("expected a non-nil error when the channel closes")
	}
}

func TestListenDialFailure(t *testing.T) {
	srv := newPushServer(t, nil)
	url := wsURL(srv)
	srv.Close()

	l := NewListener(url, func(Event) {})
	if err := l.Listen(context.Background()); err == nil {
		t.Fatal("expected dial error")
	}
}
