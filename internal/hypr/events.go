package hypr

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"time"
)

// Event kinds emitted by the compositor that hyprsupreme consumes.
// The full set is larger; unknown kinds pass through with Kind verbatim.
const (
	EventOpenWindow     = "openwindow"
	EventCloseWindow    = "closewindow"
	EventMoveWindow     = "movewindow"
	EventWorkspace      = "workspace"
	EventActiveWindow   = "activewindow"
	EventMonitorAdded   = "monitoradded"
	EventMonitorRemoved = "monitorremoved"
	EventConfigReloaded = "configreloaded"
)

// Event is one line from the Hyprland event socket, split at ">>".
type Event struct {
	Kind string
	Data string
}

// Args splits the event payload at commas. Hyprland's event payloads
// are positional comma-separated fields.
func (e Event) Args() []string {
	if e.Data == "" {
		return nil
	}
	return strings.Split(e.Data, ",")
}

// ParseEvent parses a single "KIND>>DATA" line.
func ParseEvent(line string) (Event, error) {
	kind, data, ok := strings.Cut(line, ">>")
	if !ok || kind == "" {
		return Event{}, fmt.Errorf("malformed event line %q", line)
	}
	return Event{Kind: kind, Data: data}, nil
}

// EventStream reads the compositor's event socket and delivers events on
// a channel. Lost connections are retried with backoff until the context
// is cancelled.
type EventStream struct {
	socketPath string
	events     chan Event
}

// NewEventStream locates the event socket of the running instance.
func NewEventStream() (*EventStream, error) {
	dir, err := SocketDir()
	if err != nil {
		return nil, err
	}
	return NewEventStreamAt(filepath.Join(dir, ".socket2.sock")), nil
}

// NewEventStreamAt creates a stream against an explicit socket path (tests).
func NewEventStreamAt(socketPath string) *EventStream {
	return &EventStream{
		socketPath: socketPath,
		events:     make(chan Event, 64),
	}
}

// Events returns the channel events are delivered on. It is closed when
// Listen returns.
func (s *EventStream) Events() <-chan Event {
	return s.events
}

// Listen connects to the event socket and pumps events until ctx is
// cancelled. A dropped connection is re-established with increasing
// backoff capped at 30 seconds.
func (s *EventStream) Listen(ctx context.Context) error {
	defer close(s.events)

	backoff := time.Second
	for {
		err := s.pump(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("event socket connection lost, reconnecting", "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
	}
}

// pump reads the socket line by line until an error or cancellation.
func (s *EventStream) pump(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("dial event socket: %w", err)
	}
	defer conn.Close()

	// Unblock the blocking read when the context ends. The done channel
	// releases the goroutine when this connection is torn down, so
	// reconnects do not accumulate closers.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		event, err := ParseEvent(line)
		if err != nil {
			slog.Debug("skipping malformed event", "line", line)
			continue
		}

		select {
		case s.events <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Slow consumer: drop rather than stall the socket.
			slog.Debug("event channel full, dropping event", "kind", event.Kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("event socket closed")
}
