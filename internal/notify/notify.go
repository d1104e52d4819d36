// Package notify sends desktop notifications through the
// org.freedesktop.Notifications D-Bus service. When no session bus is
// available (headless sessions, tests) the notifier degrades to a
// logging no-op instead of failing the caller.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	notifyInterface = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	appName         = "hyprsupreme"
)

// Urgency follows the freedesktop notification spec hint values.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one message to show the user.
type Notification struct {
	Summary string
	Body    string
	Icon    string
	Urgency Urgency
	// ExpireMs is the timeout in milliseconds. 0 lets the server
	// decide, -1 means never expire.
	ExpireMs int32
}

// Notifier sends notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Send(n Notification) error
	Close() error
}

// DBusNotifier talks to the session notification daemon.
type DBusNotifier struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// New connects to the session bus. On failure a NopNotifier is returned
// along with the error so callers can keep going without notifications.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return NopNotifier{}, fmt.Errorf("connect session bus: %w", err)
	}
	return &DBusNotifier{
		conn: conn,
		obj:  conn.Object(notifyInterface, notifyPath),
	}, nil
}

// Send delivers the notification.
func (d *DBusNotifier) Send(n Notification) error {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(n.Urgency)),
	}

	// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
	call := d.obj.Call(notifyInterface+".Notify", 0,
		appName, uint32(0), n.Icon, n.Summary, n.Body, []string{}, hints, n.ExpireMs)
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}
	return nil
}

// Close releases the bus connection.
func (d *DBusNotifier) Close() error {
	return d.conn.Close()
}

// NopNotifier drops notifications, logging them at debug level.
type NopNotifier struct{}

func (NopNotifier) Send(n Notification) error {
	slog.Debug("notification suppressed", "summary", n.Summary)
	return nil
}

func (NopNotifier) Close() error { return nil }
