package hypr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoInstance is returned when no running Hyprland instance can be
// located from the environment.
var ErrNoInstance = errors.New("no running Hyprland instance (HYPRLAND_INSTANCE_SIGNATURE not set)")

// requestTimeout bounds a single request/response exchange.
const requestTimeout = 5 * time.Second

// SocketDir returns the IPC socket directory of the current Hyprland
// instance.
func SocketDir() (string, error) {
	his := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if his == "" {
		return "", ErrNoInstance
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = fmt.Sprintf("/run/user/%d", os.Getuid())
	}
	return filepath.Join(runtimeDir, "hypr", his), nil
}

// Conn is a hyprctl-equivalent client over the Hyprland request socket.
// Each request opens a fresh connection, matching hyprctl's behavior.
type Conn struct {
	socketPath string
}

// NewConn locates the request socket of the running instance.
func NewConn() (*Conn, error) {
	dir, err := SocketDir()
	if err != nil {
		return nil, err
	}
	return &Conn{socketPath: filepath.Join(dir, ".socket.sock")}, nil
}

// NewConnAt creates a client against an explicit socket path (tests).
func NewConnAt(socketPath string) *Conn {
	return &Conn{socketPath: socketPath}
}

// request sends a raw command and returns the full response.
func (c *Conn) request(command string) ([]byte, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, requestTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial hyprland socket: %w", err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(requestTimeout))

	if _, err := conn.Write([]byte(command)); err != nil {
		return nil, fmt.Errorf("write command %q: %w", command, err)
	}

	data, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read response for %q: %w", command, err)
	}
	return data, nil
}

// queryJSON runs a j/ command and decodes the JSON response into v.
func (c *Conn) queryJSON(command string, v any) error {
	data, err := c.request("j/" + command)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s response: %w", command, err)
	}
	return nil
}

// Clients returns all mapped windows.
func (c *Conn) Clients() ([]Client, error) {
	var clients []Client
	if err := c.queryJSON("clients", &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// Workspaces returns all workspaces.
func (c *Conn) Workspaces() ([]Workspace, error) {
	var workspaces []Workspace
	if err := c.queryJSON("workspaces", &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Monitors returns all outputs.
func (c *Conn) Monitors() ([]Monitor, error) {
	var monitors []Monitor
	if err := c.queryJSON("monitors", &monitors); err != nil {
		return nil, err
	}
	return monitors, nil
}

// ActiveWindow returns the focused window, or nil when none is focused.
func (c *Conn) ActiveWindow() (*Client, error) {
	data, err := c.request("j/activewindow")
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "{}" {
		return nil, nil
	}
	var client Client
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, fmt.Errorf("decode activewindow response: %w", err)
	}
	return &client, nil
}

// Dispatch runs a dispatcher, e.g. Dispatch("movetoworkspacesilent", "3,address:0x...").
func (c *Conn) Dispatch(args ...string) error {
	resp, err := c.request("dispatch " + strings.Join(args, " "))
	if err != nil {
		return err
	}
	return checkOK("dispatch", resp)
}

// Keyword sets a config keyword at runtime, e.g. Keyword("decoration:rounding", "8").
func (c *Conn) Keyword(name, value string) error {
	resp, err := c.request(fmt.Sprintf("keyword %s %s", name, value))
	if err != nil {
		return err
	}
	return checkOK("keyword "+name, resp)
}

// Reload asks Hyprland to reload its configuration.
func (c *Conn) Reload() error {
	resp, err := c.request("reload")
	if err != nil {
		return err
	}
	return checkOK("reload", resp)
}

// checkOK interprets the compositor's textual reply; anything other
// than "ok" is an error.
func checkOK(op string, resp []byte) error {
	s := strings.TrimSpace(string(resp))
	if s == "ok" || s == "" {
		return nil
	}
	return fmt.Errorf("%s: %s", op, s)
}
