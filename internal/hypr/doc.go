// Package hypr provides a typed client for Hyprland's IPC sockets:
// the request socket (.socket.sock) for queries and dispatches, and the
// event socket (.socket2.sock) for the compositor's event stream.
package hypr
