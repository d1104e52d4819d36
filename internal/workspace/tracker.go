package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hyprsupreme/hyprsupreme/internal/hypr"
)

// Tracker keeps a Store in sync with the compositor's event stream.
type Tracker struct {
	store   *Store
	querier hypr.Querier
}

// NewTracker creates a tracker feeding the given store.
func NewTracker(store *Store, querier hypr.Querier) *Tracker {
	return &Tracker{store: store, querier: querier}
}

// Resync replaces the store contents with the compositor's current
// window list.
func (t *Tracker) Resync() error {
	clients, err := t.querier.Clients()
	if err != nil {
		return fmt.Errorf("resync workspaces: %w", err)
	}

	windows := make([]Window, 0, len(clients))
	for _, c := range clients {
		windows = append(windows, Window{
			Address:   normalizeAddress(c.Address),
			Class:     c.Class,
			Title:     c.Title,
			Workspace: c.Workspace.Name,
		})
	}
	return t.store.Replace(windows)
}

// Run consumes events until the channel closes or ctx is cancelled.
func (t *Tracker) Run(ctx context.Context, events <-chan hypr.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := t.Handle(event); err != nil {
				slog.Warn("workspace tracker event failed", "kind", event.Kind, "error", err)
			}
		}
	}
}

// Handle applies one compositor event to the store.
func (t *Tracker) Handle(event hypr.Event) error {
	switch event.Kind {
	case hypr.EventOpenWindow:
		// openwindow>>ADDRESS,WORKSPACENAME,CLASS,TITLE
		args := event.Args()
		if len(args) < 4 {
			return fmt.Errorf("openwindow payload too short: %q", event.Data)
		}
		return t.store.Upsert(Window{
			Address:   normalizeAddress(args[0]),
			Workspace: args[1],
			Class:     args[2],
			Title:     args[3],
		})

	case hypr.EventCloseWindow:
		// closewindow>>ADDRESS
		args := event.Args()
		if len(args) < 1 {
			return fmt.Errorf("closewindow payload missing address")
		}
		return t.store.Remove(normalizeAddress(args[0]))

	case hypr.EventMoveWindow:
		// movewindow>>ADDRESS,WORKSPACENAME
		args := event.Args()
		if len(args) < 2 {
			return fmt.Errorf("movewindow payload too short: %q", event.Data)
		}
		addr := normalizeAddress(args[0])
		w, ok := t.store.Get(addr)
		if !ok {
			// Window opened before the tracker started; fall back to a
			// full resync so we pick up its class and title.
			return t.Resync()
		}
		w.Workspace = args[1]
		return t.store.Upsert(w)

	case hypr.EventConfigReloaded:
		return t.Resync()
	}

	return nil
}

// normalizeAddress strips the 0x prefix Hyprland uses inconsistently
// between the query API and the event stream.
func normalizeAddress(addr string) string {
	if len(addr) > 2 && addr[0] == '0' && (addr[1] == 'x' || addr[1] == 'X') {
		return addr[2:]
	}
	return addr
}

// Move is one planned restore dispatch.
type Move struct {
	Address string
	From    string
	To      string
}

// PlanRestore compares the compositor's current layout with the store's
// snapshot and returns the moves needed to put windows back.
func (t *Tracker) PlanRestore() ([]Move, error) {
	clients, err := t.querier.Clients()
	if err != nil {
		return nil, fmt.Errorf("plan restore: %w", err)
	}

	var moves []Move
	for _, c := range clients {
		addr := normalizeAddress(c.Address)
		want, ok := t.store.Get(addr)
		if !ok {
			continue
		}
		if want.Workspace != c.Workspace.Name {
			moves = append(moves, Move{
				Address: addr,
				From:    c.Workspace.Name,
				To:      want.Workspace,
			})
		}
	}
	return moves, nil
}

// Restore dispatches the planned moves. With dryRun the plan is returned
// without touching the compositor.
func (t *Tracker) Restore(d hypr.Dispatcher, dryRun bool) ([]Move, error) {
	moves, err := t.PlanRestore()
	if err != nil {
		return nil, err
	}
	if dryRun {
		return moves, nil
	}

	for _, m := range moves {
		arg := fmt.Sprintf("name:%s,address:0x%s", m.To, m.Address)
		if err := d.Dispatch("movetoworkspacesilent", arg); err != nil {
			return moves, fmt.Errorf("restore window %s: %w", m.Address, err)
		}
		slog.Debug("window restored", "address", m.Address, "workspace", m.To)
	}
	return moves, nil
}
