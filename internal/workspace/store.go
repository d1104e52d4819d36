// Package workspace tracks which windows live on which Hyprland
// workspaces and can snapshot/restore that layout. The store replaces
// the jq-patched side files of earlier incarnations with a locked
// in-process state and atomic persistence, so concurrent event handlers
// cannot corrupt the state file.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ErrStoreClosed is returned by mutating operations after Close.
var ErrStoreClosed = errors.New("workspace store is closed")

// Window is one tracked window.
type Window struct {
	Address   string `json:"address"`
	Class     string `json:"class"`
	Title     string `json:"title"`
	Workspace string `json:"workspace"`
}

// Snapshot is the persisted shape of the store.
type Snapshot struct {
	TakenAt int64    `json:"taken_at"`
	Windows []Window `json:"windows"`
}

// ChangeEvent signals a store mutation to subscribers.
type ChangeEvent struct {
	Kind    string // "add", "remove", "move", "replace"
	Address string
}

// Store holds the tracked window set with thread-safe operations and
// optional JSON persistence.
type Store struct {
	mu          sync.RWMutex
	windows     map[string]Window // address -> window
	persistPath string
	subscribers []chan ChangeEvent
	closed      bool
}

// NewStore creates a store. An empty persistPath disables persistence.
func NewStore(persistPath string) *Store {
	return &Store{
		windows:     map[string]Window{},
		persistPath: persistPath,
	}
}

// Hydrate loads the persisted snapshot, replacing in-memory state.
// A missing file leaves the store empty.
func (s *Store) Hydrate() error {
	if s.persistPath == "" {
		return nil
	}

	data, err := os.ReadFile(s.persistPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse workspace state %s: %w", s.persistPath, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.windows = map[string]Window{}
	for _, w := range snap.Windows {
		s.windows[w.Address] = w
	}
	return nil
}

// Upsert adds or updates a window.
func (s *Store) Upsert(w Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	_, existed := s.windows[w.Address]
	s.windows[w.Address] = w
	if err := s.persistLocked(); err != nil {
		return err
	}

	kind := "add"
	if existed {
		kind = "move"
	}
	s.notifyLocked(ChangeEvent{Kind: kind, Address: w.Address})
	return nil
}

// Remove deletes a window by address. Removing an unknown address is a
// no-op.
func (s *Store) Remove(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if _, ok := s.windows[address]; !ok {
		return nil
	}
	delete(s.windows, address)
	if err := s.persistLocked(); err != nil {
		return err
	}
	s.notifyLocked(ChangeEvent{Kind: "remove", Address: address})
	return nil
}

// Replace swaps the whole window set, e.g. after a full resync.
func (s *Store) Replace(windows []Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	s.windows = map[string]Window{}
	for _, w := range windows {
		s.windows[w.Address] = w
	}
	if err := s.persistLocked(); err != nil {
		return err
	}
	s.notifyLocked(ChangeEvent{Kind: "replace"})
	return nil
}

// Get returns a window by address.
func (s *Store) Get(address string) (Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[address]
	return w, ok
}

// All returns every tracked window sorted by workspace then address.
func (s *Store) All() []Window {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Workspace != out[j].Workspace {
			return out[i].Workspace < out[j].Workspace
		}
		return out[i].Address < out[j].Address
	})
	return out
}

// ByWorkspace groups tracked windows by workspace name.
func (s *Store) ByWorkspace() map[string][]Window {
	grouped := map[string][]Window{}
	for _, w := range s.All() {
		grouped[w.Workspace] = append(grouped[w.Workspace], w)
	}
	return grouped
}

// Count returns the number of tracked windows.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.windows)
}

// Subscribe returns a channel receiving change events. The channel is
// buffered; events are dropped rather than blocking mutations.
func (s *Store) Subscribe() <-chan ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan ChangeEvent, 16)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Close closes the store and all subscriber channels.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	return nil
}

func (s *Store) notifyLocked(event ChangeEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// persistLocked writes the snapshot via temp file + rename so a crashed
// writer never leaves a truncated state file.
func (s *Store) persistLocked() error {
	if s.persistPath == "" {
		return nil
	}

	snap := Snapshot{TakenAt: time.Now().Unix()}
	for _, w := range s.windows {
		snap.Windows = append(snap.Windows, w)
	}
	sort.Slice(snap.Windows, func(i, j int) bool {
		return snap.Windows[i].Address < snap.Windows[j].Address
	})

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.persistPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".workspaces-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.persistPath)
}
