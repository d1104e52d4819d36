package autotheme

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hyprsupreme/hyprsupreme/internal/theme"
)

// Applier applies a theme by name. Satisfied by *theme.Manager.
type Applier interface {
	Apply(name string) (*theme.Theme, error)
}

// Switcher evaluates the current phase and applies the matching theme.
// Re-evaluating in the same phase is a no-op, so it is safe to call on
// every scheduler tick.
type Switcher struct {
	applier    Applier
	source     Source
	lightTheme string
	darkTheme  string

	mu       sync.Mutex
	lastName string

	// OnSwitch, when set, runs after a theme change with the new phase
	// and theme name. Used by the daemon to send a notification.
	OnSwitch func(phase Phase, themeName string)
}

// NewSwitcher wires a phase source to a theme applier.
func NewSwitcher(applier Applier, source Source, lightTheme, darkTheme string) *Switcher {
	return &Switcher{
		applier:    applier,
		source:     source,
		lightTheme: lightTheme,
		darkTheme:  darkTheme,
	}
}

// ThemeFor returns the theme name for a phase.
func (s *Switcher) ThemeFor(phase Phase) string {
	if phase == PhaseDay {
		return s.lightTheme
	}
	return s.darkTheme
}

// Evaluate determines the phase at now and applies the matching theme
// if it differs from the last one applied. It reports the theme name
// and whether a switch happened.
func (s *Switcher) Evaluate(ctx context.Context, now time.Time) (string, bool, error) {
	sunrise, sunset, err := s.source.Boundaries(ctx, now)
	if err != nil {
		return "", false, fmt.Errorf("autotheme boundaries: %w", err)
	}

	phase := Classify(now, sunrise, sunset)
	name := s.ThemeFor(phase)

	s.mu.Lock()
	defer s.mu.Unlock()
	if name == s.lastName {
		return name, false, nil
	}

	if _, err := s.applier.Apply(name); err != nil {
		return "", false, fmt.Errorf("autotheme apply %s: %w", name, err)
	}
	s.lastName = name
	slog.Info("autotheme switched", "phase", phase.String(), "theme", name)

	if s.OnSwitch != nil {
		s.OnSwitch(phase, name)
	}
	return name, true, nil
}
