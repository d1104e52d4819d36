// Package autotheme switches the active theme between a light and a
// dark variant on a schedule. Boundaries come either from fixed clock
// times or from sunrise and sunset at a configured location.
package autotheme

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// Phase is the current part of the day/night cycle.
type Phase int

const (
	PhaseDay Phase = iota
	PhaseNight
)

func (p Phase) String() string {
	if p == PhaseDay {
		return "day"
	}
	return "night"
}

// Source reports the day boundaries for a given date. Day runs from
// sunrise (inclusive) to sunset (exclusive).
type Source interface {
	Boundaries(ctx context.Context, day time.Time) (sunrise, sunset time.Time, err error)
}

// Classify decides the phase for now given the day boundaries. When
// sunset is not after sunrise the day interval wraps midnight, e.g. a
// "day" that starts at 22:00 and ends at 06:00.
func Classify(now, sunrise, sunset time.Time) Phase {
	if sunset.After(sunrise) {
		if !now.Before(sunrise) && now.Before(sunset) {
			return PhaseDay
		}
		return PhaseNight
	}
	if !now.Before(sunrise) || now.Before(sunset) {
		return PhaseDay
	}
	return PhaseNight
}

var clockRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// BoundarySource derives boundaries from fixed HH:MM wall-clock times.
type BoundarySource struct {
	dayStarts   clockTime
	nightStarts clockTime
}

type clockTime struct {
	hour, minute int
}

func parseClock(s string) (clockTime, error) {
	m := clockRegex.FindStringSubmatch(s)
	if m == nil {
		return clockTime{}, fmt.Errorf("invalid clock time %q, want HH:MM", s)
	}
	var ct clockTime
	fmt.Sscanf(m[1], "%d", &ct.hour)
	fmt.Sscanf(m[2], "%d", &ct.minute)
	return ct, nil
}

// NewBoundarySource parses the two boundary strings.
func NewBoundarySource(dayStarts, nightStarts string) (*BoundarySource, error) {
	day, err := parseClock(dayStarts)
	if err != nil {
		return nil, fmt.Errorf("day boundary: %w", err)
	}
	night, err := parseClock(nightStarts)
	if err != nil {
		return nil, fmt.Errorf("night boundary: %w", err)
	}
	return &BoundarySource{dayStarts: day, nightStarts: night}, nil
}

// Boundaries places the configured clock times on the given date.
func (b *BoundarySource) Boundaries(_ context.Context, day time.Time) (time.Time, time.Time, error) {
	y, m, d := day.Date()
	loc := day.Location()
	sunrise := time.Date(y, m, d, b.dayStarts.hour, b.dayStarts.minute, 0, 0, loc)
	sunset := time.Date(y, m, d, b.nightStarts.hour, b.nightStarts.minute, 0, 0, loc)
	return sunrise, sunset, nil
}
