package autotheme

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const sunAPIBase = "https://api.sunrise-sunset.org/json"

// SunSource fetches real sunrise and sunset times for a location from
// the sunrise-sunset.org API. Results are cached per calendar day so
// the daemon's periodic checks hit the network at most once a day.
type SunSource struct {
	latitude  float64
	longitude float64
	client    *http.Client
	baseURL   string

	mu        sync.Mutex
	cachedDay string
	sunrise   time.Time
	sunset    time.Time
}

// NewSunSource creates a source for the given coordinates.
func NewSunSource(latitude, longitude float64) *SunSource {
	return &SunSource{
		latitude:  latitude,
		longitude: longitude,
		client:    &http.Client{Timeout: 10 * time.Second},
		baseURL:   sunAPIBase,
	}
}

type sunResponse struct {
	Results struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"results"`
	Status string `json:"status"`
}

// Boundaries returns sunrise and sunset for the given day, converted to
// the day's time zone.
func (s *SunSource) Boundaries(ctx context.Context, day time.Time) (time.Time, time.Time, error) {
	dayKey := day.Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cachedDay == dayKey {
		return s.sunrise, s.sunset, nil
	}

	sunrise, sunset, err := s.fetch(ctx, dayKey)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	s.cachedDay = dayKey
	s.sunrise = sunrise.In(day.Location())
	s.sunset = sunset.In(day.Location())
	return s.sunrise, s.sunset, nil
}

func (s *SunSource) fetch(ctx context.Context, dayKey string) (time.Time, time.Time, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", s.latitude))
	params.Set("lng", fmt.Sprintf("%.6f", s.longitude))
	params.Set("date", dayKey)
	params.Set("formatted", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("fetch sun times: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, time.Time{}, fmt.Errorf("sun API returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	var parsed sunResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse sun API response: %w", err)
	}
	if parsed.Status != "OK" {
		return time.Time{}, time.Time{}, fmt.Errorf("sun API status %q", parsed.Status)
	}

	sunrise, err := time.Parse(time.RFC3339, parsed.Results.Sunrise)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse sunrise: %w", err)
	}
	sunset, err := time.Parse(time.RFC3339, parsed.Results.Sunset)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse sunset: %w", err)
	}
	return sunrise, sunset, nil
}
