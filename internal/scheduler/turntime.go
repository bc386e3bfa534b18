package scheduler

import "fmt"

// TurnTimeConfig holds the expected table occupancy in minutes for each party-size bucket.
type TurnTimeConfig struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

// DefaultTurnTimeConfig is used when neither the venue nor the table configures turn times.
var DefaultTurnTimeConfig = TurnTimeConfig{Small: 90, Medium: 120, Large: 150}

const (
	smallPartyMax  = 2
	mediumPartyMax = 5
)

// ResolveTurnTime returns the expected occupancy in minutes for a party of the given size.
// Parties of 1-2 use the small bucket, 3-5 the medium bucket and 6+ the large bucket.
func ResolveTurnTime(guests int, cfg TurnTimeConfig) int {
	switch {
	case guests <= smallPartyMax:
		return cfg.Small
	case guests <= mediumPartyMax:
		return cfg.Medium
	default:
		return cfg.Large
	}
}

// Effective merges a per-table override onto the fallback configuration.
// Missing or non-positive buckets in the override keep the fallback value.
func Effective(override *TurnTimeConfig, fallback TurnTimeConfig) TurnTimeConfig {
	if override == nil {
		return fallback
	}
	cfg := fallback
	if override.Small > 0 {
		cfg.Small = override.Small
	}
	if override.Medium > 0 {
		cfg.Medium = override.Medium
	}
	if override.Large > 0 {
		cfg.Large = override.Large
	}
	return cfg
}

// Validate reports the first bucket that is not a positive duration.
func (c TurnTimeConfig) Validate() error {
	buckets := []struct {
		name    string
		minutes int
	}{{"small", c.Small}, {"medium", c.Medium}, {"large", c.Large}}
	for _, b := range buckets {
		if b.minutes <= 0 {
			return fmt.Errorf("scheduler: turn time %s must be positive, got %d", b.name, b.minutes)
		}
	}
	return nil
}
