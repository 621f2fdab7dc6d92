// SPDX-License-Identifier: MIT

// Package congestion classifies observed occupancy into density tiers and
// keeps the live per-location penalty table consulted by searches.
//
// Thresholds and penalties:
//
//	count < 4      → Low    → +0
//	4 ≤ count ≤ 7  → Medium → +5
//	count ≥ 8      → High   → +20
//
// A penalty applies to every connection whose target is the penalized
// location: entering a crowded location costs more, leaving it does not.
// The latest observation replaces the previous one; penalties never add up.
package congestion

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownTier is returned by ParseTier for an unrecognized label.
var ErrUnknownTier = errors.New("congestion: unknown density tier")

// Tier is a discrete density classification.
type Tier int

const (
	Low Tier = iota
	Medium
	High
)

const (
	mediumThreshold = 4
	highThreshold   = 8

	penaltyLow    = 0.0
	penaltyMedium = 5.0
	penaltyHigh   = 20.0
)

// String returns the tier label used on the wire and in storage.
func (t Tier) String() string {
	switch t {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v

	return nil
}

// ParseTier parses a tier label, case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	}

	return Low, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// Classify maps an occupancy count to its tier. Negative counts are Low.
func Classify(count int) Tier {
	switch {
	case count >= highThreshold:
		return High
	case count >= mediumThreshold:
		return Medium
	default:
		return Low
	}
}

// Penalty returns the additive cost for entering a location of tier t.
// Unknown tiers carry no penalty.
func Penalty(t Tier) float64 {
	switch t {
	case Medium:
		return penaltyMedium
	case High:
		return penaltyHigh
	default:
		return penaltyLow
	}
}

// Observation is the latest reported occupancy of one location.
type Observation struct {
	LocationID string    `json:"nodeId"`
	Count      int       `json:"count"`
	Tier       Tier      `json:"densityLevel"`
	ObservedAt time.Time `json:"lastUpdated"`
}

// Observe builds an Observation for count at time now, classifying it.
func Observe(locationID string, count int, now time.Time) Observation {
	return Observation{LocationID: locationID, Count: count, Tier: Classify(count), ObservedAt: now}
}
