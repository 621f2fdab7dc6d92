// SPDX-License-Identifier: MIT

package congestion

import (
	"sort"
	"sync"
)

// Board is the live penalty table keyed by location ID.
//
// Each entry is written whole under the lock, so a reader sees either the
// old tier or the new one. Searches call Penalty once per expanded
// connection and therefore observe updates issued while they run.
// Every Set advances the board generation and stamps the entry with it.
// The zero value is ready to use.
type Board struct {
	mu      sync.RWMutex
	tiers   map[string]Tier
	written map[string]uint64
	gen     uint64
}

// NewBoard returns an empty Board.
func NewBoard() *Board {
	return &Board{tiers: make(map[string]Tier), written: make(map[string]uint64)}
}

// Set records tier t for id, replacing any previous value.
func (b *Board) Set(id string, t Tier) {
	b.mu.Lock()
	if b.tiers == nil {
		b.tiers = make(map[string]Tier)
		b.written = make(map[string]uint64)
	}
	b.gen++
	b.tiers[id] = t
	b.written[id] = b.gen
	b.mu.Unlock()
}

// Generation returns the number of Set calls so far. Pass it to Replace to
// protect entries written after this point.
func (b *Board) Generation() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.gen
}

// Tier returns the current tier of id; unknown IDs are Low.
func (b *Board) Tier(id string) Tier {
	b.mu.RLock()
	t := b.tiers[id]
	b.mu.RUnlock()

	return t
}

// Penalty returns the additive cost for entering id.
func (b *Board) Penalty(id string) float64 {
	return Penalty(b.Tier(id))
}

// Replace swaps the table for the tiers in obs, except entries Set after
// generation since: those are newer than obs and survive. Used on reload.
func (b *Board) Replace(obs []Observation, since uint64) {
	next := make(map[string]Tier, len(obs))
	for _, o := range obs {
		next[o.LocationID] = o.Tier
	}
	written := make(map[string]uint64)
	b.mu.Lock()
	for id, g := range b.written {
		if g > since {
			next[id] = b.tiers[id]
			written[id] = g
		}
	}
	b.tiers = next
	b.written = written
	b.mu.Unlock()
}

// Entry is one row of a Board snapshot.
type Entry struct {
	LocationID string `json:"nodeId"`
	Tier       Tier   `json:"densityLevel"`
}

// Snapshot returns every non-Low entry sorted by location ID.
func (b *Board) Snapshot() []Entry {
	b.mu.RLock()
	out := make([]Entry, 0, len(b.tiers))
	for id, t := range b.tiers {
		if t != Low {
			out = append(out, Entry{LocationID: id, Tier: t})
		}
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })

	return out
}
