// Package chartcache decides whether a stored chart can be served without a
// new provider call.
package chartcache

import (
	"time"

	"folio/internal/models"
)

// DefaultTTL is how long a fetched chart stays fresh.
const DefaultTTL = 30 * time.Minute

// State classifies a position's cached chart.
type State int

const (
	// NoChart means the chart was never fetched.
	NoChart State = iota
	// Stale means a chart exists but its TTL has elapsed.
	Stale
	// Cached means the stored chart may be served as is.
	Cached
)

func (s State) String() string {
	switch s {
	case NoChart:
		return "no_chart"
	case Stale:
		return "stale"
	case Cached:
		return "cached"
	}
	return "unknown"
}

// IsFresh reports whether lastUpdate is set and less than ttl before now.
func IsFresh(lastUpdate *time.Time, now time.Time, ttl time.Duration) bool {
	if lastUpdate == nil {
		return false
	}
	return now.Sub(*lastUpdate) < ttl
}

// Policy applies a freshness TTL to positions.
type Policy struct {
	TTL time.Duration
}

// NewPolicy returns a Policy, substituting DefaultTTL for a non-positive ttl.
func NewPolicy(ttl time.Duration) Policy {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Policy{TTL: ttl}
}

// State classifies the chart stored on p at time now.
func (p Policy) State(pos models.Position, now time.Time) State {
	switch {
	case pos.LastChartUpdate == nil:
		return NoChart
	case IsFresh(pos.LastChartUpdate, now, p.TTL):
		return Cached
	default:
		return Stale
	}
}
