package ledger

import (
	"github.com/shopspring/decimal"

	"folio/internal/models"
)

var hundred = decimal.NewFromInt(100)

// DriftEntry reports a position whose weight has moved away from its target.
// Drift is signed and expressed in percentage points.
type DriftEntry struct {
	Ticker        string          `json:"ticker"`
	CurrentWeight decimal.Decimal `json:"currentWeight"`
	TargetWeight  decimal.Decimal `json:"targetWeight"`
	Drift         decimal.Decimal `json:"drift"`
}

// Drift lists positions with a target weight whose current weight differs
// from it by more than thresholdPct percentage points, in holding order.
func Drift(s *models.Assets, thresholdPct decimal.Decimal) []DriftEntry {
	entries := []DriftEntry{}
	for _, p := range s.Stocks {
		if p.TargetWeight == nil {
			continue
		}
		d := p.CurrentWeight.Sub(*p.TargetWeight).Mul(hundred)
		if d.Abs().GreaterThan(thresholdPct) {
			entries = append(entries, DriftEntry{
				Ticker:        p.Ticker,
				CurrentWeight: p.CurrentWeight,
				TargetWeight:  *p.TargetWeight,
				Drift:         d,
			})
		}
	}
	return entries
}
