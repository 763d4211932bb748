package ledger

import (
	"time"

	"folio/internal/models"
)

// clone deep-copies a snapshot so mutations never leak into the caller's value.
func clone(s *models.Assets) *models.Assets {
	out := *s
	out.LastUpdate = copyTime(s.LastUpdate)
	if s.Stocks != nil {
		out.Stocks = make([]models.Position, len(s.Stocks))
		for i, p := range s.Stocks {
			out.Stocks[i] = clonePosition(p)
		}
	}
	return &out
}

func clonePosition(p models.Position) models.Position {
	out := p
	out.Date = copyTime(p.Date)
	out.LastChartUpdate = copyTime(p.LastChartUpdate)
	out.LastPriceUpdate = copyTime(p.LastPriceUpdate)
	if p.TargetWeight != nil {
		tw := *p.TargetWeight
		out.TargetWeight = &tw
	}
	if p.Chart != nil {
		out.Chart = append([]models.ChartPoint(nil), p.Chart...)
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
