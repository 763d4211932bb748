// Package ledger implements the state transitions of a portfolio snapshot.
//
// Every function is pure: it never performs I/O or reads the clock, and it
// either returns a fresh, fully valid snapshot or an error with the input left
// exactly as it was. Callers own persistence.
//
// Weights are always computed against the total stock value; cash never
// contributes to the denominator.
package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"folio/internal/models"
)

var (
	ErrInvalidOrder       = errors.New("ledger: invalid order")
	ErrInsufficientCash   = errors.New("ledger: insufficient cash")
	ErrNotOwned           = errors.New("ledger: ticker not held")
	ErrInsufficientShares = errors.New("ledger: insufficient shares")
	ErrNegativeBalance    = errors.New("ledger: negative balance")
	ErrDuplicateTicker    = errors.New("ledger: duplicate ticker")
)

// Purchase describes shares being added to a snapshot.
type Purchase struct {
	Ticker       string
	Name         string
	Shares       decimal.Decimal
	Price        decimal.Decimal
	TargetWeight *decimal.Decimal
	UseCash      bool
	Date         *time.Time
}

// SaleOrder describes shares being removed from a snapshot.
type SaleOrder struct {
	Ticker  string
	Shares  decimal.Decimal
	Price   decimal.Decimal
	UseCash bool
}

// Quote is the observed price of one ticker.
type Quote struct {
	Price decimal.Decimal
	Date  *time.Time
}

// AddPosition buys shares. An existing ticker is merged at the weighted
// average cost basis; a new ticker is appended with a weight estimated
// against the stock value after the purchase. Other positions keep their
// weights until the next reprice.
func AddPosition(s *models.Assets, p Purchase) (*models.Assets, error) {
	if p.Ticker == "" || !p.Shares.IsPositive() || p.Price.IsNegative() {
		return nil, ErrInvalidOrder
	}

	out := clone(s)
	cost := p.Shares.Mul(p.Price)
	if p.UseCash {
		debit := roundCash(cost)
		if out.Cash.LessThan(debit) {
			return nil, ErrInsufficientCash
		}
		out.Cash = out.Cash.Sub(debit)
	}

	if i := indexOf(out.Stocks, p.Ticker); i >= 0 {
		pos := &out.Stocks[i]
		total := pos.CostBasis.Mul(pos.Shares).Add(cost)
		shares := pos.Shares.Add(p.Shares)
		pos.CostBasis = total.Div(shares)
		pos.Shares = shares
		if p.Name != "" {
			pos.Name = p.Name
		}
		if p.TargetWeight != nil {
			tw := *p.TargetWeight
			pos.TargetWeight = &tw
		}
		return out, nil
	}

	pos := models.Position{
		Ticker:        p.Ticker,
		Name:          p.Name,
		Shares:        p.Shares,
		Price:         p.Price,
		CostBasis:     p.Price,
		Date:          copyTime(p.Date),
		CurrentWeight: weight(cost, TotalStockValue(out).Add(cost)),
	}
	if p.TargetWeight != nil {
		tw := *p.TargetWeight
		pos.TargetWeight = &tw
	}
	out.Stocks = append(out.Stocks, pos)
	return out, nil
}

// SellPosition removes shares, dropping the position when none remain. With
// UseCash the proceeds are credited at the order price.
func SellPosition(s *models.Assets, o SaleOrder) (*models.Assets, error) {
	if !o.Shares.IsPositive() || o.Price.IsNegative() {
		return nil, ErrInvalidOrder
	}
	i := indexOf(s.Stocks, o.Ticker)
	if i < 0 {
		return nil, ErrNotOwned
	}
	if o.Shares.GreaterThan(s.Stocks[i].Shares) {
		return nil, ErrInsufficientShares
	}

	out := clone(s)
	remaining := out.Stocks[i].Shares.Sub(o.Shares)
	if remaining.IsZero() {
		out.Stocks = append(out.Stocks[:i], out.Stocks[i+1:]...)
	} else {
		out.Stocks[i].Shares = remaining
	}
	if o.UseCash {
		out.Cash = out.Cash.Add(roundCash(o.Shares.Mul(o.Price)))
	}
	return out, nil
}

// RepriceAll applies quotes to the positions they name and recomputes those
// positions' weights against the stock value after every quote is applied.
// Positions without a quote are left untouched. Applying the same quotes
// twice yields the same snapshot.
func RepriceAll(s *models.Assets, quotes map[string]Quote, now time.Time) *models.Assets {
	out := clone(s)
	var repriced []int
	for i := range out.Stocks {
		q, ok := quotes[out.Stocks[i].Ticker]
		if !ok {
			continue
		}
		out.Stocks[i].Price = q.Price
		out.Stocks[i].Date = copyTime(q.Date)
		out.Stocks[i].LastPriceUpdate = copyTime(&now)
		repriced = append(repriced, i)
	}

	total := TotalStockValue(out)
	for _, i := range repriced {
		out.Stocks[i].CurrentWeight = weight(out.Stocks[i].MarketValue(), total)
	}
	out.LastUpdate = copyTime(&now)
	return out
}

// AdjustCash adds delta, which may be negative, to the cash balance.
func AdjustCash(s *models.Assets, delta decimal.Decimal) (*models.Assets, error) {
	cash := s.Cash.Add(roundCash(delta))
	if cash.IsNegative() {
		return nil, ErrNegativeBalance
	}
	out := clone(s)
	out.Cash = cash
	return out, nil
}

// ReplaceAllocations swaps the holdings wholesale. Tickers must be unique and
// non-empty; entries with zero shares are dropped.
func ReplaceAllocations(s *models.Assets, holdings []models.Position) (*models.Assets, error) {
	seen := make(map[string]struct{}, len(holdings))
	stocks := make([]models.Position, 0, len(holdings))
	for _, h := range holdings {
		if h.Ticker == "" || h.Shares.IsNegative() {
			return nil, ErrInvalidOrder
		}
		if _, dup := seen[h.Ticker]; dup {
			return nil, ErrDuplicateTicker
		}
		seen[h.Ticker] = struct{}{}
		if h.Shares.IsZero() {
			continue
		}
		stocks = append(stocks, clonePosition(h))
	}

	out := clone(s)
	out.Stocks = stocks
	return out, nil
}

// StoreChart caches a freshly fetched chart on the named position.
func StoreChart(s *models.Assets, ticker string, chart []models.ChartPoint, now time.Time) (*models.Assets, error) {
	i := indexOf(s.Stocks, ticker)
	if i < 0 {
		return nil, ErrNotOwned
	}
	out := clone(s)
	out.Stocks[i].Chart = append([]models.ChartPoint(nil), chart...)
	out.Stocks[i].LastChartUpdate = copyTime(&now)
	return out, nil
}

// Find returns a copy of the position for ticker.
func Find(s *models.Assets, ticker string) (models.Position, bool) {
	i := indexOf(s.Stocks, ticker)
	if i < 0 {
		return models.Position{}, false
	}
	return clonePosition(s.Stocks[i]), true
}

// TotalStockValue sums price*shares over every held position.
func TotalStockValue(s *models.Assets) decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Stocks {
		total = total.Add(p.MarketValue())
	}
	return total
}

func weight(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Div(total)
}

// roundCash rounds an amount to the scale cash is stored at, so the balance
// a caller sees is the balance that gets persisted.
func roundCash(v decimal.Decimal) decimal.Decimal {
	return v.Round(models.CashScale)
}

func indexOf(stocks []models.Position, ticker string) int {
	for i := range stocks {
		if stocks[i].Ticker == ticker {
			return i
		}
	}
	return -1
}
