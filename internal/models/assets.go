package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices, shares and cash go over the wire as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// CashScale is the number of decimal places the cash column stores.
const CashScale = 6

// Assets is a user's portfolio snapshot: cash plus an ordered list of stock
// positions. It is loaded, mutated and saved as one unit.
type Assets struct {
	Base       `json:"-"`
	UserID     string          `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Cash       decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"cash"`
	Stocks     []Position      `gorm:"type:text;serializer:json" json:"stocks"`
	LastUpdate *time.Time      `json:"lastUpdate,omitempty"`
}

// Position is a single holding within a snapshot, keyed by ticker.
type Position struct {
	Ticker          string           `json:"ticker"`
	Name            string           `json:"name"`
	Shares          decimal.Decimal  `json:"shares"`
	Price           decimal.Decimal  `json:"price"`
	CostBasis       decimal.Decimal  `json:"costBasis"`
	Date            *time.Time       `json:"date,omitempty"`
	CurrentWeight   decimal.Decimal  `json:"currentWeight"`
	TargetWeight    *decimal.Decimal `json:"targetWeight,omitempty"`
	Chart           []ChartPoint     `json:"chart,omitempty"`
	LastChartUpdate *time.Time       `json:"lastChartUpdate,omitempty"`
	LastPriceUpdate *time.Time       `json:"lastPriceUpdate,omitempty"`
}

// MarketValue returns the market value of the position at its last known price.
func (p Position) MarketValue() decimal.Decimal {
	return p.Price.Mul(p.Shares)
}

// ChartPoint is one closing price in a historical series.
type ChartPoint struct {
	Date  string          `json:"date"`
	Close decimal.Decimal `json:"close"`
}
