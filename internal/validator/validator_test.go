package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type order struct {
	Ticker string           `validate:"required,ticker"`
	Shares decimal.Decimal  `validate:"gt=0"`
	Target *decimal.Decimal `validate:"omitempty,gte=0,lte=1"`
}

type settings struct {
	AlertFrequency string `validate:"omitempty,alert_frequency"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestTickerAndDecimal(t *testing.T) {
	v := newValidate()
	half := decimal.RequireFromString("0.5")
	tooBig := decimal.RequireFromString("1.5")

	tests := []struct {
		name  string
		in    order
		valid bool
	}{
		{"valid", order{Ticker: "AAPL", Shares: decimal.NewFromInt(3), Target: &half}, true},
		{"dotted ticker", order{Ticker: "BRK.B", Shares: decimal.RequireFromString("0.25")}, true},
		{"empty ticker", order{Ticker: "", Shares: decimal.NewFromInt(1)}, false},
		{"spaces in ticker", order{Ticker: "AA PL", Shares: decimal.NewFromInt(1)}, false},
		{"zero shares", order{Ticker: "AAPL", Shares: decimal.Zero}, false},
		{"negative shares", order{Ticker: "AAPL", Shares: decimal.NewFromInt(-2)}, false},
		{"target above one", order{Ticker: "AAPL", Shares: decimal.NewFromInt(1), Target: &tooBig}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAlertFrequency(t *testing.T) {
	v := newValidate()

	assert.NoError(t, v.Struct(settings{AlertFrequency: "weekly"}))
	assert.NoError(t, v.Struct(settings{}))
	assert.Error(t, v.Struct(settings{AlertFrequency: "hourly"}))
}
