package models

import "github.com/shopspring/decimal"

// AlertFrequency controls how often rebalancing alerts are sent.
type AlertFrequency string

const (
	AlertNever   AlertFrequency = "never"
	AlertDaily   AlertFrequency = "daily"
	AlertWeekly  AlertFrequency = "weekly"
	AlertMonthly AlertFrequency = "monthly"
)

// Valid reports whether f is a known frequency.
func (f AlertFrequency) Valid() bool {
	switch f {
	case AlertNever, AlertDaily, AlertWeekly, AlertMonthly:
		return true
	}
	return false
}

// DefaultBalanceThreshold is the drift, in percentage points, tolerated
// between a position's current and target weight.
var DefaultBalanceThreshold = decimal.NewFromInt(5)

// User represents the user model in the database
type User struct {
	Base
	Username string       `gorm:"uniqueIndex;not null" json:"username"`
	Password string       `gorm:"not null" json:"-"`
	Settings UserSettings `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`
	Assets   *Assets      `gorm:"foreignKey:UserID" json:"assets,omitempty"`
}

// UserSettings holds per-user preferences.
type UserSettings struct {
	BalanceThreshold decimal.Decimal `gorm:"type:numeric(10,4);not null;default:5" json:"balanceThreshold"`
	Email            string          `gorm:"not null;default:''" json:"email"`
	AlertFrequency   AlertFrequency  `gorm:"not null;default:'never'" json:"alertFrequency"`
}

// DefaultSettings returns the settings a new account starts with.
func DefaultSettings() UserSettings {
	return UserSettings{
		BalanceThreshold: DefaultBalanceThreshold,
		AlertFrequency:   AlertNever,
	}
}
