package services

import (
	"context"

	"github.com/shopspring/decimal"

	"folio/internal/ledger"
	"folio/internal/models"
	"folio/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
	UpdateSettings(userID string, update SettingsUpdate) (*models.User, error)
}

// SettingsUpdate carries the settings fields a caller wants to change. Nil
// fields are left as they are.
type SettingsUpdate struct {
	BalanceThreshold *decimal.Decimal
	Email            *string
	AlertFrequency   *models.AlertFrequency
}

// DriftReport lists positions that moved past the user's rebalancing
// threshold.
type DriftReport struct {
	Threshold decimal.Decimal     `json:"threshold"`
	Positions []ledger.DriftEntry `json:"positions"`
}

// PortfolioServicer defines the contract for portfolio operations. Every
// mutation loads the user's snapshot, applies one ledger operation and saves
// the result; a failed step leaves the stored snapshot unchanged.
type PortfolioServicer interface {
	GetPortfolio(ctx context.Context, userID string) (*models.Assets, error)
	Buy(ctx context.Context, userID string, purchase ledger.Purchase) (*models.Assets, error)
	Sell(ctx context.Context, userID string, order ledger.SaleOrder) (*models.Assets, error)
	Reprice(ctx context.Context, userID string) (*models.Assets, error)
	Chart(ctx context.Context, userID, ticker string) ([]models.ChartPoint, error)
	ReplaceAllocations(ctx context.Context, userID string, holdings []models.Position) (*models.Assets, error)
	AdjustCash(ctx context.Context, userID string, delta decimal.Decimal) (*models.Assets, error)
	LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
	Drift(ctx context.Context, userID string, threshold decimal.Decimal) (*DriftReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	ListByUser(userID string, page pagination.PageRequest) (*pagination.Page[models.AuditLog], error)
}
