package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"folio/internal/models"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, a unique username and
// an empty portfolio.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username and an
// empty portfolio.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hash),
		Settings: models.DefaultSettings(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	assets := &models.Assets{UserID: user.ID, Stocks: []models.Position{}}
	if err := db.Create(assets).Error; err != nil {
		t.Fatalf("failed to create test assets: %v", err)
	}
	user.Assets = assets
	return user
}

// SetTestHoldings overwrites a user's cash and positions.
func SetTestHoldings(t *testing.T, db *gorm.DB, userID string, cash decimal.Decimal, stocks ...models.Position) *models.Assets {
	t.Helper()

	var assets models.Assets
	if err := db.Where("user_id = ?", userID).First(&assets).Error; err != nil {
		t.Fatalf("failed to load test assets: %v", err)
	}
	if stocks == nil {
		stocks = []models.Position{}
	}
	assets.Cash = cash
	assets.Stocks = stocks
	if err := db.Model(&assets).Select("cash", "stocks").Updates(&assets).Error; err != nil {
		t.Fatalf("failed to update test assets: %v", err)
	}
	return &assets
}

// TestPosition returns a position with the given ticker, shares and price,
// cost basis equal to price.
func TestPosition(ticker string, shares, price int64) models.Position {
	return models.Position{
		Ticker:    ticker,
		Name:      ticker + " Inc.",
		Shares:    decimal.NewFromInt(shares),
		Price:     decimal.NewFromInt(price),
		CostBasis: decimal.NewFromInt(price),
	}
}
