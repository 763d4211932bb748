// Package repository persists portfolio snapshots.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"folio/internal/models"
)

// ErrNotFound is returned when a user has no snapshot.
var ErrNotFound = errors.New("repository: assets not found")

// defaultBatchSize is the page size used by ListWithHoldings.
const defaultBatchSize = 100

// AssetStore loads and saves whole snapshots by user identity. Saves are full
// overwrites; concurrent writers for the same user race and the last write
// wins.
type AssetStore interface {
	Load(ctx context.Context, userID string) (*models.Assets, error)
	Save(ctx context.Context, assets *models.Assets) error
	Create(ctx context.Context, userID string) (*models.Assets, error)
	ListWithHoldings(ctx context.Context, fn func(batch []models.Assets) error) error
}

// GormAssetStore implements AssetStore with gorm.
type GormAssetStore struct {
	db        *gorm.DB
	batchSize int
}

// NewAssetStore returns a store on db. Pass a transaction handle to make
// writes part of it.
func NewAssetStore(db *gorm.DB) *GormAssetStore {
	return &GormAssetStore{db: db, batchSize: defaultBatchSize}
}

// Load returns the snapshot owned by userID.
func (s *GormAssetStore) Load(ctx context.Context, userID string) (*models.Assets, error) {
	var assets models.Assets
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&assets).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load assets for %s: %w", userID, err)
	}
	normalize(&assets)
	return &assets, nil
}

// Save overwrites the stored snapshot with assets.
func (s *GormAssetStore) Save(ctx context.Context, assets *models.Assets) error {
	if assets.ID == "" {
		return fmt.Errorf("save assets for %s: missing id", assets.UserID)
	}
	normalize(assets)
	res := s.db.WithContext(ctx).
		Model(assets).
		Select("cash", "stocks", "last_update").
		Updates(assets)
	if res.Error != nil {
		return fmt.Errorf("save assets for %s: %w", assets.UserID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Create stores an empty snapshot for a new user.
func (s *GormAssetStore) Create(ctx context.Context, userID string) (*models.Assets, error) {
	assets := &models.Assets{UserID: userID, Stocks: []models.Position{}}
	if err := s.db.WithContext(ctx).Create(assets).Error; err != nil {
		return nil, fmt.Errorf("create assets for %s: %w", userID, err)
	}
	return assets, nil
}

// ListWithHoldings pages through every snapshot that holds at least one
// stock and hands each page to fn. An error from fn stops the scan.
func (s *GormAssetStore) ListWithHoldings(ctx context.Context, fn func(batch []models.Assets) error) error {
	var batch []models.Assets
	res := s.db.WithContext(ctx).
		Where("stocks IS NOT NULL AND stocks NOT IN ?", []string{"", "null", "[]"}).
		FindInBatches(&batch, s.batchSize, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				normalize(&batch[i])
			}
			return fn(batch)
		})
	if res.Error != nil {
		return fmt.Errorf("list assets with holdings: %w", res.Error)
	}
	return nil
}

func normalize(a *models.Assets) {
	if a.Stocks == nil {
		a.Stocks = []models.Position{}
	}
}
