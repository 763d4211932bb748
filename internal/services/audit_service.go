package services

import (
	"encoding/json"

	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/logger"
	"folio/internal/models"
	"folio/internal/pagination"
)

// Audit actions recorded for portfolio mutations.
const (
	ActionBuy                = "BUY_STOCK"
	ActionSell               = "SELL_STOCK"
	ActionReprice            = "REPRICE_PORTFOLIO"
	ActionReplaceAllocations = "REPLACE_ALLOCATIONS"
	ActionAdjustCash         = "ADJUST_CASH"
	ActionUpdateSettings     = "UPDATE_SETTINGS"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// ListByUser returns a user's audit entries, newest first.
func (s *auditService) ListByUser(userID string, page pagination.PageRequest) (*pagination.Page[models.AuditLog], error) {
	page.Normalize()

	var total int64
	if err := s.db.Model(&models.AuditLog{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.AuditLog
	err := s.db.Where("user_id = ?", userID).
		Scopes(pagination.Scope(page)).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPage(entries, page, total)
	return &resp, nil
}
