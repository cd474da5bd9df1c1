package services

import (
	"gorm.io/gorm"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/logger"
	"clubledger/internal/models"
)

// activityService records the activity trail.
type activityService struct {
	db *gorm.DB
}

// NewActivityService creates a new ActivityServicer.
func NewActivityService(db *gorm.DB) ActivityServicer {
	return &activityService{db: db}
}

// Log records an activity entry. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *activityService) Log(activityType, actor, details string) {
	entry := &models.Activity{
		Type:    activityType,
		Actor:   actor,
		Details: details,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to record activity",
			"error", err,
			"type", activityType,
			"actor", actor,
		)
	}
}

// GetRecent returns the latest activity entries, newest first.
func (s *activityService) GetRecent(limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 20
	}

	var activities []models.Activity
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&activities).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return activities, nil
}
