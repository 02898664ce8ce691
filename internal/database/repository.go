package database

import (
	"time"

	"github.com/displaywake/displaywake/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for wake events
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new wake event into the database
func (r *Repository) Create(event *models.WakeEvent) error {
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert wake event")
	}
	return nil
}

// GetEventsSince retrieves all wake events since a given time,
// newest first
func (r *Repository) GetEventsSince(since time.Time) ([]*models.WakeEvent, error) {
	var events []*models.WakeEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp DESC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query wake events")
	}

	return events, nil
}

// GetDecisionSummarySince returns per-decision counts since a given time
// Uses SQL COUNT for efficiency - runtime can do additional calculations
func (r *Repository) GetDecisionSummarySince(since time.Time) ([]models.DecisionSummary, error) {
	var summaries []models.DecisionSummary

	result := r.db.Model(&models.WakeEvent{}).
		Select("decision, COUNT(*) as event_count").
		Where("timestamp >= ?", since).
		Group("decision").
		Order("event_count DESC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query decision summary")
	}

	return summaries, nil
}

// GetLatest retrieves the most recent wake event
func (r *Repository) GetLatest() (*models.WakeEvent, error) {
	var event models.WakeEvent
	result := r.db.Order("timestamp DESC").First(&event)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest event")
	}
	return &event, nil
}

// DeleteOldEvents deletes events older than a specified date (soft delete)
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.WakeEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	return result.RowsAffected, nil
}

// Clear removes all wake events from the database
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM wake_events")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear wake events")
	}
	return nil
}
