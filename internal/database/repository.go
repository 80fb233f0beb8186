package database

import (
	"strings"
	"time"

	"github.com/timeguardian/timeguardian/internal/models"

	"github.com/pkg/errors"
)

// Repository handles all database operations for visibility samples
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateSamples inserts all samples of one tick in a single batch
func (r *Repository) CreateSamples(samples []*models.VisibilitySample) error {
	if len(samples) == 0 {
		return nil
	}
	for _, s := range samples {
		s.AppName = strings.ToLower(s.AppName)
		s.Timestamp = s.Timestamp.UTC()
	}
	result := r.db.Create(samples)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert visibility samples")
	}
	return nil
}

// GetSamplesSince retrieves all samples since a given time
func (r *Repository) GetSamplesSince(since time.Time) ([]*models.VisibilitySample, error) {
	var samples []*models.VisibilitySample
	result := r.db.Where("timestamp >= ?", since.UTC()).
		Order("timestamp ASC").
		Order("visible_percent DESC").
		Find(&samples)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query visibility samples")
	}

	return samples, nil
}

// GetLatestSamples returns every sample of the most recent tick, most
// visible first. It returns an empty slice when nothing was recorded yet.
func (r *Repository) GetLatestSamples() ([]*models.VisibilitySample, error) {
	var samples []*models.VisibilitySample
	latest := r.db.Model(&models.VisibilitySample{}).Select("MAX(timestamp)")
	result := r.db.Where("timestamp = (?)", latest).
		Order("visible_percent DESC").
		Find(&samples)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to get latest samples")
	}
	return samples, nil
}

// GetAppVisibilitySince returns visibility aggregated per app since a given
// time. Visible seconds weight each sample's duration by its visible share.
func (r *Repository) GetAppVisibilitySince(since time.Time) ([]models.AppVisibility, error) {
	var apps []models.AppVisibility

	result := r.db.Model(&models.VisibilitySample{}).
		Select("app_name, "+
			"SUM(duration * visible_percent / 100.0) as visible_seconds, "+
			"AVG(visible_percent) as avg_percent, "+
			"COUNT(*) as sample_count").
		Where("timestamp >= ?", since.UTC()).
		Group("app_name").
		Order("visible_seconds DESC").
		Scan(&apps)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query app visibility")
	}

	return apps, nil
}

// CountSamples returns the number of stored samples
func (r *Repository) CountSamples() (int64, error) {
	var count int64
	result := r.db.Model(&models.VisibilitySample{}).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to count samples")
	}
	return count, nil
}

// DeleteOldSamples deletes samples older than a specified date (soft delete)
func (r *Repository) DeleteOldSamples(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before.UTC()).Delete(&models.VisibilitySample{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old samples")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	errorLog.Timestamp = errorLog.Timestamp.UTC()
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// GetErrorLogsSince retrieves error logs since a given time, newest first
func (r *Repository) GetErrorLogsSince(since time.Time) ([]*models.ErrorLog, error) {
	var logs []*models.ErrorLog
	result := r.db.Where("timestamp >= ?", since.UTC()).Order("timestamp DESC").Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error logs")
	}
	return logs, nil
}

// Clear removes all visibility samples from the database
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM visibility_samples")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear visibility samples")
	}
	return nil
}
