package infrastructure

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// SQLiteHistoryRepository implements HistoryRepository using SQLite
type SQLiteHistoryRepository struct {
	db *gorm.DB
}

// NewSQLiteHistoryRepository creates a new SQLite repository
func NewSQLiteHistoryRepository(dbPath string) (*SQLiteHistoryRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Run{}, &domain.Track{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteHistoryRepository{db: db}, nil
}

// CreateRun creates a new run
func (r *SQLiteHistoryRepository) CreateRun(run *domain.Run) error {
	return r.db.Create(run).Error
}

// UpdateRun updates an existing run
func (r *SQLiteHistoryRepository) UpdateRun(run *domain.Run) error {
	return r.db.Save(run).Error
}

// FindRunByID finds a run by ID
func (r *SQLiteHistoryRepository) FindRunByID(id string) (*domain.Run, error) {
	var run domain.Run
	if err := r.db.First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
		}
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs first
func (r *SQLiteHistoryRepository) ListRuns(limit int) ([]*domain.Run, error) {
	var runs []*domain.Run
	query := r.db.Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&runs).Error
	return runs, err
}

// SaveTrack inserts a track or replaces the stored one
func (r *SQLiteHistoryRepository) SaveTrack(track *domain.Track) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "channel", "status", "file_path", "error_message", "attempts", "last_run_id", "updated_at",
		}),
	}).Create(track).Error
}

// FindTrack finds a track by video ID
// Returns nil if not found
func (r *SQLiteHistoryRepository) FindTrack(videoID string) (*domain.Track, error) {
	var track domain.Track
	err := r.db.Where("video_id = ?", videoID).First(&track).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &track, nil
}

// ListTracks lists tracks ordered by title, optionally filtered by status
func (r *SQLiteHistoryRepository) ListTracks(status domain.TrackStatus) ([]*domain.Track, error) {
	var tracks []*domain.Track
	query := r.db.Order("channel ASC, title ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&tracks).Error
	return tracks, err
}

// GetStats returns track statistics
func (r *SQLiteHistoryRepository) GetStats() (*domain.TrackStats, error) {
	stats := &domain.TrackStats{}

	if err := r.db.Model(&domain.Track{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.TrackStatus
		Count  int64
	}{}

	if err := r.db.Model(&domain.Track{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.TrackStatusDownloaded:
			stats.Downloaded = sc.Count
		case domain.TrackStatusSkipped:
			stats.Skipped = sc.Count
		case domain.TrackStatusFailed:
			stats.Failed = sc.Count
		}
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteHistoryRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
