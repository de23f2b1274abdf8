package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the state of a sync run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusAborted   RunStatus = "aborted"
)

// TrackStatus represents the outcome of the last attempt on a track
type TrackStatus string

const (
	TrackStatusDownloaded TrackStatus = "downloaded"
	TrackStatusSkipped    TrackStatus = "skipped"
	TrackStatusFailed     TrackStatus = "failed"
)

// Run represents one sync of a playlist
type Run struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	PlaylistURL       string     `json:"playlist_url" gorm:"not null"`
	DownloaderVersion string     `json:"downloader_version,omitempty"`
	Status            RunStatus  `json:"status" gorm:"not null;index"`
	Total             int        `json:"total"`
	Downloaded        int        `json:"downloaded"`
	Skipped           int        `json:"skipped"`
	Failed            int        `json:"failed"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	StartedAt         time.Time  `json:"started_at" gorm:"index"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
}

// NewRun creates a run for the given playlist
func NewRun(playlistURL string) *Run {
	return &Run{
		ID:          uuid.New().String(),
		PlaylistURL: playlistURL,
		Status:      RunStatusRunning,
		StartedAt:   time.Now(),
	}
}

// MarkCompleted marks the run as finished
func (r *Run) MarkCompleted() {
	r.Status = RunStatusCompleted
	now := time.Now()
	r.FinishedAt = &now
}

// MarkAborted marks the run as stopped by a fatal error
func (r *Run) MarkAborted(err error) {
	r.Status = RunStatusAborted
	r.ErrorMessage = err.Error()
	now := time.Now()
	r.FinishedAt = &now
}

// IsFinished checks if the run reached a terminal state
func (r *Run) IsFinished() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusAborted
}

// Track represents the archive state of a single video
type Track struct {
	VideoID      string      `json:"video_id" gorm:"primaryKey"`
	Title        string      `json:"title"`
	Channel      string      `json:"channel"`
	Status       TrackStatus `json:"status" gorm:"not null;index"`
	FilePath     string      `json:"file_path,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Attempts     int         `json:"attempts" gorm:"default:0"`
	LastRunID    string      `json:"last_run_id" gorm:"index"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewTrack creates a track record for a video seen in a run
func NewTrack(video Video, runID string) *Track {
	return &Track{
		VideoID:   video.ID,
		Title:     video.Title,
		Channel:   video.Channel,
		LastRunID: runID,
	}
}

// MarkDownloaded marks the track as archived at filePath
func (t *Track) MarkDownloaded(filePath string) {
	t.Status = TrackStatusDownloaded
	t.FilePath = filePath
	t.ErrorMessage = ""
	t.Attempts++
}

// MarkSkipped marks the track as already present
func (t *Track) MarkSkipped(filePath string) {
	t.Status = TrackStatusSkipped
	t.FilePath = filePath
	t.ErrorMessage = ""
}

// MarkFailed marks the track as failed
func (t *Track) MarkFailed(err error) {
	t.Status = TrackStatusFailed
	t.FilePath = ""
	t.ErrorMessage = err.Error()
	t.Attempts++
}

// ValidateTrackStatus checks if a track status is valid
func ValidateTrackStatus(status TrackStatus) bool {
	return status == TrackStatusDownloaded || status == TrackStatusSkipped || status == TrackStatusFailed
}
