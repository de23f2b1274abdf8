package domain

// HistoryRepository defines the interface for sync history persistence
type HistoryRepository interface {
	// CreateRun creates a new run
	CreateRun(run *Run) error

	// UpdateRun updates an existing run
	UpdateRun(run *Run) error

	// FindRunByID finds a run by ID, returning ErrRunNotFound if unknown
	FindRunByID(id string) (*Run, error)

	// ListRuns returns the most recent runs first, at most limit of them
	ListRuns(limit int) ([]*Run, error)

	// SaveTrack inserts or updates a track
	SaveTrack(track *Track) error

	// FindTrack finds a track by video ID, returning nil if unknown
	FindTrack(videoID string) (*Track, error)

	// ListTracks lists tracks, optionally filtered by status
	ListTracks(status TrackStatus) ([]*Track, error)

	// GetStats returns track statistics
	GetStats() (*TrackStats, error)
}

// TrackStats represents track statistics
type TrackStats struct {
	Total      int64 `json:"total"`
	Downloaded int64 `json:"downloaded"`
	Skipped    int64 `json:"skipped"`
	Failed     int64 `json:"failed"`
}
