package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// EventLogger receives structured run events
type EventLogger interface {
	LogRunEvent(event string, fields ...zap.Field)
	LogAppError(msg string, fields ...zap.Field)
}

// Notifier is told about the outcome of a run
type Notifier interface {
	NotifyRunCompleted(run *domain.Run)
	NotifyRunAborted(run *domain.Run, err error)
}

// ItemFailure records a video that could not be archived
type ItemFailure struct {
	Video domain.Video
	Err   error
}

// SyncReport summarizes a sync run
type SyncReport struct {
	RunID             string
	DownloaderVersion string
	Total             int
	Downloaded        int
	Skipped           int
	Failed            int
	Failures          []ItemFailure
}

// PlaylistEntry is a playlist video together with its archive state
type PlaylistEntry struct {
	Video      domain.Video `json:"video"`
	Downloaded bool         `json:"downloaded"`
}

// Archiver syncs a playlist into the audio library, one video at a time
type Archiver struct {
	downloader domain.Downloader
	tagger     domain.Tagger
	library    domain.Library
	history    domain.HistoryRepository
	notifier   Notifier
	events     EventLogger
	logger     *zap.Logger
}

// NewArchiver creates a new archiver
func NewArchiver(
	downloader domain.Downloader,
	tagger domain.Tagger,
	library domain.Library,
	logger *zap.Logger,
) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		downloader: downloader,
		tagger:     tagger,
		library:    library,
		logger:     logger,
	}
}

// SetHistoryRepository enables recording of runs and tracks
func (a *Archiver) SetHistoryRepository(history domain.HistoryRepository) {
	a.history = history
}

// SetNotifier enables run notifications
func (a *Archiver) SetNotifier(notifier Notifier) {
	a.notifier = notifier
}

// SetEventLogger enables the structured event log
func (a *Archiver) SetEventLogger(events EventLogger) {
	a.events = events
}

// Sync archives every video of the playlist that is not in the library yet.
//
// Failing to probe the downloader, prepare the library or list the playlist
// aborts the run. A video that fails to download or tag is logged and the
// run moves on to the next one.
func (a *Archiver) Sync(ctx context.Context, playlistURL string) (*SyncReport, error) {
	run := domain.NewRun(playlistURL)
	report := &SyncReport{RunID: run.ID}
	a.createRun(run)

	a.logger.Info("Starting sync", zap.String("run_id", run.ID), zap.String("playlist", playlistURL))

	version, err := a.downloader.Probe(ctx)
	if err != nil {
		return report, a.abort(run, report, err)
	}
	run.DownloaderVersion = version
	report.DownloaderVersion = version
	a.logger.Info("Downloader found", zap.String("version", version))

	if err := a.library.Ensure(); err != nil {
		return report, a.abort(run, report, err)
	}

	a.logger.Info("Fetching videos of playlist")
	videos, err := a.downloader.ListPlaylist(ctx, playlistURL)
	if err != nil {
		return report, a.abort(run, report, err)
	}
	report.Total = len(videos)
	a.logger.Info("Playlist fetched", zap.Int("videos", len(videos)))

	for i, video := range videos {
		if err := ctx.Err(); err != nil {
			return report, a.abort(run, report, err)
		}

		fields := []zap.Field{
			zap.String("progress", fmt.Sprintf("%d/%d", i+1, len(videos))),
			zap.String("id", video.ID),
			zap.String("title", video.Title),
			zap.String("channel", video.Channel),
		}

		if a.library.Exists(video) {
			a.logger.Info("Already downloaded, skipping", fields...)
			report.Skipped++
			a.recordTrack(run, video, nil, true)
			continue
		}

		a.logger.Info("Downloading video", fields...)
		if err := a.archive(ctx, video); err != nil {
			a.logger.Error("Failed to download video", append(fields, zap.Error(err))...)
			report.Failed++
			report.Failures = append(report.Failures, ItemFailure{Video: video, Err: err})
			a.recordTrack(run, video, err, false)
			continue
		}

		report.Downloaded++
		a.recordTrack(run, video, nil, false)
	}

	a.finish(run, report)
	return report, nil
}

// archive downloads and tags one video, removing its files if either step fails
func (a *Archiver) archive(ctx context.Context, video domain.Video) error {
	err := a.downloader.DownloadAudio(ctx, video)
	if err == nil {
		err = a.tagger.WriteTag(video.Path(a.library.Dir()), video.Title, video.Channel)
	}
	if err == nil {
		return nil
	}

	if rmErr := a.library.RemoveArtifacts(video.ID); rmErr != nil {
		a.logger.Warn("Failed to remove unfinished download",
			zap.String("id", video.ID),
			zap.Error(rmErr))
	}
	return err
}

// List returns the playlist entries and whether each one is archived
func (a *Archiver) List(ctx context.Context, playlistURL string) ([]PlaylistEntry, error) {
	videos, err := a.downloader.ListPlaylist(ctx, playlistURL)
	if err != nil {
		return nil, err
	}

	entries := make([]PlaylistEntry, 0, len(videos))
	for _, video := range videos {
		entries = append(entries, PlaylistEntry{Video: video, Downloaded: a.library.Exists(video)})
	}
	return entries, nil
}

// abort records a fatal error and returns it
func (a *Archiver) abort(run *domain.Run, report *SyncReport, err error) error {
	a.applyCounts(run, report)
	run.MarkAborted(err)
	a.updateRun(run)

	a.logger.Error("Sync aborted", zap.String("run_id", run.ID), zap.Error(err))
	if a.events != nil {
		a.events.LogAppError("run_aborted", zap.String("run_id", run.ID), zap.Error(err))
	}
	if a.notifier != nil {
		a.notifier.NotifyRunAborted(run, err)
	}
	return err
}

// finish records a completed run
func (a *Archiver) finish(run *domain.Run, report *SyncReport) {
	a.applyCounts(run, report)
	run.MarkCompleted()
	a.updateRun(run)

	a.logger.Info("Sync finished",
		zap.String("run_id", run.ID),
		zap.Int("total", report.Total),
		zap.Int("downloaded", report.Downloaded),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	if a.events != nil {
		a.events.LogRunEvent("run_finished",
			zap.String("run_id", run.ID),
			zap.Int("downloaded", report.Downloaded),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed))
	}
	if a.notifier != nil {
		a.notifier.NotifyRunCompleted(run)
	}
}

func (a *Archiver) applyCounts(run *domain.Run, report *SyncReport) {
	run.Total = report.Total
	run.Downloaded = report.Downloaded
	run.Skipped = report.Skipped
	run.Failed = report.Failed
}

func (a *Archiver) createRun(run *domain.Run) {
	if a.events != nil {
		a.events.LogRunEvent("run_started", zap.String("run_id", run.ID), zap.String("playlist", run.PlaylistURL))
	}
	if a.history == nil {
		return
	}
	if err := a.history.CreateRun(run); err != nil {
		a.logger.Warn("Failed to record run", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func (a *Archiver) updateRun(run *domain.Run) {
	if a.history == nil {
		return
	}
	if err := a.history.UpdateRun(run); err != nil {
		a.logger.Warn("Failed to update run", zap.String("run_id", run.ID), zap.Error(err))
	}
}

// recordTrack stores the outcome for one video; history errors are only logged
func (a *Archiver) recordTrack(run *domain.Run, video domain.Video, itemErr error, skipped bool) {
	if a.events != nil {
		event := "item_downloaded"
		switch {
		case skipped:
			event = "item_skipped"
		case itemErr != nil:
			event = "item_failed"
		}
		fields := []zap.Field{zap.String("run_id", run.ID), zap.String("video_id", video.ID), zap.String("title", video.Title)}
		if itemErr != nil {
			a.events.LogAppError(event, append(fields, zap.Error(itemErr))...)
		} else {
			a.events.LogRunEvent(event, fields...)
		}
	}

	if a.history == nil {
		return
	}

	track, err := a.history.FindTrack(video.ID)
	if err != nil {
		// a fresh record would overwrite the stored attempt count
		a.logger.Warn("Failed to load track, not recording it", zap.String("id", video.ID), zap.Error(err))
		return
	}
	if track == nil {
		track = domain.NewTrack(video, run.ID)
	}
	track.Title = video.Title
	track.Channel = video.Channel
	track.LastRunID = run.ID

	path := video.Path(a.library.Dir())
	switch {
	case skipped:
		track.MarkSkipped(path)
	case itemErr != nil:
		track.MarkFailed(itemErr)
	default:
		track.MarkDownloaded(path)
	}

	if err := a.history.SaveTrack(track); err != nil {
		a.logger.Warn("Failed to record track", zap.String("id", video.ID), zap.Error(err))
	}
}
