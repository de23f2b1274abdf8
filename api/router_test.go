package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"github.com/yourusername/yt-audio-go/internal/infrastructure"
	"github.com/yourusername/yt-audio-go/pkg/logger"
)

func setupTestRouter(t *testing.T) (http.Handler, *infrastructure.SQLiteHistoryRepository, string) {
	t.Helper()
	repo, err := infrastructure.NewSQLiteHistoryRepository(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	logsDir := t.TempDir()
	router := SetupRouter(repo, logger.NewLogReader(logsDir), "test", zap.NewNop())
	return router, repo, logsDir
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := get(t, router, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, true, body["history"].(map[string]interface{})["available"])
}

func TestRuns(t *testing.T) {
	router, repo, _ := setupTestRouter(t)

	run := domain.NewRun("https://www.youtube.com/playlist?list=PLtest")
	require.NoError(t, repo.CreateRun(run))
	run.Downloaded = 2
	run.MarkCompleted()
	require.NoError(t, repo.UpdateRun(run))

	aborted := domain.NewRun("https://www.youtube.com/playlist?list=PLtest")
	require.NoError(t, repo.CreateRun(aborted))
	aborted.MarkAborted(errors.New("yt-dlp not found"))
	require.NoError(t, repo.UpdateRun(aborted))

	w := get(t, router, "/api/v1/runs")
	require.Equal(t, http.StatusOK, w.Code)
	var runs []domain.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)

	w = get(t, router, "/api/v1/runs?limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	assert.Len(t, runs, 1)

	w = get(t, router, "/api/v1/runs/"+run.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, domain.RunStatusCompleted, got.Status)
	assert.Equal(t, 2, got.Downloaded)

	w = get(t, router, "/api/v1/runs/does-not-exist")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRun_RepositoryFailure(t *testing.T) {
	router, repo, _ := setupTestRouter(t)
	require.NoError(t, repo.Close())

	w := get(t, router, "/api/v1/runs/some-id")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTracks(t *testing.T) {
	router, repo, _ := setupTestRouter(t)

	downloaded := domain.NewTrack(domain.Video{ID: "dQw4w9WgXcQ", Title: "Never Gonna Give You Up", Channel: "Rick Astley"}, "run-1")
	downloaded.MarkDownloaded("data/dQw4w9WgXcQ.mp3")
	failed := domain.NewTrack(domain.Video{ID: "9bZkp7q19f0", Title: "Gangnam Style", Channel: "officialpsy"}, "run-1")
	failed.MarkFailed(errors.New("exit status 1"))
	require.NoError(t, repo.SaveTrack(downloaded))
	require.NoError(t, repo.SaveTrack(failed))

	w := get(t, router, "/api/v1/tracks")
	require.Equal(t, http.StatusOK, w.Code)
	var tracks []domain.Track
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tracks))
	assert.Len(t, tracks, 2)

	w = get(t, router, "/api/v1/tracks?status=failed")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tracks))
	require.Len(t, tracks, 1)
	assert.Equal(t, "9bZkp7q19f0", tracks[0].VideoID)

	w = get(t, router, "/api/v1/tracks?status=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, router, "/api/v1/tracks/stats")
	require.Equal(t, http.StatusOK, w.Code)
	var stats domain.TrackStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Downloaded)
	assert.Equal(t, int64(1), stats.Failed)
}

func TestEvents(t *testing.T) {
	router, _, logsDir := setupTestRouter(t)

	ml, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "info", LogsDir: logsDir})
	require.NoError(t, err)
	ml.LogRunEvent("run_started", zap.String("run_id", "abc"))
	ml.LogRunEvent("run_finished", zap.String("run_id", "abc"))
	require.NoError(t, ml.Close())

	w := get(t, router, "/api/v1/events/run")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count   int               `json:"count"`
		Entries []logger.LogEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "run_started", body.Entries[0].Message)
	assert.Equal(t, "abc", body.Entries[0].Fields["run_id"])

	w = get(t, router, "/api/v1/events/run?date=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, router, "/api/v1/events/queue")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, router, "/api/v1/events/categories")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"run"`)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestUnknownRoute(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := get(t, router, "/api/v1/downloads")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
