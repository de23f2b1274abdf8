package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// YTDLPClient implements domain.Downloader on top of the yt-dlp binary
type YTDLPClient struct {
	config  *domain.DownloaderConfig
	dataDir string
	logsDir string
	version string
	logger  *zap.Logger
}

// NewYTDLPClient creates a client for the configured binary.
// The binary is not run until Probe is called.
func NewYTDLPClient(config *domain.DownloaderConfig, dataDir, logsDir string, logger *zap.Logger) *YTDLPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLPClient{
		config:  config,
		dataDir: dataDir,
		logsDir: logsDir,
		logger:  logger,
	}
}

// Command returns the configured binary
func (c *YTDLPClient) Command() string {
	return c.config.Command
}

// Version returns the version reported by the last successful Probe
func (c *YTDLPClient) Version() string {
	return c.version
}

// DataDir returns the directory downloads are written to
func (c *YTDLPClient) DataDir() string {
	return c.dataDir
}

// Probe runs the binary with --version and returns the reported version
func (c *YTDLPClient) Probe(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, c.config.Command, "--version").Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "", fmt.Errorf("%w: %s --version exited with status %d", domain.ErrUnexpectedOutput, c.config.Command, exitErr.ExitCode())
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrBinaryNotFound, c.config.Command, err)
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("%w: %s --version", domain.ErrUnexpectedOutput, c.config.Command)
	}
	c.version = stripTrailingNewline(string(out))
	return c.version, nil
}

// ListPlaylist prints channel, title and id of every entry without resolving them
func (c *YTDLPClient) ListPlaylist(ctx context.Context, url string) ([]domain.Video, error) {
	args := playlistArgs(url)
	c.logger.Debug("Listing playlist",
		zap.String("command", ShellEscapeCommand(c.config.Command, args...)))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.config.Command, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", domain.ErrPlaylistFetch, url, err, strings.TrimSpace(stderr.String()))
	}
	if !utf8.Valid(out) {
		return nil, fmt.Errorf("%w: %w: listing is not valid UTF-8", domain.ErrPlaylistFetch, domain.ErrUnexpectedOutput)
	}

	return ParsePlaylistOutput(string(out)), nil
}

// DownloadAudio extracts the best audio of a video as <dataDir>/<id>.mp3.
// Process output goes to the daily download log; no tags are written.
func (c *YTDLPClient) DownloadAudio(ctx context.Context, video domain.Video) error {
	args := c.downloadArgs(video)
	cmdLine := ShellEscapeCommand(c.config.Command, args...)
	c.logger.Debug("Downloading audio",
		zap.String("id", video.ID),
		zap.String("command", cmdLine))

	var out io.Writer = io.Discard
	if c.logsDir != "" {
		downloadLog, err := c.openLogFile()
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer downloadLog.Close()
		writeLogHeader(downloadLog, video.ID, cmdLine)
		out = downloadLog
	}

	cmd := exec.CommandContext(ctx, c.config.Command, args...)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		exitStatus := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitStatus = exitErr.ExitCode()
		}
		writeLogFooter(out, false, fmt.Sprintf("%s failed: %v", c.config.Command, err))
		return &domain.DownloadError{VideoID: video.ID, ExitStatus: exitStatus, Err: err}
	}

	writeLogFooter(out, true, fmt.Sprintf("Downloaded: %s", video.Path(c.dataDir)))
	return nil
}

// playlistArgs builds the flattened listing invocation
func playlistArgs(url string) []string {
	return []string{
		"--flat-playlist",
		"--print", "channel",
		"--print", "title",
		"--print", "id",
		url,
	}
}

// downloadArgs builds the audio extraction invocation
func (c *YTDLPClient) downloadArgs(video domain.Video) []string {
	fragments := c.config.ConcurrentFragments
	if fragments < 1 {
		fragments = 1
	}
	return []string{
		"-f", "bestaudio",
		"--extract-audio",
		"--audio-quality", "0",
		"--audio-format", domain.AudioFormat,
		"--concurrent-fragments", strconv.Itoa(fragments),
		"--output", filepath.Join(c.dataDir, "%(id)s.%(ext)s"),
		video.URL(),
	}
}

// openLogFile opens the download log file for today
func (c *YTDLPClient) openLogFile() (*os.File, error) {
	if err := os.MkdirAll(c.logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	dateStr := time.Now().Format("20060102")
	path := filepath.Join(c.logsDir, "download-"+dateStr+".log")
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// writeLogHeader writes the download start marker
func writeLogHeader(w io.Writer, videoID, cmdLine string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(w, "\n=== [%s] Download: %s ===\n", timestamp, videoID)
	fmt.Fprintf(w, "$ %s\n", cmdLine)
}

// writeLogFooter writes the download end marker
func writeLogFooter(w io.Writer, success bool, message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, status, message)
	fmt.Fprint(w, "=== END ===\n\n")
}

// stripTrailingNewline removes one trailing \r\n or \n
func stripTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}
