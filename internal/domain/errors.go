package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBinaryNotFound is returned when the downloader binary cannot be executed
	ErrBinaryNotFound = errors.New("downloader binary not found")

	// ErrUnexpectedOutput is returned when the downloader prints something that is not text
	ErrUnexpectedOutput = errors.New("unexpected downloader output")

	// ErrPlaylistFetch is returned when the playlist listing cannot be obtained
	ErrPlaylistFetch = errors.New("failed to fetch playlist")

	// ErrDownloadFailed is matched by every *DownloadError
	ErrDownloadFailed = errors.New("download failed")

	// ErrTagWrite is returned when the metadata tag cannot be written
	ErrTagWrite = errors.New("failed to write tag")

	// ErrRunNotFound is returned when no sync run has the requested ID
	ErrRunNotFound = errors.New("run not found")
)

// DownloadError reports a downloader process that exited with a non-zero status
type DownloadError struct {
	VideoID    string
	ExitStatus int
	Err        error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed: exit status %d", e.VideoID, e.ExitStatus)
}

// Unwrap returns the underlying process error
func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Is reports ErrDownloadFailed as a match
func (e *DownloadError) Is(target error) bool {
	return target == ErrDownloadFailed
}
