package domain

import "context"

// Downloader defines the interface for the external playlist downloader
type Downloader interface {
	// Probe checks that the downloader runs and returns its version
	Probe(ctx context.Context) (string, error)

	// ListPlaylist returns the entries of a playlist in playlist order
	ListPlaylist(ctx context.Context, url string) ([]Video, error)

	// DownloadAudio extracts the best audio stream of a video into the library
	DownloadAudio(ctx context.Context, video Video) error
}

// Tagger defines the interface for reading and writing audio metadata
type Tagger interface {
	// WriteTag replaces any tag in the file with one holding title and artist
	WriteTag(path, title, artist string) error

	// ReadTagTitle returns the title stored in the file's tag.
	// ok is false when the file carries no tag.
	ReadTagTitle(path string) (title string, ok bool, err error)
}

// Library defines the interface for the directory holding archived tracks
type Library interface {
	// Dir returns the library directory
	Dir() string

	// Ensure creates the directory or removes leftovers of interrupted runs
	Ensure() error

	// Exists reports whether the video already has an archived file
	Exists(video Video) bool

	// RemoveArtifacts deletes every file belonging to the given video ID
	RemoveArtifacts(videoID string) error
}
