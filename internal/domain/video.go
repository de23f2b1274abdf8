package domain

import (
	"path/filepath"
)

// AudioExtension is the extension of every archived track
const AudioExtension = ".mp3"

// AudioFormat is the target format passed to yt-dlp
const AudioFormat = "mp3"

const watchURLPrefix = "https://youtube.com/watch?v="

// Video represents a single playlist entry
type Video struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Channel string `json:"channel"`
}

// URL returns the canonical watch URL of the video
func (v Video) URL() string {
	return watchURLPrefix + v.ID
}

// FileName returns the name of the archived audio file
func (v Video) FileName() string {
	return v.ID + AudioExtension
}

// Path returns the location of the archived audio file inside dataDir
func (v Video) Path(dataDir string) string {
	return filepath.Join(dataDir, v.FileName())
}
