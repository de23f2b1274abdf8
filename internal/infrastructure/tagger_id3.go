package infrastructure

import (
	"errors"
	"fmt"
	"os"

	"github.com/bogem/id3v2"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// id3Version is the ID3v2 minor version written to archived tracks
const id3Version = 4

// TagInfo holds the metadata read back from an archived track
type TagInfo struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// ID3Tagger implements domain.Tagger with ID3v2.4 tags
type ID3Tagger struct{}

// NewID3Tagger creates a new ID3 tagger
func NewID3Tagger() *ID3Tagger {
	return &ID3Tagger{}
}

// WriteTag writes a fresh tag holding only title (TIT2) and artist (TPE1).
// An existing tag is dropped, not merged; the audio data is kept.
func (t *ID3Tagger) WriteTag(path, title, artist string) error {
	// Parse: false keeps the size of the old tag so Save skips over it
	tag, err := openTag(path, id3v2.Options{Parse: false})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrTagWrite, path, err)
	}
	defer tag.Close()

	tag.DeleteAllFrames()
	tag.SetVersion(id3Version)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(title)
	tag.SetArtist(artist)

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrTagWrite, path, err)
	}
	return nil
}

// ReadTagTitle returns the title of the file's tag. ok is false when the
// file carries no tag; title may be empty when the tag lacks a TIT2 frame.
func (t *ID3Tagger) ReadTagTitle(path string) (string, bool, error) {
	info, ok, err := t.ReadTag(path)
	return info.Title, ok, err
}

// ReadTag returns title and artist of the file's tag.
// Tags older than ID3v2.3 cannot be read and count as no tag.
func (t *ID3Tagger) ReadTag(path string) (TagInfo, bool, error) {
	tag, err := openTag(path, id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Title", "Artist"},
	})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		return TagInfo{}, false, nil
	}
	if err != nil {
		return TagInfo{}, false, fmt.Errorf("failed to read tag of %s: %w", path, err)
	}
	defer tag.Close()

	if !tag.HasFrames() {
		return TagInfo{}, false, nil
	}

	return TagInfo{Title: tag.Title(), Artist: tag.Artist()}, true, nil
}

// openTag is id3v2.Open that also closes the file when parsing fails
func openTag(path string, opts id3v2.Options) (*id3v2.Tag, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	tag, err := id3v2.ParseReader(file, opts)
	if err != nil {
		file.Close()
		return nil, err
	}
	return tag, nil
}
