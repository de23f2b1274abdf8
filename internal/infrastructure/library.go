package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// DirLibrary implements domain.Library on a plain directory of <id>.mp3 files
type DirLibrary struct {
	dir    string
	tagger domain.Tagger
	logger *zap.Logger
}

// NewDirLibrary creates a library rooted at dir
func NewDirLibrary(dir string, tagger domain.Tagger, logger *zap.Logger) *DirLibrary {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirLibrary{
		dir:    dir,
		tagger: tagger,
		logger: logger,
	}
}

// Dir returns the library directory
func (l *DirLibrary) Dir() string {
	return l.dir
}

// Ensure creates the directory when it is missing. When it already exists,
// leftovers of interrupted runs are removed: every entry that is not an
// .mp3 file, and every .mp3 file whose tag has no title.
func (l *DirLibrary) Ensure() error {
	info, err := os.Stat(l.dir)
	if os.IsNotExist(err) {
		l.logger.Info("Data dir does not exist, creating it", zap.String("dir", l.dir))
		if err := os.MkdirAll(l.dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", l.dir)
	}

	return l.cleanup()
}

// cleanup removes every entry that does not look like a finished download
func (l *DirLibrary) cleanup() error {
	l.logger.Info("Cleaning up data dir", zap.String("dir", l.dir))

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("failed to read data directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		path := filepath.Join(l.dir, entry.Name())

		keep, err := l.isFinished(entry)
		if err != nil {
			return err
		}
		if keep {
			continue
		}

		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		l.logger.Debug("Removed leftover", zap.String("path", path))
		removed++
	}

	l.logger.Info("Data dir cleaned up", zap.Int("removed", removed), zap.Int("kept", len(entries)-removed))
	return nil
}

// isFinished reports whether entry is a tagged audio file with a title
func (l *DirLibrary) isFinished(entry os.DirEntry) (bool, error) {
	if entry.IsDir() || !strings.HasSuffix(entry.Name(), domain.AudioExtension) {
		return false, nil
	}

	// Partially downloaded files carry no tag, or a tag without a title
	title, ok, err := l.tagger.ReadTagTitle(filepath.Join(l.dir, entry.Name()))
	if err != nil {
		return false, err
	}
	return ok && title != "", nil
}

// Exists reports whether the video's audio file is present
func (l *DirLibrary) Exists(video domain.Video) bool {
	_, err := os.Stat(video.Path(l.dir))
	return err == nil
}

// RemoveArtifacts deletes <id>.* left behind by a failed download
func (l *DirLibrary) RemoveArtifacts(videoID string) error {
	matches, err := filepath.Glob(filepath.Join(l.dir, escapeGlob(videoID)+".*"))
	if err != nil {
		return fmt.Errorf("failed to list artifacts of %s: %w", videoID, err)
	}

	for _, path := range matches {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		l.logger.Debug("Removed artifact", zap.String("path", path))
	}
	return nil
}

// escapeGlob escapes glob metacharacters in a video ID
func escapeGlob(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)
	return replacer.Replace(s)
}
