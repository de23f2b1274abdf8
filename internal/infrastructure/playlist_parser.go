package infrastructure

import (
	"strings"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// linesPerEntry is the number of lines yt-dlp prints per playlist entry:
// channel, title and id, in that order.
const linesPerEntry = 3

// ParsePlaylistOutput converts the listing printed by yt-dlp into videos.
//
// Lines are consumed in groups of three (channel, title, id). A trailing
// group with fewer than three lines is dropped. Nothing is validated, so a
// title spanning several lines shifts every following group.
func ParsePlaylistOutput(output string) []domain.Video {
	lines := splitLines(output)

	videos := make([]domain.Video, 0, len(lines)/linesPerEntry)
	for i := 0; i+linesPerEntry <= len(lines); i += linesPerEntry {
		videos = append(videos, domain.Video{
			Channel: lines[i],
			Title:   lines[i+1],
			ID:      lines[i+2],
		})
	}
	return videos
}

// splitLines splits on \n, drops a \r before it and ignores the final newline
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
