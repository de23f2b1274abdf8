package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideo_URL(t *testing.T) {
	video := Video{ID: "dQw4w9WgXcQ", Title: "Title", Channel: "Channel"}

	assert.Equal(t, "https://youtube.com/watch?v=dQw4w9WgXcQ", video.URL())
}

func TestVideo_Path(t *testing.T) {
	video := Video{ID: "abc123"}

	assert.Equal(t, "abc123.mp3", video.FileName())
	assert.Equal(t, filepath.Join("data", "abc123.mp3"), video.Path("data"))
	assert.Equal(t, filepath.Join("/srv/music", "abc123.mp3"), video.Path("/srv/music"))
}
