package infrastructure

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// fakeAudio stands in for MPEG frame data; the tagger never decodes it
var fakeAudio = []byte("\xff\xfb\x90\x64 not really mpeg audio")

func writeAudioFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, fakeAudio, 0644))
	return path
}

// writeRawTag tags a file directly through id3v2, bypassing ID3Tagger
func writeRawTag(t *testing.T, path string, edit func(tag *id3v2.Tag)) {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()
	edit(tag)
	require.NoError(t, tag.Save())
}

// writeV22Audio writes an audio file carrying an ID3v2.2 tag with a TT2 title
func writeV22Audio(t *testing.T, dir, name, title string) string {
	t.Helper()
	frame := append([]byte("TT2"), 0, 0, byte(len(title)+1), 0)
	frame = append(frame, title...)
	header := []byte{'I', 'D', '3', 2, 0, 0, 0, 0, 0, byte(len(frame))}

	data := append(header, frame...)
	data = append(data, fakeAudio...)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestID3Tagger_RoundTrip(t *testing.T) {
	tagger := NewID3Tagger()
	path := writeAudioFile(t, t.TempDir(), "id1.mp3")

	require.NoError(t, tagger.WriteTag(path, "T", "A"))

	title, ok, err := tagger.ReadTagTitle(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T", title)

	info, ok, err := tagger.ReadTag(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, TagInfo{Title: "T", Artist: "A"}, info)
}

func TestID3Tagger_WritesVersion4AndKeepsAudio(t *testing.T) {
	tagger := NewID3Tagger()
	path := writeAudioFile(t, t.TempDir(), "id1.mp3")

	require.NoError(t, tagger.WriteTag(path, "Título", "Künstler"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{'I', 'D', '3', 4}))
	assert.True(t, bytes.HasSuffix(data, fakeAudio))

	info, _, err := tagger.ReadTag(path)
	require.NoError(t, err)
	assert.Equal(t, "Título", info.Title)
	assert.Equal(t, "Künstler", info.Artist)
}

func TestID3Tagger_DiscardsExistingTag(t *testing.T) {
	tagger := NewID3Tagger()
	path := writeAudioFile(t, t.TempDir(), "id1.mp3")
	writeRawTag(t, path, func(tag *id3v2.Tag) {
		tag.SetTitle("Old title")
		tag.SetAlbum("Old album")
		tag.SetGenre("Old genre")
	})

	require.NoError(t, tagger.WriteTag(path, "New title", "New artist"))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()
	assert.Equal(t, "New title", tag.Title())
	assert.Equal(t, "New artist", tag.Artist())
	assert.Empty(t, tag.Album())
	assert.Empty(t, tag.Genre())
	assert.Equal(t, 2, tag.Count())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, fakeAudio))
	assert.Equal(t, 1, bytes.Count(data, []byte("ID3")))
}

func TestID3Tagger_WriteMissingFile(t *testing.T) {
	tagger := NewID3Tagger()

	err := tagger.WriteTag(filepath.Join(t.TempDir(), "missing.mp3"), "T", "A")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTagWrite))
}

func TestID3Tagger_ReadUntaggedFile(t *testing.T) {
	tagger := NewID3Tagger()
	path := writeAudioFile(t, t.TempDir(), "partial.mp3")

	title, ok, err := tagger.ReadTagTitle(path)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, title)
}

func TestID3Tagger_ReadTagWithoutTitle(t *testing.T) {
	tagger := NewID3Tagger()
	path := writeAudioFile(t, t.TempDir(), "notitle.mp3")
	writeRawTag(t, path, func(tag *id3v2.Tag) {
		tag.SetArtist("Someone")
	})

	title, ok, err := tagger.ReadTagTitle(path)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, title)
}

func TestID3Tagger_ReadVersion22TagAsUntagged(t *testing.T) {
	tagger := NewID3Tagger()
	path := writeV22Audio(t, t.TempDir(), "old.mp3", "abc")

	info, ok, err := tagger.ReadTag(path)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, info.Title)
}
