package frames

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFramesRejectsNonPositiveInterval(t *testing.T) {
	e := NewExtractor()

	for _, interval := range []float64{0, -1.5} {
		samples, err := e.ExtractFrames(context.Background(), []byte("video"), interval)
		require.Error(t, err)
		assert.Nil(t, samples)
		assert.Contains(t, err.Error(), "interval must be positive")
	}
}

func TestExtractFramesRejectsEmptyPayload(t *testing.T) {
	e := NewExtractor()

	samples, err := e.ExtractFrames(context.Background(), nil, 2.0)

	require.Error(t, err)
	assert.Nil(t, samples)
}

func TestExtractFramesMissingBinary(t *testing.T) {
	e := &Extractor{FFmpegPath: "ffmpeg-binary-that-does-not-exist"}

	samples, err := e.ExtractFrames(context.Background(), []byte("video"), 2.0)

	require.Error(t, err)
	assert.Nil(t, samples)
	assert.Contains(t, err.Error(), "ffmpeg binary not found")
}

func TestExtractFramesCleansScratchOnNoFrames(t *testing.T) {
	scratchRoot := t.TempDir()
	// A no-op stand-in for ffmpeg: exits cleanly without emitting frames, so
	// the run fails with ErrNoFrames after the scratch dir has been created
	e := &Extractor{FFmpegPath: "true", ScratchRoot: scratchRoot}

	samples, err := e.ExtractFrames(context.Background(), []byte("video"), 2.0)

	require.Error(t, err)
	assert.Nil(t, samples)
	assert.ErrorIs(t, err, ErrNoFrames)

	leftovers, globErr := filepath.Glob(filepath.Join(scratchRoot, "occupancy_frames_*"))
	require.NoError(t, globErr)
	assert.Empty(t, leftovers, "scratch directory must be removed on failure")
}

func TestExtractFramesCleansScratchOnCommandFailure(t *testing.T) {
	scratchRoot := t.TempDir()
	e := &Extractor{FFmpegPath: "false", ScratchRoot: scratchRoot}

	samples, err := e.ExtractFrames(context.Background(), []byte("video"), 2.0)

	require.Error(t, err)
	assert.Nil(t, samples)
	assert.Contains(t, err.Error(), "ffmpeg command failed")

	leftovers, globErr := filepath.Glob(filepath.Join(scratchRoot, "occupancy_frames_*"))
	require.NoError(t, globErr)
	assert.Empty(t, leftovers, "scratch directory must be removed on failure")
}

func TestCollectFramesKeepsSamplingOrder(t *testing.T) {
	dir := t.TempDir()

	// Write out of creation order; the zero padded names must still sort
	payloads := map[string][]byte{
		"frame_0003.jpg": []byte("third"),
		"frame_0001.jpg": []byte("first"),
		"frame_0002.jpg": []byte("second"),
	}
	for name, data := range payloads {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}

	samples, err := collectFrames(dir)

	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, []byte("first"), samples[0].Data)
	assert.Equal(t, []byte("second"), samples[1].Data)
	assert.Equal(t, []byte("third"), samples[2].Data)
	for i, s := range samples {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, "image/jpeg", s.MimeType)
	}
}

func TestCollectFramesOrdersAcrossWidenedSequenceField(t *testing.T) {
	dir := t.TempDir()

	// Past 9999 frames ffmpeg widens the padded field and lexical order
	// would put frame_10000 before frame_9999
	payloads := map[string][]byte{
		"frame_9999.jpg":  []byte("a"),
		"frame_10000.jpg": []byte("b"),
		"frame_10001.jpg": []byte("c"),
	}
	for name, data := range payloads {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}

	samples, err := collectFrames(dir)

	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, []byte("a"), samples[0].Data)
	assert.Equal(t, []byte("b"), samples[1].Data)
	assert.Equal(t, []byte("c"), samples[2].Data)
}

func TestCollectFramesIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input_video"), []byte("raw"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame_0001.jpg"), []byte("frame"), 0644))

	samples, err := collectFrames(dir)

	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, []byte("frame"), samples[0].Data)
}

func TestCollectFramesEmptyDirectory(t *testing.T) {
	samples, err := collectFrames(t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, samples)
}
