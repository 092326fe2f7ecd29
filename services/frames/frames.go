package frames

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoFrames is returned when the media tool exits cleanly but produces no
// still images (empty or corrupt video, or one shorter than a single interval).
var ErrNoFrames = errors.New("no frames could be extracted from the video")

// FrameSample is one still image taken from the uploaded video. Samples are
// ephemeral: they live for the duration of a single pipeline run.
type FrameSample struct {
	Index    int
	Data     []byte
	MimeType string
}

// Extractor extracts still frames from a video at a fixed time interval by
// shelling out to ffmpeg.
type Extractor struct {
	FFmpegPath  string        // ffmpeg binary, defaults to "ffmpeg" on PATH
	Timeout     time.Duration // upper bound for one ffmpeg invocation
	ScratchRoot string        // parent of per-run scratch dirs, defaults to os.TempDir()
}

// NewExtractor creates an extractor configured from the environment
func NewExtractor() *Extractor {
	path := os.Getenv("FFMPEG_PATH")
	if path == "" {
		path = "ffmpeg"
	}
	return &Extractor{
		FFmpegPath: path,
		Timeout:    2 * time.Minute,
	}
}

// ExtractFrames decodes videoBytes and emits one frame per intervalSeconds,
// in sampling order. Scratch files are confined to a per-run directory and
// removed on every exit path.
func (e *Extractor) ExtractFrames(ctx context.Context, videoBytes []byte, intervalSeconds float64) ([]FrameSample, error) {
	if intervalSeconds <= 0 {
		return nil, fmt.Errorf("frame interval must be positive, got %g", intervalSeconds)
	}
	if len(videoBytes) == 0 {
		return nil, errors.New("empty video payload")
	}

	binary := e.FFmpegPath
	if binary == "" {
		binary = "ffmpeg"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("ffmpeg binary not found: %w", err)
	}

	scratchRoot := e.ScratchRoot
	if scratchRoot == "" {
		scratchRoot = os.TempDir()
	}

	// Per-run scratch namespace, never shared between concurrent runs
	scratchDir := filepath.Join(scratchRoot, "occupancy_frames_"+uuid.NewString())
	if err := os.MkdirAll(scratchDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratchDir)

	videoPath := filepath.Join(scratchDir, "input_video")
	if err := os.WriteFile(videoPath, videoBytes, 0644); err != nil {
		return nil, fmt.Errorf("failed to write video to scratch directory: %w", err)
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	framePattern := filepath.Join(scratchDir, "frame_%04d.jpg")
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%g", intervalSeconds),
		framePattern,
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg command failed: %w\nOutput: %s", err, stderr.String())
	}

	samples, err := collectFrames(scratchDir)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoFrames
	}

	return samples, nil
}

// collectFrames loads the emitted frame files in sampling order. ffmpeg
// widens the zero padded sequence field past 9999 frames, so the names are
// sorted by their numeric sequence rather than lexically.
func collectFrames(scratchDir string) ([]FrameSample, error) {
	paths, err := filepath.Glob(filepath.Join(scratchDir, "frame_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted frames: %w", err)
	}
	sort.Slice(paths, func(i, j int) bool {
		return frameNumber(paths[i]) < frameNumber(paths[j])
	})

	samples := make([]FrameSample, 0, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read extracted frame %s: %w", filepath.Base(path), err)
		}
		samples = append(samples, FrameSample{
			Index:    i,
			Data:     data,
			MimeType: "image/jpeg",
		})
	}

	return samples, nil
}

// frameNumber parses the sequence number ffmpeg encoded in a frame file name
func frameNumber(path string) int {
	name := strings.TrimSuffix(filepath.Base(path), ".jpg")
	n, err := strconv.Atoi(strings.TrimPrefix(name, "frame_"))
	if err != nil {
		return 0
	}
	return n
}
