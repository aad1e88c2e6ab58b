package video

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97002997},
		{"25", 25},
		{"0/0", 0},
		{"", 0},
		{"abc/1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseFrameRate(tt.in), 1e-6)
		})
	}
}

// writeTestClip renders a small synthetic clip with ffmpeg's lavfi source
func writeTestClip(t *testing.T, frames int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.mp4")
	cmd := exec.Command("ffmpeg", "-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=size=64x48:rate=10",
		"-frames:v", strconv.Itoa(frames),
		"-pix_fmt", "yuv420p",
		path,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return path
}

func TestExecutor_DecodeGray(t *testing.T) {
	skipIfNoFFmpeg(t)

	exe, err := NewExecutor(discardLogger())
	require.NoError(t, err)

	clip := writeTestClip(t, 15)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := exe.Probe(ctx, clip)
	require.NoError(t, err)
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 48, info.Height)
	assert.InDelta(t, 10.0, info.FPS, 0.01)
	assert.InDelta(t, 1.5, info.Duration.Seconds(), 0.2)

	_, frames, err := exe.DecodeGray(ctx, clip, 12)
	require.NoError(t, err)
	require.Len(t, frames, 12)
	for _, f := range frames {
		assert.Equal(t, 64*48, len(f.Pix))
	}

	_, short, err := exe.DecodeGray(ctx, clip, 100)
	require.NoError(t, err)
	assert.Len(t, short, 15)
}

func TestExecutor_DecodeGray_NotAVideo(t *testing.T) {
	skipIfNoFFmpeg(t)

	exe, err := NewExecutor(discardLogger())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "notes.mp4")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a video"), 0o600))

	_, frames, err := exe.DecodeGray(context.Background(), path, 10)
	assert.Error(t, err)
	assert.Empty(t, frames)
}
