package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrNoVideoStream is returned when the container holds no decodable video stream
var ErrNoVideoStream = errors.New("no video stream found")

// Executor runs ffprobe/ffmpeg to inspect and decode uploaded videos
type Executor struct {
	logger      *slog.Logger
	ffmpegPath  string
	ffprobePath string
}

// NewExecutor resolves both binaries from PATH
func NewExecutor(logger *slog.Logger) (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger.With("component", "ffmpeg"),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}, nil
}

// Info is the subset of ffprobe metadata needed for raw decoding
type Info struct {
	Width    int
	Height   int
	FPS      float64
	Duration time.Duration
	Codec    string
}

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe returns the geometry of the first video stream in path
func (e *Executor) Probe(ctx context.Context, path string) (*Info, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is required")
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0",
		path,
	}

	output, err := exec.CommandContext(ctx, e.ffprobePath, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	for _, s := range probe.Streams {
		if s.CodecType != "video" || s.Width <= 0 || s.Height <= 0 {
			continue
		}
		info := &Info{
			Width:  s.Width,
			Height: s.Height,
			FPS:    ParseFrameRate(s.RFrameRate),
			Codec:  s.CodecName,
		}
		if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			info.Duration = time.Duration(dur * float64(time.Second))
		}
		return info, nil
	}

	return nil, ErrNoVideoStream
}

// StreamRGB decodes at most maxFrames frames of path as packed rgb24 and
// hands the raw stdout stream to fn. Whatever fn leaves unread is drained
// before the process is reaped.
func (e *Executor) StreamRGB(ctx context.Context, path string, maxFrames int, fn func(io.Reader) error) error {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-noautorotate",
		"-i", path,
		"-map", "0:v:0",
		"-frames:v", strconv.Itoa(maxFrames),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	}

	e.logger.Debug("executing ffmpeg", "args", args)

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	fnErr := fn(stdout)
	_, _ = io.Copy(io.Discard, stdout)

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("ffmpeg decode failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return fnErr
}

// DecodeGray probes path and decodes up to maxFrames luminance frames
func (e *Executor) DecodeGray(ctx context.Context, path string, maxFrames int) (*Info, []Frame, error) {
	info, err := e.Probe(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	var frames []Frame
	err = e.StreamRGB(ctx, path, maxFrames, func(r io.Reader) error {
		var readErr error
		frames, readErr = ReadFrames(r, info.Width, info.Height, maxFrames)
		return readErr
	})
	if err != nil {
		// frames already read before a late decoder error are still usable
		if len(frames) > 0 && ctx.Err() == nil {
			e.logger.Warn("ffmpeg exited with error after partial decode",
				"frames", len(frames),
				"error", err,
			)
			return info, frames, nil
		}
		return info, nil, err
	}

	return info, frames, nil
}

// ParseFrameRate converts an ffprobe rational like "30000/1001" to fps
func ParseFrameRate(rate string) float64 {
	num, den, found := strings.Cut(rate, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
