package video

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrDecoderUnavailable is reported when no ffmpeg binary was found at startup
var ErrDecoderUnavailable = errors.New("video decoder unavailable")

// Decoder turns a video file into luminance frames in native order
type Decoder interface {
	DecodeGray(ctx context.Context, path string, maxFrames int) (*Info, []Frame, error)
}

type SamplerConfig struct {
	MaxFrames     int
	DecodeTimeout time.Duration
}

// Sample is the bounded, smoothed frame sequence taken from one video
type Sample struct {
	Frames []Frame
	// Info is nil when the container could not be probed
	Info *Info
	// DecodeErr is set when the source could not be opened or decoded.
	// The frame list is empty in that case.
	DecodeErr error
}

// Sampler reads a bounded prefix of a video and smooths every frame
type Sampler struct {
	decoder Decoder
	cfg     SamplerConfig
	logger  *slog.Logger
}

// NewSampler builds a sampler. A nil decoder is allowed: every sample is
// then empty, which the scorer reports as UNKNOWN.
func NewSampler(decoder Decoder, cfg SamplerConfig, logger *slog.Logger) *Sampler {
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = 40
	}
	if cfg.DecodeTimeout <= 0 {
		cfg.DecodeTimeout = 30 * time.Second
	}
	return &Sampler{
		decoder: decoder,
		cfg:     cfg,
		logger:  logger,
	}
}

// Available reports whether a decoder is configured
func (s *Sampler) Available() bool {
	return s.decoder != nil
}

// Sample never fails. Decode problems yield an empty sample with DecodeErr set.
func (s *Sampler) Sample(ctx context.Context, path string) Sample {
	if s.decoder == nil {
		return Sample{DecodeErr: ErrDecoderUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.DecodeTimeout)
	defer cancel()

	info, frames, err := s.decoder.DecodeGray(ctx, path, s.cfg.MaxFrames)
	if err != nil {
		s.logger.Warn("video decode failed", "path", path, "error", err)
		return Sample{Info: info, DecodeErr: err}
	}

	if len(frames) > s.cfg.MaxFrames {
		frames = frames[:s.cfg.MaxFrames]
	}

	smoothed := make([]Frame, len(frames))
	for i, f := range frames {
		smoothed[i] = GaussianBlur5(f)
	}

	s.logger.Debug("video sampled", "path", path, "frames", len(smoothed))

	return Sample{Frames: smoothed, Info: info}
}
