package video

import (
	"errors"
	"fmt"
	"io"
)

const bytesPerRGBPixel = 3

// GrayFromRGB24 converts one packed rgb24 frame to luminance using the
// BT.601 weights in 14-bit fixed point.
func GrayFromRGB24(buf []byte, width, height int) Frame {
	f := NewFrame(width, height)
	for i := range f.Pix {
		r := uint32(buf[i*3])
		g := uint32(buf[i*3+1])
		b := uint32(buf[i*3+2])
		f.Pix[i] = uint8((r*4899 + g*9617 + b*1868 + 8192) >> 14)
	}
	return f
}

// ReadFrames reads up to max packed rgb24 frames of the given size from r and
// returns them as luminance frames. A truncated trailing frame is dropped.
func ReadFrames(r io.Reader, width, height, max int) ([]Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	buf := make([]byte, width*height*bytesPerRGBPixel)
	frames := make([]Frame, 0, max)

	for len(frames) < max {
		_, err := io.ReadFull(r, buf)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return frames, fmt.Errorf("read frame %d: %w", len(frames), err)
		}
		frames = append(frames, GrayFromRGB24(buf, width, height))
	}

	return frames, nil
}
