package video

// Frame is a single-channel 8-bit luminance image stored row-major
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a black frame of the given size
func NewFrame(width, height int) Frame {
	return Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// Mean returns the average pixel intensity, 0 for an empty frame
func (f Frame) Mean() float64 {
	if len(f.Pix) == 0 {
		return 0
	}

	var sum uint64
	for _, p := range f.Pix {
		sum += uint64(p)
	}
	return float64(sum) / float64(len(f.Pix))
}

// SameGeometry reports whether both frames can be compared pixel by pixel
func (f Frame) SameGeometry(other Frame) bool {
	return f.Width == other.Width && f.Height == other.Height && len(f.Pix) == len(other.Pix)
}

// MeanAbsDiff returns the mean absolute per-pixel difference between two
// frames of identical geometry.
func MeanAbsDiff(a, b Frame) float64 {
	if len(a.Pix) == 0 {
		return 0
	}

	var sum uint64
	for i, p := range a.Pix {
		q := b.Pix[i]
		if p > q {
			sum += uint64(p - q)
		} else {
			sum += uint64(q - p)
		}
	}
	return float64(sum) / float64(len(a.Pix))
}
