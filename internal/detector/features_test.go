package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saturnino-fabrica-de-software/deepguard/internal/video"
)

func solidFrame(w, h int, v uint8) video.Frame {
	f := video.NewFrame(w, h)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

func TestExtract(t *testing.T) {
	t.Run("luminance and motion series", func(t *testing.T) {
		frames := []video.Frame{
			solidFrame(4, 4, 10),
			solidFrame(4, 4, 30),
			solidFrame(4, 4, 25),
		}

		f := Extract(frames)

		assert.Equal(t, []float64{10, 30, 25}, f.Luminance)
		assert.Equal(t, []float64{20, 5}, f.Motion)
	})

	t.Run("single frame has no motion", func(t *testing.T) {
		f := Extract([]video.Frame{solidFrame(2, 2, 9)})

		assert.Equal(t, []float64{9}, f.Luminance)
		assert.Empty(t, f.Motion)
	})

	t.Run("empty sample", func(t *testing.T) {
		f := Extract(nil)

		assert.Empty(t, f.Luminance)
		assert.Empty(t, f.Motion)
	})

	t.Run("stops at geometry change", func(t *testing.T) {
		frames := []video.Frame{
			solidFrame(4, 4, 10),
			solidFrame(4, 4, 12),
			solidFrame(8, 2, 50),
			solidFrame(8, 2, 50),
		}

		f := Extract(frames)

		assert.Len(t, f.Luminance, 2)
		assert.Len(t, f.Motion, 1)
	})
}
