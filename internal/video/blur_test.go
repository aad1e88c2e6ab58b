package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussianBlur5_UniformFrameUnchanged(t *testing.T) {
	in := filledFrame(7, 5, 100)

	out := GaussianBlur5(in)

	require.Len(t, out.Pix, len(in.Pix))
	for i, p := range out.Pix {
		assert.Equal(t, uint8(100), p, "pixel %d", i)
	}
}

func TestGaussianBlur5_Impulse(t *testing.T) {
	// 9x9 keeps the whole kernel footprint away from the borders
	in := NewFrame(9, 9)
	in.Pix[4*9+4] = 255

	out := GaussianBlur5(in)

	// centre weight is 36/256
	assert.Equal(t, uint8(36), out.Pix[4*9+4])
	// kernel corner weight is 1/256, rounds up to 1
	assert.Equal(t, uint8(1), out.Pix[2*9+2])
	assert.Equal(t, uint8(1), out.Pix[6*9+6])
	// outside the footprint
	assert.Equal(t, uint8(0), out.Pix[0])
	assert.Equal(t, uint8(0), out.Pix[1*9+4])
	// kernel is symmetric
	assert.Equal(t, out.Pix[4*9+3], out.Pix[4*9+5])
	assert.Equal(t, out.Pix[3*9+4], out.Pix[5*9+4])
}

func TestGaussianBlur5_ImpulseReflectsAtBorder(t *testing.T) {
	in := NewFrame(5, 5)
	in.Pix[2*5+2] = 255

	out := GaussianBlur5(in)

	assert.Equal(t, uint8(36), out.Pix[2*5+2])
	// reflect-101 folds the impulse into the corner twice per axis: 2*2/256
	assert.Equal(t, uint8(4), out.Pix[0])
	assert.Equal(t, uint8(4), out.Pix[4*5+4])
}

func TestGaussianBlur5_DoesNotMutateInput(t *testing.T) {
	in := NewFrame(3, 3)
	in.Pix[4] = 200

	_ = GaussianBlur5(in)

	assert.Equal(t, uint8(200), in.Pix[4])
}

func TestGaussianBlur5_TinyAndEmptyFrames(t *testing.T) {
	single := Frame{Width: 1, Height: 1, Pix: []uint8{77}}
	assert.Equal(t, []uint8{77}, GaussianBlur5(single).Pix)

	row := Frame{Width: 2, Height: 1, Pix: []uint8{50, 50}}
	assert.Equal(t, []uint8{50, 50}, GaussianBlur5(row).Pix)

	empty := Frame{}
	assert.Empty(t, GaussianBlur5(empty).Pix)
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-2, 2, 0},
		{3, 2, 1},
		{-2, 1, 0},
		{2, 1, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, reflect101(tt.i, tt.n), "reflect101(%d, %d)", tt.i, tt.n)
	}
}
