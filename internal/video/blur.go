package video

// 5-tap binomial kernel, the fixed Gaussian used for 5x5 smoothing with sigma 0
var gaussianTaps = [5]uint32{1, 4, 6, 4, 1}

// GaussianBlur5 smooths a frame with a separable 5x5 Gaussian kernel.
// Borders are reflected without repeating the edge pixel (dcb|abcd|cba).
func GaussianBlur5(f Frame) Frame {
	w, h := f.Width, f.Height
	if w == 0 || h == 0 || len(f.Pix) != w*h {
		return f
	}

	// horizontal pass keeps the x16 scale
	tmp := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		row := f.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var acc uint32
			for k := -2; k <= 2; k++ {
				acc += gaussianTaps[k+2] * uint32(row[reflect101(x+k, w)])
			}
			tmp[y*w+x] = acc
		}
	}

	out := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc uint32
			for k := -2; k <= 2; k++ {
				acc += gaussianTaps[k+2] * tmp[reflect101(y+k, h)*w+x]
			}
			out.Pix[y*w+x] = uint8((acc + 128) >> 8)
		}
	}

	return out
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
