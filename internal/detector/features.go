package detector

import "github.com/saturnino-fabrica-de-software/deepguard/internal/video"

// Features holds the per-frame statistics the scorer works on.
// len(Motion) is always len(Luminance)-1 when Luminance is non-empty.
type Features struct {
	Luminance []float64
	Motion    []float64
}

// Extract computes mean luminance for every frame and mean absolute
// difference for every consecutive pair. The sequence is cut at the first
// frame whose geometry differs from its predecessor.
func Extract(frames []video.Frame) Features {
	feats := Features{
		Luminance: make([]float64, 0, len(frames)),
	}
	if len(frames) > 1 {
		feats.Motion = make([]float64, 0, len(frames)-1)
	}

	for i, f := range frames {
		if i > 0 {
			prev := frames[i-1]
			if !f.SameGeometry(prev) {
				break
			}
			feats.Motion = append(feats.Motion, video.MeanAbsDiff(f, prev))
		}
		feats.Luminance = append(feats.Luminance, f.Mean())
	}

	return feats
}
