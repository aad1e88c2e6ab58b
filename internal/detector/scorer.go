package detector

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/saturnino-fabrica-de-software/deepguard/internal/domain"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/video"
)

const (
	// DefaultContamination is the expected share of abnormal motion samples
	DefaultContamination = 0.25
	// DefaultThreshold is the risk score above which a video is FAKE
	DefaultThreshold = 40.0
	// DefaultMinMotionSamples is the smallest motion series worth fitting
	DefaultMinMotionSamples = 10
	DefaultSeed             = 42
	DefaultEstimators       = 100

	// dispersionWeight scales the luminance standard deviation
	dispersionWeight = 2.0
	maxRisk          = 100.0
)

type Config struct {
	MinMotionSamples int
	Contamination    float64
	Threshold        float64
	Seed             uint64
	Estimators       int
}

func DefaultConfig() Config {
	return Config{
		MinMotionSamples: DefaultMinMotionSamples,
		Contamination:    DefaultContamination,
		Threshold:        DefaultThreshold,
		Seed:             DefaultSeed,
		Estimators:       DefaultEstimators,
	}
}

// Assessment is the scorer output for one frame sample
type Assessment struct {
	Verdict             domain.Verdict
	RiskScore           float64
	MLComponent         float64
	DispersionComponent float64
	FramesSampled       int
	MotionSamples       int
}

// Scorer turns a frame sample into a verdict. It holds no mutable state,
// every call builds its own seeded model.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) (*Scorer, error) {
	if cfg.MinMotionSamples < 1 {
		return nil, fmt.Errorf("min motion samples must be positive, got %d", cfg.MinMotionSamples)
	}
	if cfg.Contamination <= 0 || cfg.Contamination > 0.5 {
		return nil, fmt.Errorf("contamination must be in (0, 0.5], got %v", cfg.Contamination)
	}
	if cfg.Threshold < 0 || cfg.Threshold > maxRisk {
		return nil, fmt.Errorf("threshold must be in [0, 100], got %v", cfg.Threshold)
	}
	if cfg.Estimators <= 0 {
		cfg.Estimators = DefaultEstimators
	}
	return &Scorer{cfg: cfg}, nil
}

// Config returns the effective configuration, defaults applied
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score extracts features from frames and assesses them
func (s *Scorer) Score(frames []video.Frame) Assessment {
	return s.Assess(Extract(frames))
}

// Assess computes risk as the outlier percentage of the motion series plus
// twice the population standard deviation of luminance, clamped to [0, 100]
// and rounded to 2 decimals. Short motion series yield UNKNOWN with score 0.
func (s *Scorer) Assess(f Features) Assessment {
	a := Assessment{
		Verdict:       domain.VerdictUnknown,
		FramesSampled: len(f.Luminance),
		MotionSamples: len(f.Motion),
	}
	if len(f.Motion) < s.cfg.MinMotionSamples {
		return a
	}

	forest := NewIsolationForest(ForestOptions{
		Estimators:    s.cfg.Estimators,
		Contamination: s.cfg.Contamination,
		Seed:          s.cfg.Seed,
	})
	if err := forest.Fit(f.Motion); err != nil {
		return a
	}
	labels, err := forest.Predict(f.Motion)
	if err != nil {
		return a
	}

	var outliers int
	for _, isOutlier := range labels {
		if isOutlier {
			outliers++
		}
	}

	ml := float64(outliers) / float64(len(labels)) * 100
	dispersion := dispersionWeight * stat.PopStdDev(f.Luminance, nil)

	a.MLComponent = round2(ml)
	a.DispersionComponent = round2(dispersion)
	a.RiskScore = round2(clamp(ml+dispersion, 0, maxRisk))
	a.Verdict = Classify(a.RiskScore, s.cfg.Threshold)

	return a
}

// Classify returns FAKE when risk strictly exceeds threshold
func Classify(risk, threshold float64) domain.Verdict {
	if risk > threshold {
		return domain.VerdictFake
	}
	return domain.VerdictReal
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
