package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/deepguard/internal/alert"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/audit"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/detector"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/domain"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/metrics"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/report"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/video"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/ws"
)

type FrameSampler interface {
	Sample(ctx context.Context, path string) video.Sample
}

type RiskScorer interface {
	Score(frames []video.Frame) detector.Assessment
}

type AlertDispatcher interface {
	Dispatch(ctx context.Context, msg alert.Message) domain.AlertOutcome
}

type EventPublisher interface {
	Broadcast(eventType ws.EventType, data any)
}

// AnalysisService runs one upload through sampling, scoring and alerting.
// Analyses never overlap: a second caller waits until the first finishes
// or its context ends.
type AnalysisService struct {
	sampler    FrameSampler
	scorer     RiskScorer
	dispatcher AlertDispatcher
	publisher  EventPublisher
	auditor    audit.Logger
	logger     *slog.Logger
	scratchDir string
	slot       chan struct{}
}

func NewAnalysisService(
	sampler FrameSampler,
	scorer RiskScorer,
	dispatcher AlertDispatcher,
	publisher EventPublisher,
	logger *slog.Logger,
) *AnalysisService {
	return &AnalysisService{
		sampler:    sampler,
		scorer:     scorer,
		dispatcher: dispatcher,
		publisher:  publisher,
		auditor:    &audit.NoOpLogger{},
		logger:     logger,
		slot:       make(chan struct{}, 1),
	}
}

// WithScratchDir sets where uploads are staged; empty means the OS temp dir
func (s *AnalysisService) WithScratchDir(dir string) *AnalysisService {
	s.scratchDir = dir
	return s
}

// WithAuditor records every SOC decision through l
func (s *AnalysisService) WithAuditor(l audit.Logger) *AnalysisService {
	s.auditor = l
	return s
}

func (s *AnalysisService) Analyze(ctx context.Context, fileName string, videoBytes []byte) (*domain.Analysis, error) {
	if len(videoBytes) == 0 {
		return nil, domain.ErrInvalidVideo
	}

	select {
	case s.slot <- struct{}{}:
		defer func() { <-s.slot }()
	case <-ctx.Done():
		return nil, domain.ErrAnalysisUnavailable.WithError(ctx.Err())
	}

	start := time.Now()
	analysis := &domain.Analysis{
		ID:        uuid.New(),
		FileName:  fileName,
		StartedAt: start,
	}

	path, err := s.writeScratch(fileName, videoBytes)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", analysis.ID, err)
	}
	defer s.removeScratch(path)

	sample := s.sampler.Sample(ctx, path)
	if sample.DecodeErr != nil {
		s.logger.Warn("video could not be decoded",
			"analysis_id", analysis.ID,
			"file_name", fileName,
			"error", sample.DecodeErr,
		)
	}

	assessment := s.scorer.Score(sample.Frames)
	analysis.Verdict = assessment.Verdict
	analysis.RiskScore = assessment.RiskScore
	analysis.MLComponent = assessment.MLComponent
	analysis.DispersionComponent = assessment.DispersionComponent
	analysis.FramesSampled = assessment.FramesSampled
	analysis.MotionSamples = assessment.MotionSamples
	analysis.Incident = report.NewIncident(fileName, assessment.Verdict, assessment.RiskScore)

	if analysis.Verdict == domain.VerdictFake {
		analysis.Alert = s.dispatcher.Dispatch(ctx, alert.NewMessage(analysis.Incident, analysis.ID))
		if analysis.Alert.Attempted {
			s.publish(ws.EventAlertDispatched, analysis.Alert)
		}
	}

	elapsed := time.Since(start)
	analysis.LatencyMs = elapsed.Milliseconds()

	metrics.AnalysesTotal.WithLabelValues(string(analysis.Verdict)).Inc()
	metrics.AnalysisDuration.Observe(elapsed.Seconds())
	metrics.FramesSampled.Observe(float64(analysis.FramesSampled))
	if analysis.Verdict != domain.VerdictUnknown {
		metrics.AnalysisRiskScore.Observe(analysis.RiskScore)
	}

	s.logger.Info("analysis completed",
		"analysis_id", analysis.ID,
		"file_name", fileName,
		"verdict", analysis.Verdict,
		"risk_score", analysis.RiskScore,
		"frames", analysis.FramesSampled,
		"latency_ms", analysis.LatencyMs,
	)

	for _, event := range audit.FromAnalysis(analysis) {
		if err := s.auditor.Log(ctx, event); err != nil {
			s.logger.Warn("failed to record audit event", "analysis_id", analysis.ID, "error", err)
		}
	}

	s.publish(ws.EventAnalysisCompleted, analysis)

	return analysis, nil
}

func (s *AnalysisService) writeScratch(fileName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	f, err := os.CreateTemp(s.scratchDir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		s.removeScratch(path)
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.removeScratch(path)
		return "", fmt.Errorf("close scratch file: %w", err)
	}

	return path, nil
}

func (s *AnalysisService) removeScratch(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Error("failed to remove scratch file", "path", path, "error", err)
	}
}

func (s *AnalysisService) publish(eventType ws.EventType, data any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Broadcast(eventType, data)
}
