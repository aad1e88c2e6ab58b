package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/deepguard/internal/domain"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/report"
)

const videoField = "video"

var validVideoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
}

// AnalysisService runs one upload through sampling, scoring and alerting
type AnalysisService interface {
	Analyze(ctx context.Context, fileName string, videoBytes []byte) (*domain.Analysis, error)
}

// AnalysisHandler handles video analysis requests
type AnalysisHandler struct {
	service  AnalysisService
	maxBytes int64
	logger   *slog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler instance
func NewAnalysisHandler(service AnalysisService, maxBytes int64, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:  service,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// ComponentsResponse exposes the two terms the risk score is built from
type ComponentsResponse struct {
	ML         float64 `json:"ml"`
	Dispersion float64 `json:"dispersion"`
}

// AnalysisResponse response for analyze endpoint
type AnalysisResponse struct {
	AnalysisID    string                 `json:"analysis_id"`
	Verdict       domain.Verdict         `json:"verdict"`
	RiskScore     float64                `json:"risk_score"`
	RiskLevel     report.RiskLevel       `json:"risk_level"`
	Status        string                 `json:"status"`
	ActionTaken   string                 `json:"action_taken"`
	Meter         report.Meter           `json:"meter"`
	Distribution  report.Distribution    `json:"distribution"`
	Components    ComponentsResponse     `json:"components"`
	FramesSampled int                    `json:"frames_sampled"`
	MotionSamples int                    `json:"motion_samples"`
	Incident      report.IncidentSummary `json:"incident"`
	Alert         domain.AlertOutcome    `json:"alert"`
	LatencyMs     int64                  `json:"latency_ms"`
}

// Analyze POST /v1/analyses - score an uploaded video
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	// 1. Extract and validate video
	fileName, videoBytes, err := h.extractAndValidateVideo(c)
	if err != nil {
		return fmt.Errorf("analyze video: %w", err)
	}

	// 2. Run the pipeline
	analysis, err := h.service.Analyze(c.UserContext(), fileName, videoBytes)
	if err != nil {
		return err
	}

	// 3. Return response
	return c.JSON(newAnalysisResponse(analysis))
}

func newAnalysisResponse(a *domain.Analysis) AnalysisResponse {
	summary := report.Build(a)

	return AnalysisResponse{
		AnalysisID:   a.ID.String(),
		Verdict:      a.Verdict,
		RiskScore:    a.RiskScore,
		RiskLevel:    summary.Meter.Level,
		Status:       summary.Status,
		ActionTaken:  summary.ActionTaken,
		Meter:        summary.Meter,
		Distribution: summary.Distribution,
		Components: ComponentsResponse{
			ML:         a.MLComponent,
			Dispersion: a.DispersionComponent,
		},
		FramesSampled: a.FramesSampled,
		MotionSamples: a.MotionSamples,
		Incident:      summary.Incident,
		Alert:         a.Alert,
		LatencyMs:     a.LatencyMs,
	}
}

func (h *AnalysisHandler) extractAndValidateVideo(c *fiber.Ctx) (string, []byte, error) {
	// 1. Extract file
	file, err := c.FormFile(videoField)
	if err != nil {
		return "", nil, domain.ErrValidationFailed.WithError(fmt.Errorf("%s field is required: %w", videoField, err))
	}

	// 2. Validate extension
	name := filepath.Base(file.Filename)
	if !validVideoExtensions[strings.ToLower(filepath.Ext(name))] {
		return "", nil, domain.ErrUnsupportedVideoType.WithError(fmt.Errorf("extension %q", filepath.Ext(name)))
	}

	// 3. Validate size
	if file.Size == 0 {
		return "", nil, domain.ErrInvalidVideo.WithError(errors.New("empty file"))
	}

	if h.maxBytes > 0 && file.Size > h.maxBytes {
		return "", nil, domain.ErrVideoTooLarge.WithError(fmt.Errorf("%d bytes", file.Size))
	}

	// 4. Read video bytes
	f, err := file.Open()
	if err != nil {
		return "", nil, domain.ErrInvalidVideo.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	videoBytes, err := io.ReadAll(f)
	if err != nil {
		return "", nil, domain.ErrInvalidVideo.WithError(err)
	}

	h.logger.Debug("video received",
		slog.String("file_name", name),
		slog.Int64("size", file.Size),
	)

	return name, videoBytes, nil
}
