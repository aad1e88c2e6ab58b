package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// MeterData is the progress bar shown next to a verdict
type MeterData struct {
	Value int    `json:"value" example:"72"`
	Level string `json:"level" example:"High"`
}

// DistributionData splits the score between normal and anomalous behaviour
type DistributionData struct {
	Normal  float64 `json:"normal" example:"27.5"`
	Anomaly float64 `json:"anomaly" example:"72.5"`
}

// ComponentsData holds the two terms the risk score is built from
type ComponentsData struct {
	ML         float64 `json:"ml" example:"60"`
	Dispersion float64 `json:"dispersion" example:"12.5"`
}

// IncidentData is the SOC incident summary
type IncidentData struct {
	FileName  string `json:"file_name" example:"interview.mp4"`
	Status    string `json:"status" example:"FAKE"`
	RiskScore string `json:"risk_score" example:"72.5%"`
	Action    string `json:"action" example:"Isolated"`
}

// AlertData reports what happened to the notification
type AlertData struct {
	Attempted bool   `json:"attempted" example:"true"`
	Delivered bool   `json:"delivered" example:"false"`
	Channel   string `json:"channel,omitempty" example:"smtp"`
	Warning   string `json:"warning,omitempty" example:"alert delivery timed out after 10s"`
}

// AnalysisResponse represents the result of scoring one video
type AnalysisResponse struct {
	AnalysisID    string           `json:"analysis_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Verdict       string           `json:"verdict" example:"FAKE"`
	RiskScore     float64          `json:"risk_score" example:"72.5"`
	RiskLevel     string           `json:"risk_level" example:"High"`
	Status        string           `json:"status" example:"FAKE Detected | Risk Score: 72.5%"`
	ActionTaken   string           `json:"action_taken" example:"File Isolated (alert failed)"`
	Meter         MeterData        `json:"meter"`
	Distribution  DistributionData `json:"distribution"`
	Components    ComponentsData   `json:"components"`
	FramesSampled int              `json:"frames_sampled" example:"40"`
	MotionSamples int              `json:"motion_samples" example:"39"`
	Incident      IncidentData     `json:"incident"`
	Alert         AlertData        `json:"alert"`
	LatencyMs     int64            `json:"latency_ms" example:"812"`
}

// LiveEvent is one message pushed over the live feed
type LiveEvent struct {
	Type      string `json:"type" example:"analysis.completed"`
	Timestamp string `json:"timestamp" example:"2026-01-01T00:00:00Z"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Deepguard API",
		Version:     "v1.0.0",
		Description: "Heuristic deepfake triage: upload a video, get a REAL/FAKE/UNKNOWN verdict with a risk score and SOC alerting",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/analyses - Analyze Video
		endpoint.New(
			endpoint.POST,
			"/analyses",
			endpoint.WithTags("Analyses"),
			endpoint.WithSummary("Score a video for deepfake indicators"),
			endpoint.WithDescription("Samples up to MAX_FRAMES frames from the uploaded video (multipart field 'video', .mp4/.avi/.mov), scores temporal motion anomalies and luminance dispersion, and fires a SOC alert when the verdict is FAKE. Videos that cannot be decoded come back as UNKNOWN with a zero score."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AnalysisResponse{}, "200", "Analysis completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VIDEO_TOO_LARGE", Message: "Video exceeds the maximum upload size"}, "413", "Payload Too Large"),
				response.New(ErrorResponse{Code: "UNSUPPORTED_VIDEO_TYPE", Message: "Video must be an mp4, avi or mov file"}, "415", "Unsupported Media Type"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "video field is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INVALID_VIDEO", Message: "Invalid video format or empty file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
				response.New(ErrorResponse{Code: "ANALYSIS_UNAVAILABLE", Message: "Analysis could not be started"}, "503", "Service Unavailable"),
			}),
		),

		// GET /v1/ws - Live Feed
		endpoint.New(
			endpoint.GET,
			"/ws",
			endpoint.WithTags("Live Feed"),
			endpoint.WithSummary("Subscribe to analysis events"),
			endpoint.WithDescription("WebSocket upgrade. Every connected client receives analysis.completed and alert.dispatched events as JSON."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LiveEvent{}, "101", "Switching Protocols"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "HTTP_ERROR", Message: "Upgrade Required"}, "426", "Upgrade Required"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
