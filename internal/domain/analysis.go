package domain

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is the categorical outcome of one video analysis
type Verdict string

const (
	VerdictReal    Verdict = "REAL"
	VerdictFake    Verdict = "FAKE"
	VerdictUnknown Verdict = "UNKNOWN"
)

// Action is the SOC response taken for an analysed file
type Action string

const (
	ActionIsolated Action = "Isolated"
	ActionAllowed  Action = "Allowed"
)

// ActionFor returns Isolated for FAKE verdicts and Allowed for everything else
func ActionFor(v Verdict) Action {
	if v == VerdictFake {
		return ActionIsolated
	}
	return ActionAllowed
}

// Incident is the human-readable summary of one analysis
type Incident struct {
	FileName  string  `json:"file_name"`
	Status    Verdict `json:"status"`
	RiskScore float64 `json:"risk_score"`
	Action    Action  `json:"action"`
}

// AlertOutcome reports what happened to the notification for an analysis.
// Delivery problems end up in Warning and never in an error return.
type AlertOutcome struct {
	Attempted bool   `json:"attempted"`
	Delivered bool   `json:"delivered"`
	Channel   string `json:"channel,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// Analysis is the full result of one upload. It lives for a single
// request/response cycle and is never stored.
type Analysis struct {
	ID                  uuid.UUID    `json:"id"`
	FileName            string       `json:"file_name"`
	Verdict             Verdict      `json:"verdict"`
	RiskScore           float64      `json:"risk_score"`
	MLComponent         float64      `json:"ml_component"`
	DispersionComponent float64      `json:"dispersion_component"`
	FramesSampled       int          `json:"frames_sampled"`
	MotionSamples       int          `json:"motion_samples"`
	Incident            Incident     `json:"incident"`
	Alert               AlertOutcome `json:"alert"`
	StartedAt           time.Time    `json:"started_at"`
	LatencyMs           int64        `json:"latency_ms"`
}
