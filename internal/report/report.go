// Package report derives the human-facing view of an analysis: risk meter,
// normal/anomaly distribution, status line and incident summary.
package report

import (
	"math"
	"strconv"

	"github.com/saturnino-fabrica-de-software/deepguard/internal/domain"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

const (
	mediumRiskFrom = 30.0
	highRiskFrom   = 50.0
)

// LevelFor buckets a risk score
func LevelFor(score float64) RiskLevel {
	switch {
	case score < mediumRiskFrom:
		return RiskLow
	case score < highRiskFrom:
		return RiskMedium
	default:
		return RiskHigh
	}
}

type Meter struct {
	Value int       `json:"value"`
	Level RiskLevel `json:"level"`
}

func NewMeter(score float64) Meter {
	v := int(math.Max(0, math.Min(score, 100)))
	return Meter{Value: v, Level: LevelFor(score)}
}

// Distribution splits 100% between normal and anomalous behaviour
type Distribution struct {
	Normal  float64 `json:"normal"`
	Anomaly float64 `json:"anomaly"`
}

func NewDistribution(score float64) Distribution {
	return Distribution{
		Normal:  math.Round((100-score)*100) / 100,
		Anomaly: score,
	}
}

// FormatScore renders a risk score the way it is shown to operators, with
// the shortest decimal form: 0 -> "0%", 12.5 -> "12.5%"
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "%"
}

func StatusMessage(v domain.Verdict, score float64) string {
	switch v {
	case domain.VerdictFake:
		return "FAKE Detected | Risk Score: " + FormatScore(score)
	case domain.VerdictReal:
		return "REAL Video | Risk Score: " + FormatScore(score)
	default:
		return "Not enough data to analyze"
	}
}

// ActionMessage describes the SOC response, including how the alert went
func ActionMessage(v domain.Verdict, alert domain.AlertOutcome) string {
	if v != domain.VerdictFake {
		return "No action required"
	}
	switch {
	case alert.Delivered:
		return "Alert Sent & File Isolated"
	case alert.Attempted:
		return "File Isolated (alert failed)"
	default:
		return "File Isolated"
	}
}

// NewIncident builds the incident record for an assessed file
func NewIncident(fileName string, v domain.Verdict, score float64) domain.Incident {
	return domain.Incident{
		FileName:  fileName,
		Status:    v,
		RiskScore: score,
		Action:    domain.ActionFor(v),
	}
}

type IncidentSummary struct {
	FileName  string         `json:"file_name"`
	Status    domain.Verdict `json:"status"`
	RiskScore string         `json:"risk_score"`
	Action    domain.Action  `json:"action"`
}

type Summary struct {
	Status       string          `json:"status"`
	ActionTaken  string          `json:"action_taken"`
	Meter        Meter           `json:"meter"`
	Distribution Distribution    `json:"distribution"`
	Incident     IncidentSummary `json:"incident"`
}

// Build derives every presentation element from a finished analysis
func Build(a *domain.Analysis) Summary {
	return Summary{
		Status:       StatusMessage(a.Verdict, a.RiskScore),
		ActionTaken:  ActionMessage(a.Verdict, a.Alert),
		Meter:        NewMeter(a.RiskScore),
		Distribution: NewDistribution(a.RiskScore),
		Incident: IncidentSummary{
			FileName:  a.Incident.FileName,
			Status:    a.Incident.Status,
			RiskScore: FormatScore(a.Incident.RiskScore),
			Action:    a.Incident.Action,
		},
	}
}
