package alert

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/deepguard/internal/domain"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/report"
)

// Subject is used for every deepfake notification regardless of channel
const Subject = "SOC ALERT: Deepfake Detected"

type Message struct {
	AnalysisID uuid.UUID
	Incident   domain.Incident
	Subject    string
	Body       string
}

// NewMessage renders the plain-text notification for a FAKE incident
func NewMessage(incident domain.Incident, analysisID uuid.UUID) Message {
	var b strings.Builder
	b.WriteString("ALERT: Deepfake Detected\n\n")
	fmt.Fprintf(&b, "Risk Score: %s\n", report.FormatScore(incident.RiskScore))
	b.WriteString("Action Taken: File Isolated\n")
	fmt.Fprintf(&b, "File: %s\n", incident.FileName)
	fmt.Fprintf(&b, "Incident: %s\n", analysisID)

	return Message{
		AnalysisID: analysisID,
		Incident:   incident,
		Subject:    Subject,
		Body:       b.String(),
	}
}
