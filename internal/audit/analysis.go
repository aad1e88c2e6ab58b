package audit

import (
	"github.com/saturnino-fabrica-de-software/deepguard/internal/domain"
)

// FromAnalysis derives the audit trail of a finished analysis: the score
// itself, the isolation of a FAKE file and the alert attempt if one was made.
func FromAnalysis(a *domain.Analysis) []Event {
	events := []Event{{
		AnalysisID: a.ID,
		EventType:  EventAnalysisScored,
		FileName:   a.FileName,
		Verdict:    string(a.Verdict),
		RiskScore:  a.RiskScore,
		Success:    a.Verdict != domain.VerdictUnknown,
	}}

	if a.Incident.Action == domain.ActionIsolated {
		events = append(events, Event{
			AnalysisID: a.ID,
			EventType:  EventFileIsolated,
			FileName:   a.FileName,
			Verdict:    string(a.Verdict),
			RiskScore:  a.RiskScore,
			Success:    true,
		})
	}

	if a.Alert.Attempted {
		events = append(events, Event{
			AnalysisID: a.ID,
			EventType:  EventAlertSent,
			FileName:   a.FileName,
			Verdict:    string(a.Verdict),
			RiskScore:  a.RiskScore,
			Channel:    a.Alert.Channel,
			Success:    a.Alert.Delivered,
			Error:      a.Alert.Warning,
		})
	}

	return events
}
