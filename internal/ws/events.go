package ws

import (
	"time"
)

type EventType string

const (
	EventAnalysisCompleted EventType = "analysis.completed"
	EventAlertDispatched   EventType = "alert.dispatched"
)

type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}
