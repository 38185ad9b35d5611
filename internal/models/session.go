package models

import "time"

// Step is one visual update inside a phase.
type Step struct {
	Kind     string        `json:"kind"`
	Index    int           `json:"index"`
	Offset   time.Duration `json:"offset"`
	Progress float64       `json:"progress,omitempty"`
	RadiusKm float64       `json:"radius_km,omitempty"`
	Count    int           `json:"count,omitempty"`
	Label    string        `json:"label,omitempty"`
}

// SessionEvent is what observers of a running session receive.
type SessionEvent struct {
	SessionID string                `json:"session_id"`
	Kind      string                `json:"kind"`
	Phase     Phase                 `json:"phase,omitempty"`
	Step      *Step                 `json:"step,omitempty"`
	Driver    *AssignedDriver       `json:"driver,omitempty"`
	Estimate  *DeliveryTimeEstimate `json:"estimate,omitempty"`
	Time      time.Time             `json:"time"`
}
