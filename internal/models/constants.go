package models

// Phase is one named stage of a driver search session.
type Phase string

const (
	PhaseSearching     Phase = "searching"
	PhaseFound         Phase = "found"
	PhaseMatched       Phase = "matched"
	PhaseTimelineShown Phase = "timeline_shown"
	PhaseComplete      Phase = "complete"
)

// Phases lists the animated phases in the order a session visits them.
var Phases = []Phase{PhaseSearching, PhaseFound, PhaseMatched, PhaseTimelineShown}

const (
	EventLoading        = "loading"
	EventPhaseStarted   = "phase_started"
	EventStep           = "step"
	EventPhaseCompleted = "phase_completed"
	EventCompleted      = "completed"

	StepOnlineDrivers  = "online_drivers"
	StepProgress       = "progress"
	StepRadius         = "radius"
	StepReveal         = "reveal"
	StepIcons          = "icons"
	StepConnection     = "connection"
	StepCheckmark      = "checkmark"
	StepMessage        = "message"
	StepOrderConfirmed = "order_confirmed"
	StepPreparing      = "preparing"
	StepDeparture      = "departure"
	StepArrival        = "arrival"

	TopicPhaseEvents       = "phase_events"
	TopicDriverAssignments = "driver_assignments"

	LoaderIdle    = "idle"
	LoaderLoading = "loading"
	LoaderReady   = "ready"

	// DepartureLeadMinutes is the delay between the estimate and the courier leaving.
	DepartureLeadMinutes = 15

	// MaxDeliveryMinutes bounds the minutes accepted by the delivery-window endpoint.
	MaxDeliveryMinutes = 24 * 60
)
