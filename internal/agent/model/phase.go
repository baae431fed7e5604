package model

// Phase is the dialogue controller state.
type Phase string

const (
	PhaseNotStarted           Phase = "not_started"
	PhaseAwaitingAvailability Phase = "awaiting_availability"
	PhaseGathering            Phase = "gathering"
	PhaseInferring            Phase = "inferring"
	PhaseScheduling           Phase = "scheduling"
	PhaseCompleted            Phase = "completed"
)

func (p Phase) String() string { return string(p) }
