package worker

// Outcome classifies how a run ended.
type Outcome int

const (
	// OutcomeNone means the handle has not finished a run.
	OutcomeNone Outcome = iota
	// OutcomeCompleted means the script returned normally and results are available.
	OutcomeCompleted
	// OutcomeStopped means the stop signal was observed; the result set is empty.
	OutcomeStopped
	// OutcomeFailed means the script raised a runtime error.
	OutcomeFailed
)

// String returns a string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeStopped:
		return "stopped"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}
