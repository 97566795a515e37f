package bot

type State string

const (
	Running State = "RUNNING"
	Halted  State = "HALTED" // terminal for the life of the process
)

// Outcome says what a single iteration did.
type Outcome string

const (
	Idle    Outcome = "idle"    // no entry signal, or nothing to size
	Traded  Outcome = "traded"  // full round trip
	Stopped Outcome = "halted"  // loss limit reached
	Skipped Outcome = "skipped" // no price this iteration
	Aborted Outcome = "aborted" // an order failed; balance untouched
)
