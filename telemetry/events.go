// Package telemetry provides frame statistics, phase transition records and
// performance timing for the particle animation.
package telemetry

// Transition records a phase change.
type Transition struct {
	Frame     int     `csv:"frame"`
	From      string  `csv:"from"`
	To        string  `csv:"to"`
	ElapsedMS float64 `csv:"elapsed_ms"`
	Remaining float64 `csv:"remaining"` // Summed distance to targets when the change happened
}

// NewTransition creates a transition record.
func NewTransition(frame int, from, to string, elapsedMS, remaining float64) Transition {
	return Transition{
		Frame:     frame,
		From:      from,
		To:        to,
		ElapsedMS: elapsedMS,
		Remaining: remaining,
	}
}
