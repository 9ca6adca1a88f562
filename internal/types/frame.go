package types

import "time"

// Frame is the captured output of one run of the target command
type Frame struct {
	Text     string        `json:"text"`
	ExitCode int           `json:"exit_code"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the command exited with a non-zero status
func (f *Frame) Failed() bool {
	return f.ExitCode != 0
}

// SameAs reports whether two frames carry the same output and status
func (f *Frame) SameAs(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Text == other.Text && f.ExitCode == other.ExitCode
}
