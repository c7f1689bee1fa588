package session

import "codeberg.org/snonux/odialipi/internal/history"

// Phase is the request state of a session
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseLoading:
		return "Loading"
	case PhaseSucceeded:
		return "Succeeded"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// State is a snapshot of everything a front end renders
type State struct {
	Input   string
	Output  string
	Loading bool
	Err     string
	Phase   Phase

	AutoMode bool
	Copied   bool

	// ConfigErr is a persistent notice, set when no credential is configured
	ConfigErr string

	History []history.Item
}
