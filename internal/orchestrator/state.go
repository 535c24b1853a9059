package orchestrator

import (
	"fmt"
	"slices"
)

// State is the lifecycle position of the orchestrator.
type State int

const (
	StateIdle State = iota
	StateChecking
	StateUpdateFound
	StateDownloading
	StateInstalling
	StateRestarting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateUpdateFound:
		return "update-found"
	case StateDownloading:
		return "downloading"
	case StateInstalling:
		return "installing"
	case StateRestarting:
		return "restarting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Restarting has no outgoing transitions.
var validTransitions = map[State][]State{
	StateIdle:        {StateChecking},
	StateChecking:    {StateIdle, StateUpdateFound},
	StateUpdateFound: {StateDownloading},
	StateDownloading: {StateInstalling, StateIdle},
	StateInstalling:  {StateRestarting, StateIdle},
	StateRestarting:  {},
}

func isValidTransition(from, to State) bool {
	next, ok := validTransitions[from]
	if !ok {
		return false
	}
	return slices.Contains(next, to)
}
