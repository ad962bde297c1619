package workflow

import (
	"github.com/mikey/email-classifier/internal/core"
)

// Phase is the coarse position of the controller in its state machine
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// State is a read-only snapshot of the workflow. Slices and pointers in a
// snapshot are copies; mutating them does not affect the controller.
type State struct {
	InputText           string
	SelectedFile        *core.FileHandle
	IsSubmitting        bool
	LastError           string
	CurrentResult       *core.ClassificationResult
	History             []core.HistoryEntry
	ActiveHistoryID     string
	LastSampleIndex     *int
	DetailOpen          bool
	CharactersRemaining int
}

// Phase derives the state machine phase from the snapshot
func (s State) Phase() Phase {
	switch {
	case s.IsSubmitting:
		return PhaseSubmitting
	case s.LastError != "":
		return PhaseFailed
	case s.CurrentResult != nil:
		return PhaseSucceeded
	default:
		return PhaseIdle
	}
}

// DisplayResult returns the result to render, or nil when there is none
// or the result carries a service error
func (s State) DisplayResult() *core.ClassificationResult {
	if s.CurrentResult == nil || s.CurrentResult.Failed() {
		return nil
	}
	return s.CurrentResult
}

// ActiveEntry returns the history entry marked active
func (s State) ActiveEntry() (core.HistoryEntry, bool) {
	if s.ActiveHistoryID == "" {
		return core.HistoryEntry{}, false
	}
	for _, e := range s.History {
		if e.ID == s.ActiveHistoryID {
			return e, true
		}
	}
	return core.HistoryEntry{}, false
}
