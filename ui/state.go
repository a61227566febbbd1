package ui

import "fmt"

// State is the position of one page view in the upload, parse, select, results flow
type State int

const (
	NoFileUploaded State = iota
	FileUploaded
	ColumnsAvailable
	ResultsDisplayed
)

func (s State) String() string {
	switch s {
	case NoFileUploaded:
		return "NoFileUploaded"
	case FileUploaded:
		return "FileUploaded"
	case ColumnsAvailable:
		return "ColumnsAvailable"
	case ResultsDisplayed:
		return "ResultsDisplayed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Event drives a state transition
type Event int

const (
	EventUpload Event = iota
	EventParsed
	EventRunTest
	EventFailed
)

func (e Event) String() string {
	switch e {
	case EventUpload:
		return "upload"
	case EventParsed:
		return "parsed"
	case EventRunTest:
		return "run-test"
	case EventFailed:
		return "failed"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Workflow selects the transition table
type Workflow int

const (
	WorkflowAlpha Workflow = iota
	WorkflowNormality
)

// Machine tracks the state of a single request. Nothing is kept between
// requests: every handler starts a fresh machine and replays the events the
// request carries.
type Machine struct {
	workflow Workflow
	state    State
}

// NewMachine starts a machine in NoFileUploaded
func NewMachine(workflow Workflow) *Machine {
	return &Machine{workflow: workflow, state: NoFileUploaded}
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Fire applies e or returns an error when e is not valid in the current state
func (m *Machine) Fire(e Event) error {
	next, ok := m.next(e)
	if !ok {
		return fmt.Errorf("invalid transition: %s on %s", e, m.state)
	}
	m.state = next
	return nil
}

func (m *Machine) next(e Event) (State, bool) {
	// a new upload always starts over and discards prior results
	if e == EventUpload {
		return FileUploaded, true
	}

	switch m.state {
	case FileUploaded:
		switch e {
		case EventParsed:
			if m.workflow == WorkflowAlpha {
				return ResultsDisplayed, true
			}
			return ColumnsAvailable, true
		case EventFailed:
			return NoFileUploaded, true
		}
	case ColumnsAvailable, ResultsDisplayed:
		if m.workflow != WorkflowNormality {
			break
		}
		switch e {
		case EventRunTest:
			return ResultsDisplayed, true
		case EventFailed:
			// a failed test keeps the parsed columns selectable
			return ColumnsAvailable, true
		}
	}
	return m.state, false
}
