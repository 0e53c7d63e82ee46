// Package flow models the application state machine. Exactly one generation
// may be in flight at a time: a submit is only legal from Idle and moves the
// machine to Loading in the same locked step, so a concurrent submit always
// observes Loading and is rejected.
package flow

import (
	"fmt"
	"sync"
)

type State int

const (
	Landing State = iota
	Idle
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Landing:
		return "landing"
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrBusy reports a submit or reset attempted while a generation is in
// flight.
var ErrBusy = fmt.Errorf("a generation is already in progress")

type Machine struct {
	mu    sync.Mutex
	state State
}

// NewMachine starts at Landing.
func NewMachine() *Machine {
	return &Machine{state: Landing}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start moves Landing to Idle.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Landing {
		return fmt.Errorf("cannot start from %s", m.state)
	}
	m.state = Idle
	return nil
}

// Submit moves Idle to Loading. Any other state rejects the submit; Loading
// rejects it as busy.
func (m *Machine) Submit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case Idle:
		m.state = Loading
		return nil
	case Loading:
		return ErrBusy
	default:
		return fmt.Errorf("cannot submit from %s", m.state)
	}
}

// Succeed moves Loading to Success.
func (m *Machine) Succeed() error {
	return m.finish(Success)
}

// Fail moves Loading to Error.
func (m *Machine) Fail() error {
	return m.finish(Error)
}

func (m *Machine) finish(next State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Loading {
		return fmt.Errorf("cannot finish from %s", m.state)
	}
	m.state = next
	return nil
}

// Reset returns to Idle from Success (explicit reset) or Error (retry).
// Resetting an already-Idle machine is a harmless no-op; resetting while
// Loading is rejected so an in-flight request cannot be raced.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case Success, Error, Idle:
		m.state = Idle
		return nil
	case Loading:
		return ErrBusy
	default:
		return fmt.Errorf("cannot reset from %s", m.state)
	}
}
