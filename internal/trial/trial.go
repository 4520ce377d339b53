/*
PURPOSE:
  Trial State Machine. Governs one timed search attempt from start to
  target-found.

REQUIREMENTS:
  User-specified:
  - States: Idle -> Running -> Found (terminal).
  - Reject empty participant names before starting.
  - Elapsed time is fixed at the Found transition and never changes.
  - A live elapsed value is available for ticking displays.

  Implementation-discovered:
  - Trial is a value; every transition returns a new Trial so no caller ever
    observes a partially transitioned state.
  - time.Now carries a monotonic reading and Sub uses it, so wall-clock
    adjustments cannot make elapsed negative. Injected clocks get clamped.

ARCHITECTURE INTEGRATION:
  - Uses: internal/tree (Flatten, PickTarget), internal/model
  - Called by: Session (session.go), internal/engine

ERROR HANDLING:
  - ErrInvalidName, ErrNotStarted, ErrAlreadyStarted, and tree.ErrEmptyDataset
    wrapped from Start.

IMPLEMENTATION RULES:
  - No I/O, no logging, no timers.

USAGE:
  m := trial.Machine{}
  t, err := m.Start("Ada", "synthetic_data", root)
  t = m.OnSelect(t, "target_entry")

RELATED FILES:
  - internal/trial/session.go
*/

package trial

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daryltucker/tree-trial/internal/model"
	"github.com/daryltucker/tree-trial/internal/tree"
	"github.com/google/uuid"
)

var (
	ErrInvalidName    = errors.New("participant name is required")
	ErrNotStarted     = errors.New("trial has not started")
	ErrAlreadyStarted = errors.New("trial already started")
)

// State is the lifecycle position of a Trial.
type State int

const (
	Idle State = iota
	Running
	Found
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Found:
		return "FOUND"
	default:
		return "UNKNOWN"
	}
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Trial is one timed search attempt. The zero value is an Idle trial with
// no participant.
type Trial struct {
	id          string
	participant string
	dataset     string
	target      string
	labels      int
	state       State
	start       time.Time
	elapsed     time.Duration
}

func (t Trial) ID() string          { return t.id }
func (t Trial) Participant() string { return t.participant }
func (t Trial) Dataset() string     { return t.dataset }
func (t Trial) Target() string      { return t.target }
func (t Trial) State() State        { return t.state }
func (t Trial) StartTime() time.Time {
	return t.start
}

// LabelCount is the size of the label index the target was drawn from.
func (t Trial) LabelCount() int { return t.labels }

// Elapsed returns the frozen search time. ok is false until the trial is Found.
func (t Trial) Elapsed() (d time.Duration, ok bool) {
	if t.state != Found {
		return 0, false
	}
	return t.elapsed, true
}

// Record builds the result record of a Found trial.
func (t Trial) Record() (model.ResultRecord, bool) {
	if t.state != Found {
		return model.ResultRecord{}, false
	}
	return model.ResultRecord{
		Participant: t.participant,
		Dataset:     t.dataset,
		Entry:       t.target,
		Time:        t.elapsed.Seconds(),
	}, true
}

// Machine performs trial transitions. The zero value uses the system clock
// and the global random source.
type Machine struct {
	Clock Clock
	Rand  tree.IntN
}

func (m Machine) now() time.Time {
	if m.Clock == nil {
		return systemClock{}.Now()
	}
	return m.Clock.Now()
}

// New returns an Idle trial for participant.
func New(participant string) (Trial, error) {
	name := strings.TrimSpace(participant)
	if name == "" {
		return Trial{}, ErrInvalidName
	}
	return Trial{id: uuid.NewString(), participant: name, state: Idle}, nil
}

// Start creates a trial for participant and moves it straight to Running.
func (m Machine) Start(participant, dataset string, root *tree.Node) (Trial, error) {
	t, err := New(participant)
	if err != nil {
		return Trial{}, err
	}
	return m.Begin(t, dataset, root)
}

// Begin draws a target from root and moves an Idle trial to Running.
func (m Machine) Begin(t Trial, dataset string, root *tree.Node) (Trial, error) {
	if t.participant == "" {
		return Trial{}, ErrInvalidName
	}
	if t.state != Idle {
		return Trial{}, fmt.Errorf("begin trial %s in state %s: %w", t.id, t.state, ErrAlreadyStarted)
	}

	labels := tree.Flatten(root)
	target, err := tree.PickTarget(labels, m.Rand)
	if err != nil {
		return Trial{}, fmt.Errorf("dataset %q: %w", dataset, err)
	}

	t.dataset = dataset
	t.target = target
	t.labels = len(labels)
	t.start = m.now()
	t.state = Running
	return t, nil
}

// OnSelect handles one selection event. It returns t unchanged unless t is
// Running and label matches the target exactly.
func (m Machine) OnSelect(t Trial, label string) Trial {
	if t.state != Running || label != t.target {
		return t
	}
	t.elapsed = since(t.start, m.now())
	t.state = Found
	return t
}

// ElapsedForDisplay returns the live time while Running and the frozen time
// once Found.
func (m Machine) ElapsedForDisplay(t Trial) (time.Duration, error) {
	switch t.state {
	case Running:
		return since(t.start, m.now()), nil
	case Found:
		return t.elapsed, nil
	default:
		return 0, ErrNotStarted
	}
}

func since(start, now time.Time) time.Duration {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}
