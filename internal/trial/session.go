package trial

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/daryltucker/tree-trial/internal/model"
)

// Recorder persists finished trials. *output.Store satisfies it.
type Recorder interface {
	Append(ctx context.Context, rec model.ResultRecord) error
}

// Session owns the single active trial and serializes selection events
// against display reads.
type Session struct {
	mu       sync.Mutex
	machine  Machine
	current  Trial
	recorder Recorder
	recorded bool
}

// NewSession wraps an already started trial. recorder may be nil.
func NewSession(m Machine, t Trial, recorder Recorder) *Session {
	return &Session{machine: m, current: t, recorder: recorder}
}

// Trial returns a snapshot of the current trial.
func (s *Session) Trial() Trial {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Select applies a selection event. found reports whether this call moved
// the trial to Found; the record is appended exactly once, on that call.
// If persisting fails the trial stays Found, the error is returned and
// Flush can retry the append.
func (s *Session) Select(ctx context.Context, label string) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.current.state
	s.current = s.machine.OnSelect(s.current, label)
	if before == Found || s.current.state != Found {
		return false, nil
	}

	return true, s.record(ctx)
}

// Flush appends the record of a Found trial whose earlier append failed.
// It is a no-op when the record is already stored or the trial is not Found.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.state != Found {
		return nil
	}
	return s.record(ctx)
}

// Recorded reports whether the trial's record has been appended.
func (s *Session) Recorded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorded
}

func (s *Session) record(ctx context.Context) error {
	if s.recorder == nil || s.recorded {
		return nil
	}
	rec, _ := s.current.Record()
	if err := s.recorder.Append(ctx, rec); err != nil {
		return fmt.Errorf("record trial %s: %w", s.current.id, err)
	}
	s.recorded = true
	return nil
}

// Elapsed returns the display time of the current trial.
func (s *Session) Elapsed() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.ElapsedForDisplay(s.current)
}
