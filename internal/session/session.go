// Package session implements the typing-test state machine.
package session

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/verte-zerg/bunbuntype/internal/countdown"
	"github.com/verte-zerg/bunbuntype/internal/model"
	"github.com/verte-zerg/bunbuntype/internal/queue"
	"github.com/verte-zerg/bunbuntype/internal/stats"
)

// ErrNoAttempt marks a finished session that produced no record.
var ErrNoAttempt = errors.New("no attempt recorded")

// ErrNoQueue is returned by New when no word queue is supplied.
var ErrNoQueue = errors.New("session needs a word queue")

// State is the phase of a typing session.
type State int

const (
	NotStarted State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Recorder persists finished session scores.
type Recorder interface {
	Append(rec model.ScoreRecord) error
}

// Outcome is the result of finalizing a session.
type Outcome struct {
	// Record is nil when scoring failed.
	Record *model.ScoreRecord
	// ScoreErr wraps ErrNoAttempt when no record was produced.
	ScoreErr error
	// SaveErr is set when the recorder rejected the record.
	SaveErr error
}

// Recorded reports whether a record was produced.
func (o Outcome) Recorded() bool {
	return o.Record != nil
}

// Saved reports whether the record reached the recorder without error.
func (o Outcome) Saved() bool {
	return o.Record != nil && o.SaveErr == nil
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	State       State
	CurrentWord string
	Upcoming    []string
	Input       string
	Correct     int
	Incorrect   int
	Remaining   time.Duration
	Duration    time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the clock used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithPreview sets how many words after the current one appear in snapshots.
func WithPreview(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.preview = n
		}
	}
}

// Session drives one play-through. It is not safe for concurrent use; all
// calls are expected from a single input loop.
type Session struct {
	state     State
	words     *queue.Queue
	timer     countdown.Countdown
	input     []rune
	correct   int
	incorrect int

	recorder Recorder
	now      func() time.Time
	preview  int
	outcome  *Outcome
}

// New creates a session over words. recorder may be nil, in which case
// finished records are produced but not persisted.
func New(words *queue.Queue, recorder Recorder, opts ...Option) (*Session, error) {
	if words == nil {
		return nil, ErrNoQueue
	}
	s := &Session{
		words:    words,
		recorder: recorder,
		now:      time.Now,
		preview:  10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start reshuffles the words and starts the countdown.
func (s *Session) Start(d time.Duration) error {
	if s.state != NotStarted {
		return s.invalid("start")
	}
	var timer countdown.Countdown
	if err := timer.Start(d); err != nil {
		return err
	}
	s.words.Reshuffle()
	s.timer = timer
	s.input = s.input[:0]
	s.correct = 0
	s.incorrect = 0
	s.state = Running
	return nil
}

// OnTick advances the countdown by elapsed and finishes the session when it
// expires. The returned bool reports whether this tick finished it.
func (s *Session) OnTick(elapsed time.Duration) (bool, error) {
	if s.state != Running {
		return false, s.invalid("tick")
	}
	if err := s.timer.Tick(elapsed); err != nil {
		return false, err
	}
	if !s.timer.Expired() {
		return false, nil
	}
	s.finalize()
	return true, nil
}

// TypeCharacter appends r to the input buffer. Whitespace clears the buffer
// instead of submitting it.
func (s *Session) TypeCharacter(r rune) error {
	if s.state != Running {
		return s.invalid("type")
	}
	if unicode.IsSpace(r) {
		s.input = s.input[:0]
		return nil
	}
	s.input = append(s.input, r)
	return nil
}

// BackspaceCommit judges the input buffer against the current word, counts
// the word's characters as correct or incorrect, and clears the buffer.
func (s *Session) BackspaceCommit() error {
	if s.state != Running {
		return s.invalid("commit")
	}
	word := s.words.Current()
	n := len([]rune(word))
	if s.words.Commit(string(s.input)) {
		s.correct += n
	} else {
		s.incorrect += n
	}
	s.input = s.input[:0]
	return nil
}

// State returns the current phase.
func (s *Session) State() State {
	return s.state
}

// Outcome returns the finalization result once the session is finished.
func (s *Session) Outcome() (Outcome, bool) {
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

// Snapshot returns the state needed to render the session.
func (s *Session) Snapshot() Snapshot {
	upcoming := s.words.Peek(s.preview + 1)
	return Snapshot{
		State:       s.state,
		CurrentWord: upcoming[0],
		Upcoming:    upcoming[1:],
		Input:       string(s.input),
		Correct:     s.correct,
		Incorrect:   s.incorrect,
		Remaining:   s.timer.Remaining(),
		Duration:    s.timer.Duration(),
	}
}

// finalize scores the run over its full configured duration. A partially
// typed word is discarded.
func (s *Session) finalize() {
	s.state = Finished
	out := &Outcome{}
	s.outcome = out

	duration := s.timer.Duration()
	minutes := duration.Minutes()
	typed := float64(s.correct + s.incorrect)
	correct := float64(s.correct)

	awpm, err := stats.AdjustedSpeed(typed, minutes, correct)
	if err != nil {
		out.ScoreErr = fmt.Errorf("%w: %w", ErrNoAttempt, err)
		return
	}
	wpm, err := stats.Speed(typed, minutes)
	if err != nil {
		out.ScoreErr = fmt.Errorf("%w: %w", ErrNoAttempt, err)
		return
	}
	acc, err := stats.Accuracy(typed, correct)
	if err != nil {
		out.ScoreErr = fmt.Errorf("%w: %w", ErrNoAttempt, err)
		return
	}
	rec := model.ScoreRecord{
		WPM:      wpm,
		Accuracy: acc,
		Duration: duration.Seconds(),
		AWPM:     awpm,
		DateTime: s.now(),
	}
	out.Record = &rec
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Append(rec); err != nil {
		out.SaveErr = fmt.Errorf("result not saved: %w", err)
	}
}

func (s *Session) invalid(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", model.ErrInvalidState, op, s.state)
}
