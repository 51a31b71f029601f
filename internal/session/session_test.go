package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/bunbuntype/internal/model"
	"github.com/verte-zerg/bunbuntype/internal/queue"
)

type identity struct{}

func (identity) Shuffle(int, func(i, j int)) {}

type memRecorder struct {
	records []model.ScoreRecord
	err     error
}

func (m *memRecorder) Append(rec model.ScoreRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

var fixedNow = time.Date(2024, 2, 3, 4, 5, 6, 0, time.Local)

func newSession(t *testing.T, vocab []string, rec Recorder) (*Session, *queue.Queue) {
	t.Helper()
	q, err := queue.New(vocab, identity{})
	require.NoError(t, err)
	s, err := New(q, rec, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return s, q
}

func typeWord(t *testing.T, s *Session, word string) {
	t.Helper()
	for _, r := range word {
		require.NoError(t, s.TypeCharacter(r))
	}
}

func TestNewRequiresQueue(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrNoQueue)
	assert.NotErrorIs(t, err, model.ErrEmptyVocabulary)
}

func TestCatDogScenario(t *testing.T) {
	s, q := newSession(t, []string{"cat", "dog"}, nil)
	require.NoError(t, s.Start(time.Minute))

	typeWord(t, s, "cat")
	require.NoError(t, s.BackspaceCommit())
	assert.Equal(t, []string{"dog", "cat"}, q.Words())
	snap := s.Snapshot()
	assert.Equal(t, 3, snap.Correct)
	assert.Equal(t, 0, snap.Incorrect)
	assert.Equal(t, "", snap.Input)

	typeWord(t, s, "dig")
	require.NoError(t, s.BackspaceCommit())
	assert.Equal(t, []string{"cat", "dog"}, q.Words())
	snap = s.Snapshot()
	assert.Equal(t, 3, snap.Correct)
	assert.Equal(t, 3, snap.Incorrect)
}

func TestWhitespaceClearsBuffer(t *testing.T) {
	s, q := newSession(t, []string{"cat"}, nil)
	require.NoError(t, s.Start(time.Minute))
	typeWord(t, s, "ca")
	require.NoError(t, s.TypeCharacter(' '))
	assert.Equal(t, "", s.Snapshot().Input)
	assert.Equal(t, 1, q.Len())

	typeWord(t, s, "cat")
	require.NoError(t, s.TypeCharacter('\t'))
	require.NoError(t, s.BackspaceCommit())
	assert.Equal(t, 3, s.Snapshot().Incorrect)
}

func TestCommitCountsRunes(t *testing.T) {
	s, _ := newSession(t, []string{"café"}, nil)
	require.NoError(t, s.Start(time.Minute))
	typeWord(t, s, "café")
	require.NoError(t, s.BackspaceCommit())
	assert.Equal(t, 4, s.Snapshot().Correct)
}

func TestOperationsBeforeStart(t *testing.T) {
	s, _ := newSession(t, []string{"cat"}, nil)
	assert.ErrorIs(t, s.TypeCharacter('c'), model.ErrInvalidState)
	assert.ErrorIs(t, s.BackspaceCommit(), model.ErrInvalidState)
	_, err := s.OnTick(time.Second)
	assert.ErrorIs(t, err, model.ErrInvalidState)
	assert.Equal(t, NotStarted, s.State())
	assert.Equal(t, 0, s.Snapshot().Incorrect)
}

func TestStartRejectsZeroDuration(t *testing.T) {
	s, _ := newSession(t, []string{"cat"}, nil)
	assert.ErrorIs(t, s.Start(0), model.ErrDomain)
	assert.Equal(t, NotStarted, s.State())
}

func TestStartTwice(t *testing.T) {
	s, _ := newSession(t, []string{"cat"}, nil)
	require.NoError(t, s.Start(time.Minute))
	assert.ErrorIs(t, s.Start(time.Minute), model.ErrInvalidState)
}

func TestTickFinishesAndRecords(t *testing.T) {
	rec := &memRecorder{}
	s, _ := newSession(t, []string{"cat", "dog"}, rec)
	require.NoError(t, s.Start(90*time.Second))

	typeWord(t, s, "cat")
	require.NoError(t, s.BackspaceCommit())
	typeWord(t, s, "dig")
	require.NoError(t, s.BackspaceCommit())
	typeWord(t, s, "ca")

	done, err := s.OnTick(60 * time.Second)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 30*time.Second, s.Snapshot().Remaining)

	done, err = s.OnTick(45 * time.Second)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, Finished, s.State())

	out, ok := s.Outcome()
	require.True(t, ok)
	require.True(t, out.Recorded())
	assert.True(t, out.Saved())
	// 6 chars over 1.5 minutes: (6/5)/1.5 = 0.8 wpm, accuracy 0.5.
	assert.InDelta(t, 0.8, out.Record.WPM, 1e-9)
	assert.Equal(t, 0.5, out.Record.Accuracy)
	assert.InDelta(t, 0.4, out.Record.AWPM, 1e-9)
	assert.Equal(t, 90.0, out.Record.Duration)
	assert.Equal(t, fixedNow, out.Record.DateTime)

	require.Len(t, rec.records, 1)
	assert.True(t, rec.records[0].Equal(*out.Record))
}

func TestFinishedSessionIsFrozen(t *testing.T) {
	s, q := newSession(t, []string{"cat", "dog"}, nil)
	require.NoError(t, s.Start(time.Second))
	typeWord(t, s, "cat")
	require.NoError(t, s.BackspaceCommit())
	_, err := s.OnTick(time.Second)
	require.NoError(t, err)

	before := s.Snapshot()
	words := q.Words()
	assert.ErrorIs(t, s.TypeCharacter('x'), model.ErrInvalidState)
	assert.ErrorIs(t, s.BackspaceCommit(), model.ErrInvalidState)
	_, err = s.OnTick(time.Second)
	assert.ErrorIs(t, err, model.ErrInvalidState)
	assert.ErrorIs(t, s.Start(time.Second), model.ErrInvalidState)

	after := s.Snapshot()
	assert.Equal(t, before.Correct, after.Correct)
	assert.Equal(t, before.Incorrect, after.Incorrect)
	assert.Equal(t, words, q.Words())
}

func TestNoAttemptProducesNoRecord(t *testing.T) {
	rec := &memRecorder{}
	s, _ := newSession(t, []string{"cat"}, rec)
	require.NoError(t, s.Start(time.Second))
	typeWord(t, s, "ca")

	done, err := s.OnTick(2 * time.Second)
	require.NoError(t, err)
	assert.True(t, done)

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.False(t, out.Recorded())
	assert.ErrorIs(t, out.ScoreErr, ErrNoAttempt)
	assert.ErrorIs(t, out.ScoreErr, model.ErrDomain)
	assert.Empty(t, rec.records)
}

func TestSaveFailureIsReported(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	s, _ := newSession(t, []string{"cat"}, rec)
	require.NoError(t, s.Start(time.Second))
	typeWord(t, s, "cat")
	require.NoError(t, s.BackspaceCommit())

	_, err := s.OnTick(time.Second)
	require.NoError(t, err)

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.True(t, out.Recorded())
	assert.False(t, out.Saved())
	assert.ErrorContains(t, out.SaveErr, "disk full")
	assert.Equal(t, Finished, s.State())
}

func TestOutcomeBeforeFinish(t *testing.T) {
	s, _ := newSession(t, []string{"cat"}, nil)
	_, ok := s.Outcome()
	assert.False(t, ok)
}

func TestSnapshotPreview(t *testing.T) {
	q, err := queue.New([]string{"a", "b", "c"}, identity{})
	require.NoError(t, err)
	s, err := New(q, nil, WithPreview(4))
	require.NoError(t, err)
	require.NoError(t, s.Start(time.Minute))

	snap := s.Snapshot()
	assert.Equal(t, "a", snap.CurrentWord)
	assert.Equal(t, []string{"b", "c", "a", "b"}, snap.Upcoming)
	assert.Equal(t, time.Minute, snap.Duration)
	assert.Equal(t, Running, snap.State)
}
