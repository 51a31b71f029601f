package queue

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

type identity struct{}

func (identity) Shuffle(int, func(i, j int)) {}

type reverse struct{}

func (reverse) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func TestNewRejectsEmptyVocabulary(t *testing.T) {
	_, err := New(nil, identity{})
	assert.ErrorIs(t, err, model.ErrEmptyVocabulary)

	_, err = New([]string{}, identity{})
	assert.ErrorIs(t, err, model.ErrEmptyVocabulary)
}

func TestNewCopiesVocabulary(t *testing.T) {
	vocab := []string{"cat", "dog"}
	q, err := New(vocab, identity{})
	require.NoError(t, err)
	vocab[0] = "owl"
	assert.Equal(t, []string{"cat", "dog"}, q.Words())
}

func TestCommitCyclesAndJudges(t *testing.T) {
	q, err := New([]string{"cat", "dog"}, identity{})
	require.NoError(t, err)

	assert.Equal(t, "cat", q.Current())
	assert.True(t, q.Commit("cat"))
	assert.Equal(t, []string{"dog", "cat"}, q.Words())

	assert.False(t, q.Commit("dig"))
	assert.Equal(t, []string{"cat", "dog"}, q.Words())
	assert.Equal(t, "cat", q.Current())
}

func TestCommitPreservesLength(t *testing.T) {
	q, err := New([]string{"a", "b", "c", "d", "e"}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	before := q.Len()
	for i := 0; i < 23; i++ {
		q.Commit("x")
		require.Equal(t, before, q.Len())
		require.Len(t, q.Words(), before)
	}
}

func TestReshufflePreservesContents(t *testing.T) {
	vocab := []string{"a", "b", "c", "d", "e", "f"}
	q, err := New(vocab, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	q.Commit("a")
	q.Commit("b")

	q.Reshuffle()
	got := q.Words()
	sort.Strings(got)
	assert.Equal(t, vocab, got)
}

func TestReshuffleStartsFromFront(t *testing.T) {
	q, err := New([]string{"a", "b", "c"}, reverse{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, q.Words())

	q.Commit("c")
	// Front is now b, a, c; reversed gives c, a, b.
	q.Reshuffle()
	assert.Equal(t, []string{"c", "a", "b"}, q.Words())
	assert.Equal(t, "c", q.Current())
}

func TestSeededShuffleIsDeterministic(t *testing.T) {
	vocab := []string{"a", "b", "c", "d", "e", "f", "g"}
	q1, err := New(vocab, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	q2, err := New(vocab, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Equal(t, q1.Words(), q2.Words())
}

func TestPeekWrapsAround(t *testing.T) {
	q, err := New([]string{"a", "b", "c"}, identity{})
	require.NoError(t, err)
	q.Commit("a")
	assert.Equal(t, []string{"b", "c", "a", "b"}, q.Peek(4))
	assert.Nil(t, q.Peek(0))
}

func TestNilShufflerFallsBack(t *testing.T) {
	q, err := New([]string{"a", "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Len())
}
