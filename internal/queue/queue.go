// Package queue provides the cyclic word supply for typing sessions.
package queue

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

// Shuffler randomizes the order of n elements through swap.
// *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Queue is a cyclic sequence of words. Judged words move to the back, so the
// length never changes after construction.
type Queue struct {
	words []string
	head  int
	rnd   Shuffler
}

// NewShuffler returns a Shuffler seeded with the current time.
func NewShuffler() Shuffler {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// New copies vocabulary into a queue and shuffles it with rnd.
func New(vocabulary []string, rnd Shuffler) (*Queue, error) {
	if len(vocabulary) == 0 {
		return nil, model.ErrEmptyVocabulary
	}
	if rnd == nil {
		rnd = NewShuffler()
	}
	q := &Queue{
		words: append([]string(nil), vocabulary...),
		rnd:   rnd,
	}
	q.Reshuffle()
	return q, nil
}

// Reshuffle randomizes the current contents in place.
func (q *Queue) Reshuffle() {
	q.normalize()
	q.rnd.Shuffle(len(q.words), func(i, j int) {
		q.words[i], q.words[j] = q.words[j], q.words[i]
	})
}

// Current returns the front word without removing it.
func (q *Queue) Current() string {
	return q.words[q.head]
}

// Commit moves the front word to the back and reports whether typed matches it.
func (q *Queue) Commit(typed string) bool {
	word := q.words[q.head]
	q.head = (q.head + 1) % len(q.words)
	return typed == word
}

// Len returns the number of words in the queue.
func (q *Queue) Len() int {
	return len(q.words)
}

// Words returns a copy of the queue contents, front first.
func (q *Queue) Words() []string {
	return q.Peek(len(q.words))
}

// Peek returns the next n words in cyclic order starting at the front.
// Words repeat once n exceeds the queue length.
func (q *Queue) Peek(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = q.words[(q.head+i)%len(q.words)]
	}
	return out
}

func (q *Queue) normalize() {
	if q.head == 0 {
		return
	}
	q.words = q.Words()
	q.head = 0
}
