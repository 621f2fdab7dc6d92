// SPDX-License-Identifier: MIT

// Package frontier provides the open set shared by the search packages: a
// binary min-heap of location IDs keyed by a float64 score, with in-place
// priority updates.
//
// Ordering:
//
//	lower score first; equal scores → lexicographically smaller ID first.
//
// The tie-break makes the choice among equally-optimal paths deterministic,
// which keeps test expectations stable across runs.
//
// Complexity: Push and Pop are O(log n); Contains and Score are O(1).
//
// A Frontier is not safe for concurrent use; each search owns its own.
package frontier

import "container/heap"

// Frontier is a min-priority queue of IDs with decrease-key.
type Frontier struct {
	q     queue
	index map[string]*entry
}

// New returns an empty Frontier sized for about n entries.
func New(n int) *Frontier {
	if n < 0 {
		n = 0
	}

	return &Frontier{
		q:     make(queue, 0, n),
		index: make(map[string]*entry, n),
	}
}

// Len returns the number of queued IDs.
func (f *Frontier) Len() int { return len(f.q) }

// Push inserts id with score, or re-keys it if already queued.
// An ID is never present twice.
func (f *Frontier) Push(id string, score float64) {
	if e, ok := f.index[id]; ok {
		e.score = score
		heap.Fix(&f.q, e.pos)

		return
	}
	e := &entry{id: id, score: score}
	f.index[id] = e
	heap.Push(&f.q, e)
}

// Pop removes and returns the lowest-ranked ID. ok is false when empty.
func (f *Frontier) Pop() (id string, score float64, ok bool) {
	if len(f.q) == 0 {
		return "", 0, false
	}
	e := heap.Pop(&f.q).(*entry)
	delete(f.index, e.id)

	return e.id, e.score, true
}

// Contains reports whether id is queued.
func (f *Frontier) Contains(id string) bool {
	_, ok := f.index[id]

	return ok
}

// Score returns the queued score of id.
func (f *Frontier) Score(id string) (float64, bool) {
	e, ok := f.index[id]
	if !ok {
		return 0, false
	}

	return e.score, true
}

type entry struct {
	id    string
	score float64
	pos   int // index in queue, maintained by Swap/Push/Pop
}

// queue implements heap.Interface over *entry.
type queue []*entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].score != q[j].score {
		return q[i].score < q[j].score
	}

	return q[i].id < q[j].id
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].pos = i
	q[j].pos = j
}

func (q *queue) Push(x any) {
	e := x.(*entry)
	e.pos = len(*q)
	*q = append(*q, e)
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.pos = -1
	*q = old[:n-1]

	return e
}
