package simplify

import (
	"container/heap"

	"github.com/xalanq/mesh-simplification/pkg/math3d"
)

// Candidate is a proposed collapse of the vertex pair (A, B) into Point.
type Candidate struct {
	A, B    int
	Quadric math3d.Quadric
	Point   math3d.Vec3
	Cost    float64
}

type entry struct {
	cost  float64
	index int
}

// entryHeap orders entries by cost, then by insertion order.
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].index < h[j].index
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// candidateQueue is a min-priority queue of collapse candidates. Candidates
// are appended and never removed; entries whose endpoints have since been
// merged are left in place and must be discarded by the caller on pop.
type candidateQueue struct {
	candidates []Candidate
	heap       entryHeap

	maxDistanceSq float64
	maxCost       float64

	rejected int
	singular int
}

func newCandidateQueue(opts Options, capacity int) *candidateQueue {
	return &candidateQueue{
		candidates:    make([]Candidate, 0, capacity),
		heap:          make(entryHeap, 0, capacity),
		maxDistanceSq: opts.MaxDistanceSq,
		maxCost:       opts.MaxCost,
	}
}

// offer builds the candidate for (a, b) from the current topology and
// enqueues it unless a threshold rejects it. It reports whether the
// candidate was enqueued.
func (q *candidateQueue) offer(t *topology, a, b int) bool {
	pa, pb := t.positions[a], t.positions[b]
	if !(pa.DistanceSq(pb) < q.maxDistanceSq) {
		q.rejected++
		return false
	}

	quad := t.vertexQ[a].Add(t.vertexQ[b])
	var point math3d.Vec3
	if inv, ok := quad.Split().Inverse(); ok {
		point = inv.Column3()
	} else {
		q.singular++
		point = pa.Midpoint(pb)
	}

	cost := quad.Evaluate(point)
	if !(cost < q.maxCost) || !point.IsFinite() {
		q.rejected++
		return false
	}

	q.candidates = append(q.candidates, Candidate{
		A:       a,
		B:       b,
		Quadric: quad,
		Point:   point,
		Cost:    cost,
	})
	heap.Push(&q.heap, entry{cost: cost, index: len(q.candidates) - 1})
	return true
}

// pop removes and returns the cheapest candidate. ok is false when the
// queue is empty.
func (q *candidateQueue) pop() (c Candidate, ok bool) {
	if len(q.heap) == 0 {
		return Candidate{}, false
	}
	e := heap.Pop(&q.heap).(entry)
	return q.candidates[e.index], true
}

// Len returns the number of queued entries, stale ones included.
func (q *candidateQueue) Len() int {
	return len(q.heap)
}
