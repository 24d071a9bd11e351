// Package simplify reduces the triangle count of a mesh with quadric error
// metric edge collapses.
package simplify

import (
	"context"
	"fmt"
	"math"

	"github.com/xalanq/mesh-simplification/pkg/models"
)

// State is the phase of a simplification run.
type State int

const (
	StateInitializing State = iota
	StateCollapsing
	StateCompacting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateCollapsing:
		return "collapsing"
	case StateCompacting:
		return "compacting"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Stats describes a finished run.
type Stats struct {
	InputVertices   int
	InputTriangles  int
	OutputVertices  int
	OutputTriangles int

	// Budget is the number of triangles the run was allowed to remove.
	Budget int
	// Collapses is the number of edge collapses performed.
	Collapses int
	// RemovedTriangles counts triangles destroyed by collapses.
	RemovedTriangles int

	// Candidates counts candidates enqueued; Rejected those refused by a
	// threshold; Stale those popped after an endpoint was merged.
	Candidates int
	Rejected   int
	Stale      int
	// SingularSolves counts candidates placed at the midpoint because the
	// combined quadric could not be inverted.
	SingularSolves int
	// DegenerateFaces counts input triangles given a zero quadric.
	DegenerateFaces int
}

// Simplify removes about ratio of the triangles of m by repeatedly
// collapsing the cheapest edge, and returns a new densely indexed mesh.
// m is not modified.
//
// Each collapse removes two triangles of the budget round(T*ratio), and a
// collapse only runs while the remaining budget covers it. The run also
// stops early when no candidates are left or ctx is cancelled.
func Simplify(ctx context.Context, m *models.Mesh, ratio float64, opts Options) (*models.Mesh, Stats, error) {
	if !(ratio >= 0 && ratio < 1) {
		return nil, Stats{}, fmt.Errorf("ratio %v: %w", ratio, ErrInvalidRatio)
	}
	if err := m.Validate(); err != nil {
		return nil, Stats{}, fmt.Errorf("invalid mesh: %w", err)
	}

	e := newEngine(m, ratio, opts)
	if err := e.initialize(); err != nil {
		return nil, e.stats, err
	}
	if err := e.run(ctx); err != nil {
		return nil, e.stats, err
	}
	out := e.compact()
	return out, e.stats, nil
}

// engine owns all mutable state of a single Simplify call.
type engine struct {
	name   string
	opts   Options
	state  State
	topo   *topology
	queue  *candidateQueue
	budget int
	stats  Stats
}

func newEngine(m *models.Mesh, ratio float64, opts Options) *engine {
	opts = opts.withDefaults()
	budget := int(math.Round(float64(len(m.Triangles)) * ratio))

	return &engine{
		name:   m.Name,
		opts:   opts,
		state:  StateInitializing,
		topo:   newTopology(m, opts.DegenerateEpsilon),
		queue:  newCandidateQueue(opts, len(m.Triangles)*3),
		budget: budget,
		stats: Stats{
			InputVertices:  len(m.Positions),
			InputTriangles: len(m.Triangles),
			Budget:         budget,
		},
	}
}

// initialize computes face and vertex quadrics, incident lists, and one
// candidate per triangle edge. Edges shared by two triangles are offered
// twice.
func (e *engine) initialize() error {
	t := e.topo

	for i, tri := range t.triangles {
		q, ok := t.faceQuadric(tri)
		if !ok {
			if e.opts.Degenerate == DegenerateReject {
				return fmt.Errorf("triangle %d %v: %w", i, tri, ErrDegenerateTriangle)
			}
			e.stats.DegenerateFaces++
		}
		t.faceQ[i] = q
		for _, v := range tri {
			t.vertexQ[v] = t.vertexQ[v].Add(q)
			t.incident[v] = append(t.incident[v], i)
		}
	}

	for _, tri := range t.triangles {
		e.offer(tri[0], tri[1])
		e.offer(tri[1], tri[2])
		e.offer(tri[0], tri[2])
	}

	e.state = StateCollapsing
	return nil
}

func (e *engine) offer(a, b int) {
	if e.queue.offer(e.topo, a, b) {
		e.stats.Candidates++
	}
}

// run collapses candidates until the budget or the queue is exhausted.
func (e *engine) run(ctx context.Context) error {
	for e.budget >= 2 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := e.step(); !ok {
			break
		}
	}
	e.state = StateCompacting
	e.stats.Rejected = e.queue.rejected
	e.stats.SingularSolves = e.queue.singular
	return nil
}

// step pops candidates until one is live and collapses it. It returns the
// number of triangles the collapse destroyed, and false once the queue is
// empty.
func (e *engine) step() (int, bool) {
	for {
		c, ok := e.queue.pop()
		if !ok {
			return 0, false
		}
		if e.topo.merged[c.A] || e.topo.merged[c.B] {
			e.stats.Stale++
			continue
		}

		removed := e.collapse(c)
		e.budget -= 2
		e.stats.Collapses++
		e.stats.RemovedTriangles += removed
		return removed, true
	}
}

// collapse merges c.A and c.B into a new vertex at c.Point.
func (e *engine) collapse(c Candidate) (removed int) {
	t := e.topo
	a, b := c.A, c.B
	v := t.addVertex(c.Point)

	var (
		fresh     []int
		neighbors []int
	)

	for _, i := range t.incident[a] {
		if !t.isValid(i) {
			continue
		}
		if !t.triangles[i].Has(b) {
			neighbors = t.relabel(i, a, v, neighbors)
			fresh = append(fresh, i)
			continue
		}
		// Triangle (a, b, o) disappears with the edge.
		o := t.opposite(i, a, b)
		t.vertexQ[o] = t.vertexQ[o].Sub(t.faceQ[i])
		neighbors = append(neighbors, o)
		removed++
	}

	for _, i := range t.incident[b] {
		if !t.isValid(i) || t.triangles[i].Has(a) {
			continue
		}
		neighbors = t.relabel(i, b, v, neighbors)
		fresh = append(fresh, i)
	}

	t.merged[a] = true
	t.merged[b] = true

	for _, n := range neighbors {
		if t.merged[n] || t.visited[n] {
			continue
		}
		t.visited[n] = true
		e.offer(v, n)
	}
	for _, n := range neighbors {
		t.visited[n] = false
	}

	t.incident[v] = fresh
	return removed
}

// compact emits the live triangles in order, numbering vertices by first
// reference.
func (e *engine) compact() *models.Mesh {
	t := e.topo
	out := models.NewMesh(e.name)
	remap := make([]int, len(t.positions))
	for i := range remap {
		remap[i] = -1
	}

	for i, tri := range t.triangles {
		if !t.isValid(i) {
			continue
		}
		var nt models.Triangle
		for c, v := range tri {
			if remap[v] < 0 {
				remap[v] = out.AddVertex(t.positions[v])
			}
			nt[c] = remap[v]
		}
		out.Triangles = append(out.Triangles, nt)
	}
	out.CalculateBounds()

	e.stats.OutputVertices = out.VertexCount()
	e.stats.OutputTriangles = out.TriangleCount()
	e.state = StateDone
	return out
}
