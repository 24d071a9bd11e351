package simplify

import (
	"github.com/xalanq/mesh-simplification/pkg/math3d"
	"github.com/xalanq/mesh-simplification/pkg/models"
)

// topology is the index-addressed arena the engine mutates. Vertices and
// triangles are never removed: a vertex is retired by setting merged, and a
// triangle is dead once any of its corners is merged.
type topology struct {
	positions []math3d.Vec3
	triangles []models.Triangle

	// faceQ[i] is the quadric of triangle i at its current shape.
	faceQ []math3d.Quadric
	// vertexQ[v] is the sum of faceQ over the live triangles touching v.
	vertexQ []math3d.Quadric
	// incident[v] lists every triangle that has touched v. Entries are
	// never pruned, so liveness must be checked on traversal.
	incident [][]int

	// merged is set once and never cleared.
	merged []bool
	// visited marks neighbors already offered during one collapse step and
	// is cleared before the step returns.
	visited []bool

	degenerateEps float64
}

// newTopology copies m into a fresh arena. m must already be validated.
func newTopology(m *models.Mesh, degenerateEps float64) *topology {
	n := len(m.Positions)
	t := &topology{
		positions:     make([]math3d.Vec3, n, n*2),
		triangles:     make([]models.Triangle, len(m.Triangles)),
		faceQ:         make([]math3d.Quadric, len(m.Triangles)),
		vertexQ:       make([]math3d.Quadric, n, n*2),
		incident:      make([][]int, n, n*2),
		merged:        make([]bool, n, n*2),
		visited:       make([]bool, n, n*2),
		degenerateEps: degenerateEps,
	}
	copy(t.positions, m.Positions)
	copy(t.triangles, m.Triangles)
	return t
}

// faceQuadric returns the plane quadric of the triangle with corners tri.
// ok is false for a degenerate triangle, whose quadric is zero.
func (t *topology) faceQuadric(tri models.Triangle) (q math3d.Quadric, ok bool) {
	p, ok := math3d.PlaneFromTriangle(t.positions[tri[0]], t.positions[tri[1]], t.positions[tri[2]], t.degenerateEps)
	if !ok {
		return math3d.Quadric{}, false
	}
	return p.Quadric(), true
}

// addVertex appends a live vertex with a zero quadric and no incident
// triangles.
func (t *topology) addVertex(p math3d.Vec3) int {
	t.positions = append(t.positions, p)
	t.vertexQ = append(t.vertexQ, math3d.Quadric{})
	t.incident = append(t.incident, nil)
	t.merged = append(t.merged, false)
	t.visited = append(t.visited, false)
	return len(t.positions) - 1
}

// isValid reports whether triangle i is still part of the surface.
func (t *topology) isValid(i int) bool {
	tri := t.triangles[i]
	return !t.merged[tri[0]] && !t.merged[tri[1]] && !t.merged[tri[2]]
}

// validTriangles counts the live triangles.
func (t *topology) validTriangles() int {
	n := 0
	for i := range t.triangles {
		if t.isValid(i) {
			n++
		}
	}
	return n
}

// relabel moves corner from of triangle i to vertex to, keeping the
// aggregate quadrics consistent: the two unchanged corners receive the
// change in face quadric and to receives the new quadric in full.
// The unchanged corners are appended to neighbors, which is returned.
func (t *topology) relabel(i, from, to int, neighbors []int) []int {
	tri := t.triangles[i]
	k := 0
	for tri[k] != from {
		k++
	}
	tri[k] = to

	q, _ := t.faceQuadric(tri)
	delta := q.Sub(t.faceQ[i])
	for c, v := range tri {
		if c == k {
			continue
		}
		t.vertexQ[v] = t.vertexQ[v].Add(delta)
		neighbors = append(neighbors, v)
	}
	t.vertexQ[to] = t.vertexQ[to].Add(q)
	t.faceQ[i] = q
	t.triangles[i] = tri
	return neighbors
}

// opposite returns the corner of triangle i that is neither a nor b.
func (t *topology) opposite(i, a, b int) int {
	for _, v := range t.triangles[i] {
		if v != a && v != b {
			return v
		}
	}
	return -1
}
