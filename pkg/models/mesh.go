// Package models provides the triangle mesh representation and its file formats.
package models

import (
	"errors"
	"fmt"

	"github.com/xalanq/mesh-simplification/pkg/math3d"
)

var (
	// ErrIndexOutOfRange is returned when a triangle references a vertex
	// outside the position array.
	ErrIndexOutOfRange = errors.New("vertex index out of range")

	// ErrRepeatedIndex is returned when a triangle uses the same vertex
	// for more than one corner.
	ErrRepeatedIndex = errors.New("triangle repeats a vertex")
)

// Triangle holds three 0-based indices into Mesh.Positions.
type Triangle [3]int

// Has reports whether v is one of the triangle's corners.
func (t Triangle) Has(v int) bool {
	return t[0] == v || t[1] == v || t[2] == v
}

// Mesh is an indexed triangle mesh: a position array and a triangle array.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	Triangles []Triangle

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: make([]math3d.Vec3, 0),
		Triangles: make([]Triangle, 0),
	}
}

// AddVertex appends a position and returns its index.
func (m *Mesh) AddVertex(p math3d.Vec3) int {
	m.Positions = append(m.Positions, p)
	return len(m.Positions) - 1
}

// AddTriangle appends a triangle and returns its index.
func (m *Mesh) AddTriangle(a, b, c int) int {
	m.Triangles = append(m.Triangles, Triangle{a, b, c})
	return len(m.Triangles) - 1
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Validate checks that every triangle index addresses a position and that
// no triangle repeats a corner.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	for i, t := range m.Triangles {
		for _, v := range t {
			if v < 0 || v >= n {
				return fmt.Errorf("triangle %d: index %d with %d vertices: %w", i, v, n, ErrIndexOutOfRange)
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			return fmt.Errorf("triangle %d %v: %w", i, t, ErrRepeatedIndex)
		}
	}
	return nil
}

// Weld merges vertices with identical positions and rewrites triangle
// indices to the first occurrence. Returns the number of vertices removed.
func (m *Mesh) Weld() int {
	first := make(map[math3d.Vec3]int, len(m.Positions))
	remap := make([]int, len(m.Positions))
	positions := make([]math3d.Vec3, 0, len(m.Positions))

	for i, p := range m.Positions {
		if j, ok := first[p]; ok {
			remap[i] = j
			continue
		}
		first[p] = len(positions)
		remap[i] = len(positions)
		positions = append(positions, p)
	}

	removed := len(m.Positions) - len(positions)
	if removed == 0 {
		return 0
	}
	for i, t := range m.Triangles {
		m.Triangles[i] = Triangle{remap[t[0]], remap[t[1]], remap[t[2]]}
	}
	m.Positions = positions
	return removed
}

// RemoveDegenerateFaces drops triangles that repeat a vertex index.
// Returns the number of triangles removed.
func (m *Mesh) RemoveDegenerateFaces() int {
	kept := m.Triangles[:0]
	for _, t := range m.Triangles {
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			continue
		}
		kept = append(kept, t)
	}
	removed := len(m.Triangles) - len(kept)
	m.Triangles = kept
	return removed
}

// RemoveUnreferencedVertices drops positions no triangle uses and renumbers
// the rest in first-reference order. Returns the number removed.
// Every triangle index must address a position.
func (m *Mesh) RemoveUnreferencedVertices() int {
	remap := make([]int, len(m.Positions))
	for i := range remap {
		remap[i] = -1
	}
	positions := make([]math3d.Vec3, 0, len(m.Positions))

	for i, t := range m.Triangles {
		for c, v := range t {
			if remap[v] < 0 {
				remap[v] = len(positions)
				positions = append(positions, m.Positions[v])
			}
			m.Triangles[i][c] = remap[v]
		}
	}

	removed := len(m.Positions) - len(positions)
	m.Positions = positions
	return removed
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Positions: make([]math3d.Vec3, len(m.Positions)),
		Triangles: make([]Triangle, len(m.Triangles)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Positions, m.Positions)
	copy(clone.Triangles, m.Triangles)
	return clone
}
