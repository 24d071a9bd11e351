package simplify

import (
	"testing"

	"github.com/xalanq/mesh-simplification/pkg/math3d"
	"github.com/xalanq/mesh-simplification/pkg/models"
)

func tetrahedron() *models.Mesh {
	m := models.NewMesh("tetrahedron")
	m.Positions = []math3d.Vec3{
		math3d.V3(1, 1, 1),
		math3d.V3(1, -1, -1),
		math3d.V3(-1, 1, -1),
		math3d.V3(-1, -1, 1),
	}
	m.Triangles = []models.Triangle{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}}
	return m
}

func quad() *models.Mesh {
	m := models.NewMesh("quad")
	m.Positions = []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 0, 0),
		math3d.V3(1, 1, 0),
		math3d.V3(0, 1, 0),
	}
	m.Triangles = []models.Triangle{{0, 1, 2}, {0, 2, 3}}
	return m
}

// sphere returns an octahedron subdivided n times with every vertex
// projected onto the unit sphere: 8 * 4^n triangles.
func sphere(n int) *models.Mesh {
	m := models.NewMesh("sphere")
	m.Positions = []math3d.Vec3{
		math3d.V3(1, 0, 0),
		math3d.V3(-1, 0, 0),
		math3d.V3(0, 1, 0),
		math3d.V3(0, -1, 0),
		math3d.V3(0, 0, 1),
		math3d.V3(0, 0, -1),
	}
	m.Triangles = []models.Triangle{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}

	for range n {
		mids := make(map[[2]int]int)
		mid := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if idx, ok := mids[key]; ok {
				return idx
			}
			idx := m.AddVertex(m.Positions[a].Add(m.Positions[b]).Normalize())
			mids[key] = idx
			return idx
		}

		next := make([]models.Triangle, 0, len(m.Triangles)*4)
		for _, t := range m.Triangles {
			ab, bc, ca := mid(t[0], t[1]), mid(t[1], t[2]), mid(t[2], t[0])
			next = append(next,
				models.Triangle{t[0], ab, ca},
				models.Triangle{ab, t[1], bc},
				models.Triangle{ca, bc, t[2]},
				models.Triangle{ab, bc, ca},
			)
		}
		m.Triangles = next
	}
	return m
}

// checkCompact verifies the output contract: indices in range, every
// position referenced, all positions finite, no repeated corners.
func checkCompact(t *testing.T, m *models.Mesh) {
	t.Helper()
	used := make([]bool, len(m.Positions))
	for i, tri := range m.Triangles {
		for _, v := range tri {
			if v < 0 || v >= len(m.Positions) {
				t.Fatalf("triangle %d %v: index out of range (%d positions)", i, tri, len(m.Positions))
			}
			used[v] = true
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			t.Errorf("triangle %d %v repeats a vertex", i, tri)
		}
	}
	for i, u := range used {
		if !u {
			t.Errorf("position %d is not referenced", i)
		}
	}
	for i, p := range m.Positions {
		if !p.IsFinite() {
			t.Errorf("position %d = %v is not finite", i, p)
		}
	}
}

func TestSphereFixture(t *testing.T) {
	m := sphere(2)
	if m.TriangleCount() != 128 {
		t.Errorf("TriangleCount = %d, want 128", m.TriangleCount())
	}
	// Closed genus-0 surface: V - E + F = 2 with E = 3F/2.
	if v := m.VertexCount(); v != 66 {
		t.Errorf("VertexCount = %d, want 66", v)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
