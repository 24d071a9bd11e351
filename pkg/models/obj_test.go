package models

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xalanq/mesh-simplification/pkg/math3d"
)

func TestParseOBJ(t *testing.T) {
	src := `# a unit quad plus an unused vertex
o quad
v 0 0 0
v 1 0 0
v 9 9 9
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1/1/1 2/1/1 4/1/1 5/1/1
`
	mesh, err := ParseOBJ(strings.NewReader(src), "quad.obj")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Fatalf("TriangleCount = %d, want 2", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4 (unused vertex dropped)", mesh.VertexCount())
	}
	want := []Triangle{{0, 1, 2}, {0, 2, 3}}
	for i, tri := range want {
		if mesh.Triangles[i] != tri {
			t.Errorf("triangle %d = %v, want %v", i, mesh.Triangles[i], tri)
		}
	}
	if mesh.Positions[2] != math3d.V3(1, 1, 0) {
		t.Errorf("position 2 = %v, want (1, 1, 0)", mesh.Positions[2])
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("BoundsMax = %v", mesh.BoundsMax)
	}
}

func TestParseOBJFaceTokens(t *testing.T) {
	tests := []struct {
		name string
		face string
		want Triangle
	}{
		{"plain", "f 1 2 3", Triangle{0, 1, 2}},
		{"texture", "f 3/1 1/2 2/3", Triangle{0, 1, 2}},
		{"normal only", "f 2//1 3//1 1//1", Triangle{0, 1, 2}},
		{"negative", "f -3 -2 -1", Triangle{0, 1, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := "v 0 0 0\nv 1 0 0\nv 0 1 0\n" + tc.face + "\n"
			mesh, err := ParseOBJ(strings.NewReader(src), "t")
			if err != nil {
				t.Fatalf("ParseOBJ: %v", err)
			}
			if mesh.Triangles[0] != tc.want {
				t.Errorf("triangle = %v, want %v", mesh.Triangles[0], tc.want)
			}
		})
	}
}

func TestParseOBJForwardReference(t *testing.T) {
	src := "f 3 1 2\nv 0 0 0\nv 1 0 0\nv 0 1 0\nv 5 5 5\n"
	mesh, err := ParseOBJ(strings.NewReader(src), "t")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if mesh.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", mesh.VertexCount())
	}
	if mesh.Triangles[0] != (Triangle{0, 1, 2}) {
		t.Errorf("triangle = %v, want [0 1 2]", mesh.Triangles[0])
	}
	if mesh.Positions[0] != math3d.V3(0, 1, 0) {
		t.Errorf("position 0 = %v, want (0, 1, 0)", mesh.Positions[0])
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target error
	}{
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrIndexOutOfRange},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrIndexOutOfRange},
		{"negative out of range", "v 0 0 0\nv 1 0 0\nf -1 -2 -3\nv 0 1 0\n", ErrIndexOutOfRange},
		{"forward reference past end", "f 1 2 5\nv 0 0 0\nv 1 0 0\nv 0 1 0\n", ErrIndexOutOfRange},
		{"short vertex", "v 0 0\n", nil},
		{"bad float", "v 0 x 0\n", nil},
		{"two corner face", "v 0 0 0\nv 1 0 0\nf 1 2\n", nil},
		{"bad index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 b 3\n", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tc.src), "bad")
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Errorf("error = %v, want %v", err, tc.target)
			}
		})
	}
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, quadMesh()); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}

	want := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3\nf 1 3 4\n"
	if buf.String() != want {
		t.Errorf("WriteOBJ output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestOBJRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	orig := quadMesh()
	orig.Positions[2] = math3d.V3(1.25, 0.1, -3e-7)

	if err := Save(path, orig); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Name != "quad.obj" {
		t.Errorf("Name = %q", loaded.Name)
	}
	for i := range orig.Positions {
		if loaded.Positions[i] != orig.Positions[i] {
			t.Errorf("position %d = %v, want %v", i, loaded.Positions[i], orig.Positions[i])
		}
	}
	for i := range orig.Triangles {
		if loaded.Triangles[i] != orig.Triangles[i] {
			t.Errorf("triangle %d = %v, want %v", i, loaded.Triangles[i], orig.Triangles[i])
		}
	}
}

func TestLoadOBJInvalidPath(t *testing.T) {
	if _, err := LoadOBJ("/nonexistent/path.obj"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestFormatDispatch(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "mesh.ply")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.ply) = %v, want ErrUnsupportedFormat", err)
	}
	if err := Save(filepath.Join(dir, "mesh.stl"), quadMesh()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(.stl) = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "mesh.stl")); !os.IsNotExist(err) {
		t.Error("unsupported Save should not create a file")
	}
}
