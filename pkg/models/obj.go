package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xalanq/mesh-simplification/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ reads vertex ("v") and face ("f") statements from r. Every other
// statement is ignored. Faces with more than three corners are split into a
// triangle fan. Positive face indices may refer to vertices declared later in
// the file; negative ones count back from the vertices read so far. Only
// vertices referenced by a face are kept, numbered in the order faces first
// reference them.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	var faceLines []int // source line of each triangle

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var xyz [3]float64
			for i := range 3 {
				val, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				xyz[i] = val
			}
			mesh.AddVertex(math3d.V3(xyz[0], xyz[1], xyz[2]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			corners := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				idx, err := parseFaceIndex(tok, mesh.VertexCount())
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, idx)
			}
			for i := 1; i+1 < len(corners); i++ {
				mesh.AddTriangle(corners[0], corners[i], corners[i+1])
				faceLines = append(faceLines, lineNo)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	n := mesh.VertexCount()
	for i, t := range mesh.Triangles {
		for _, v := range t {
			if v >= n {
				return nil, fmt.Errorf("line %d: face index %d with %d vertices: %w", faceLines[i], v+1, n, ErrIndexOutOfRange)
			}
		}
	}

	mesh.RemoveUnreferencedVertices()
	mesh.CalculateBounds()

	return mesh, nil
}

// parseFaceIndex resolves the position part of a face token ("7", "7/2",
// "7//3", "7/2/3" or a negative relative index) to a 0-based index.
// count is the number of vertices read so far; positive indices are not
// checked against it.
func parseFaceIndex(tok string, count int) (int, error) {
	pos, _, _ := strings.Cut(tok, "/")
	n, err := strconv.Atoi(pos)
	if err != nil {
		return 0, fmt.Errorf("face index %q: %w", tok, err)
	}

	switch {
	case n > 0:
		return n - 1, nil
	case n < 0 && -n <= count:
		return count + n, nil
	}
	return 0, fmt.Errorf("face index %d with %d vertices: %w", n, count, ErrIndexOutOfRange)
}

// WriteOBJ writes the mesh as "v" lines followed by 1-based "f" lines.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	for _, p := range m.Positions {
		if _, err := fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z)); err != nil {
			return err
		}
	}
	for _, t := range m.Triangles {
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveOBJ writes the mesh to an OBJ file at path.
func SaveOBJ(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create obj: %w", err)
	}
	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("write obj: %w", err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
