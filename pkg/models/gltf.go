package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/xalanq/mesh-simplification/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Weld merges vertices with identical positions. glTF splits vertices
	// along normal and UV seams, which would otherwise tear the surface
	// apart during simplification.
	Weld bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		Weld: true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh holding the triangles of
// every mesh primitive in the document. Node transforms are not applied.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))

	// Process all meshes in the document
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if l.Weld {
		mesh.Weld()
		mesh.RemoveDegenerateFaces()
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		// Base vertex index for this primitive
		baseVertex := len(mesh.Positions)
		mesh.Positions = append(mesh.Positions, positions...)

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				for _, idx := range indices[i : i+3] {
					if idx >= len(positions) {
						return fmt.Errorf("index %d with %d positions: %w", idx, len(positions), ErrIndexOutOfRange)
					}
				}
				mesh.AddTriangle(baseVertex+indices[i], baseVertex+indices[i+1], baseVertex+indices[i+2])
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.AddTriangle(baseVertex+i, baseVertex+i+1, baseVertex+i+2)
			}
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if err := checkAccessor(doc, accessorIdx); err != nil {
		return nil, err
	}
	floats, err := modeler.ReadPosition(doc, doc.Accessors[accessorIdx], nil)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if err := checkAccessor(doc, accessorIdx); err != nil {
		return nil, err
	}
	data, err := modeler.ReadIndices(doc, doc.Accessors[accessorIdx], nil)
	if err != nil {
		return nil, err
	}

	result := make([]int, len(data))
	for i, x := range data {
		result[i] = int(x)
	}
	return result, nil
}

// checkAccessor verifies that accessor idx and the buffer views and buffers
// it reads from exist, so a malformed file fails instead of panicking.
func checkAccessor(doc *gltf.Document, idx int) error {
	if idx < 0 || idx >= len(doc.Accessors) {
		return fmt.Errorf("accessor %d not found", idx)
	}
	acr := doc.Accessors[idx]

	views := make([]int, 0, 3)
	if acr.BufferView != nil {
		views = append(views, *acr.BufferView)
	}
	if acr.Sparse != nil {
		views = append(views, acr.Sparse.Indices.BufferView, acr.Sparse.Values.BufferView)
	}
	for _, v := range views {
		if v < 0 || v >= len(doc.BufferViews) {
			return fmt.Errorf("accessor %d: buffer view %d not found", idx, v)
		}
		if b := doc.BufferViews[v].Buffer; b < 0 || b >= len(doc.Buffers) {
			return fmt.Errorf("accessor %d: buffer %d not found", idx, b)
		}
	}
	return nil
}

// NewGLTFDocument builds a single-mesh glTF document holding the positions
// and triangle indices of m. A mesh without triangles yields an empty scene
// with no mesh and no buffers, since glTF forbids zero-length buffers.
func NewGLTFDocument(m *Mesh) *gltf.Document {
	doc := gltf.NewDocument()
	if len(m.Triangles) == 0 {
		return doc
	}

	positions := make([][3]float32, len(m.Positions))
	for i, p := range m.Positions {
		positions[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	}
	indices := make([]uint32, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		indices = append(indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
	}

	posAccessor := modeler.WritePosition(doc, positions)
	idxAccessor := modeler.WriteIndices(doc, indices)

	doc.Meshes = []*gltf.Mesh{{
		Name: m.Name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idxAccessor),
			Attributes: map[string]int{gltf.POSITION: posAccessor},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: m.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	return doc
}

// SaveGLB writes the mesh as a binary glTF file.
func SaveGLB(path string, m *Mesh) error {
	if err := gltf.SaveBinary(NewGLTFDocument(m), path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}
