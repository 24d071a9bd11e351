package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions without a codec.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Load reads a mesh, choosing the codec from the file extension
// (.obj, .glb or .gltf).
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("%s (use .obj, .glb or .gltf): %w", ext, ErrUnsupportedFormat)
	}
}

// Save writes a mesh, choosing the codec from the file extension
// (.obj or .glb).
func Save(path string, m *Mesh) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return SaveOBJ(path, m)
	case ".glb":
		return SaveGLB(path, m)
	default:
		return fmt.Errorf("%s (use .obj or .glb): %w", ext, ErrUnsupportedFormat)
	}
}
