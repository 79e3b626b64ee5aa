package assetlib

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseOBJ reads a Wavefront OBJ stream into a PNCV_F32 vertex list and
// uint32 triangle indices. Polygons are fan-triangulated and identical
// face corners share a vertex. The V texture coordinate is flipped to match
// Vulkan's top-left origin, and vertex colors carry the normal.
func ParseOBJ(r io.Reader) ([]VertexPNCV, []uint32, error) {
	var positions, normals [][3]float32
	var uvs [][2]float32

	var vertices []VertexPNCV
	var indices []uint32
	corners := make(map[string]uint32)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		switch parts[0] {
		case "v", "vn":
			v, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if parts[0] == "v" {
				positions = append(positions, [3]float32{v[0], v[1], v[2]})
			} else {
				normals = append(normals, [3]float32{v[0], v[1], v[2]})
			}
		case "vt":
			v, err := parseFloats(parts[1:], 2)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, [2]float32{v[0], v[1]})
		case "f":
			if len(parts) < 4 {
				return nil, nil, fmt.Errorf("line %d: face needs at least 3 vertices, got %d", lineNo, len(parts)-1)
			}
			face := make([]uint32, 0, len(parts)-1)
			for _, corner := range parts[1:] {
				if idx, ok := corners[corner]; ok {
					face = append(face, idx)
					continue
				}
				vert, err := parseCorner(corner, positions, normals, uvs)
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx := uint32(len(vertices))
				vertices = append(vertices, vert)
				corners[corner] = idx
				face = append(face, idx)
			}
			for i := 2; i < len(face); i++ {
				indices = append(indices, face[0], face[i-1], face[i])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(indices) == 0 {
		return nil, nil, fmt.Errorf("no faces found")
	}
	return vertices, indices, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseCorner resolves a "v", "v/vt", "v//vn" or "v/vt/vn" face corner.
func parseCorner(corner string, positions, normals [][3]float32, uvs [][2]float32) (VertexPNCV, error) {
	var vert VertexPNCV
	refs := strings.Split(corner, "/")

	pi, err := objIndex(refs[0], len(positions))
	if err != nil {
		return vert, fmt.Errorf("corner %q: position: %w", corner, err)
	}
	vert.Position = positions[pi]

	if len(refs) > 1 && refs[1] != "" {
		ti, err := objIndex(refs[1], len(uvs))
		if err != nil {
			return vert, fmt.Errorf("corner %q: texcoord: %w", corner, err)
		}
		vert.UV = [2]float32{uvs[ti][0], 1 - uvs[ti][1]}
	}
	if len(refs) > 2 && refs[2] != "" {
		ni, err := objIndex(refs[2], len(normals))
		if err != nil {
			return vert, fmt.Errorf("corner %q: normal: %w", corner, err)
		}
		vert.Normal = normals[ni]
		vert.Color = normals[ni]
	}
	return vert, nil
}

// objIndex converts a 1-based or negative (relative) OBJ reference into a
// slice index.
func objIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	if i < 0 {
		i += n
	} else {
		i--
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range (have %d)", s, n)
	}
	return i, nil
}
