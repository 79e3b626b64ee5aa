package assetlib

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// MeshTag identifies mesh containers.
const MeshTag = "MESH"

// VertexFormat is the vertex layout of a mesh.
type VertexFormat uint32

const (
	VertexFormatUnknown VertexFormat = iota
	VertexFormatPNCVF32
	VertexFormatP32N8C8V16
)

// ParseVertexFormat maps a metadata string to a format.
func ParseVertexFormat(s string) VertexFormat {
	switch s {
	case "PNCV_F32":
		return VertexFormatPNCVF32
	case "P32N8C8V16":
		return VertexFormatP32N8C8V16
	default:
		return VertexFormatUnknown
	}
}

func (f VertexFormat) String() string {
	switch f {
	case VertexFormatPNCVF32:
		return "PNCV_F32"
	case VertexFormatP32N8C8V16:
		return "P32N8C8V16"
	default:
		return "Unknown"
	}
}

// VertexPNCV is a vertex with float32 position, normal, color and UV.
type VertexPNCV struct {
	Position [3]float32
	Normal   [3]float32
	Color    [3]float32
	UV       [2]float32
}

// MeshBounds holds an axis-aligned box and bounding sphere.
type MeshBounds struct {
	Origin  [3]float32
	Radius  float32
	Extents [3]float32
}

// MeshInfo describes the decoded mesh.
type MeshInfo struct {
	VertexBufferSize uint64
	IndexBufferSize  uint64
	Bounds           MeshBounds
	VertexFormat     VertexFormat
	IndexSize        uint8
	Compression      CompressionMode
	OriginalFile     string
}

type meshMetadata struct {
	VertexBufferSize uint64     `json:"vertex_buffer_size"`
	IndexBufferSize  uint64     `json:"index_buffer_size"`
	IndexSize        uint8      `json:"index_size"`
	OriginalFile     string     `json:"original_file"`
	Bounds           [7]float32 `json:"bounds"`
	VertexFormat     string     `json:"vertex_format"`
	Compression      string     `json:"compression"`
}

// ReadMeshInfo decodes the metadata of a mesh container.
func ReadMeshInfo(f *AssetFile) (*MeshInfo, error) {
	if f.TypeString() != MeshTag {
		return nil, fmt.Errorf("%w: expected %s container, got %q", ErrInvalidAsset, MeshTag, f.TypeString())
	}
	var meta meshMetadata
	if err := json.Unmarshal(f.JSON, &meta); err != nil {
		return nil, fmt.Errorf("%w: mesh metadata: %v", ErrInvalidAsset, err)
	}
	b := meta.Bounds
	return &MeshInfo{
		VertexBufferSize: meta.VertexBufferSize,
		IndexBufferSize:  meta.IndexBufferSize,
		Bounds: MeshBounds{
			Origin:  [3]float32{b[0], b[1], b[2]},
			Radius:  b[3],
			Extents: [3]float32{b[4], b[5], b[6]},
		},
		VertexFormat: ParseVertexFormat(meta.VertexFormat),
		IndexSize:    meta.IndexSize,
		Compression:  ParseCompression(meta.Compression),
		OriginalFile: meta.OriginalFile,
	}, nil
}

// PackMesh builds a mesh container. Vertex and index buffers are
// concatenated and LZ4-compressed together.
func PackMesh(info MeshInfo, vertices, indices []byte) (*AssetFile, error) {
	info.VertexBufferSize = uint64(len(vertices))
	info.IndexBufferSize = uint64(len(indices))
	if info.IndexSize != 0 && len(indices)%int(info.IndexSize) != 0 {
		return nil, fmt.Errorf("index buffer of %d bytes is not a multiple of index size %d", len(indices), info.IndexSize)
	}

	merged := make([]byte, 0, len(vertices)+len(indices))
	merged = append(merged, vertices...)
	merged = append(merged, indices...)

	info.Compression = CompressionLZ4
	blob, err := compress(merged)
	if err != nil {
		return nil, err
	}
	if len(merged) == 0 {
		info.Compression = CompressionNone
	}

	b := info.Bounds
	meta, err := json.Marshal(meshMetadata{
		VertexBufferSize: info.VertexBufferSize,
		IndexBufferSize:  info.IndexBufferSize,
		IndexSize:        info.IndexSize,
		OriginalFile:     info.OriginalFile,
		Bounds:           [7]float32{b.Origin[0], b.Origin[1], b.Origin[2], b.Radius, b.Extents[0], b.Extents[1], b.Extents[2]},
		VertexFormat:     info.VertexFormat.String(),
		Compression:      info.Compression.String(),
	})
	if err != nil {
		return nil, err
	}

	f := &AssetFile{Version: 1, JSON: meta, Blob: blob}
	copy(f.Type[:], MeshTag)
	return f, nil
}

// UnpackMesh restores the vertex and index buffers of a mesh container.
func UnpackMesh(info *MeshInfo, blob []byte) (vertices, indices []byte, err error) {
	if info.VertexBufferSize > maxSectionSize || info.IndexBufferSize > maxSectionSize {
		return nil, nil, fmt.Errorf("%w: mesh buffers of %d and %d bytes exceed %d", ErrInvalidAsset, info.VertexBufferSize, info.IndexBufferSize, maxSectionSize)
	}
	total := info.VertexBufferSize + info.IndexBufferSize
	if total > maxSectionSize {
		return nil, nil, fmt.Errorf("%w: mesh payload of %d bytes exceeds %d", ErrInvalidAsset, total, maxSectionSize)
	}
	data, err := unpackBlob(info.Compression, blob, total)
	if err != nil {
		return nil, nil, err
	}
	return data[:info.VertexBufferSize], data[info.VertexBufferSize:], nil
}

// EncodeVertices serializes vertices in the PNCV_F32 layout.
func EncodeVertices(vs []VertexPNCV) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = binary.Write(&buf, binary.LittleEndian, vs)
	return buf.Bytes()
}

// DecodeVertices parses a PNCV_F32 vertex buffer.
func DecodeVertices(data []byte) ([]VertexPNCV, error) {
	size := binary.Size(VertexPNCV{})
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: vertex buffer of %d bytes is not a multiple of %d", ErrInvalidAsset, len(data), size)
	}
	vs := make([]VertexPNCV, len(data)/size)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// CalculateBounds returns the axis-aligned box and bounding sphere of the
// vertex positions. The sphere is centered on the box origin.
func CalculateBounds(vs []VertexPNCV) MeshBounds {
	if len(vs) == 0 {
		return MeshBounds{}
	}

	lo := [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi := [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, v := range vs {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}

	var b MeshBounds
	for i := 0; i < 3; i++ {
		b.Extents[i] = (hi[i] - lo[i]) / 2
		b.Origin[i] = b.Extents[i] + lo[i]
	}

	var r2 float64
	for _, v := range vs {
		var d float64
		for i := 0; i < 3; i++ {
			o := float64(v.Position[i] - b.Origin[i])
			d += o * o
		}
		r2 = max(r2, d)
	}
	b.Radius = float32(math.Sqrt(r2))
	return b
}
