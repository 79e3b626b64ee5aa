package assetlib

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() []VertexPNCV {
	return []VertexPNCV{
		{Position: [3]float32{-1, -2, 0}, Normal: [3]float32{0, 0, 1}, Color: [3]float32{1, 0, 0}, UV: [2]float32{0, 0}},
		{Position: [3]float32{3, -2, 0}, Normal: [3]float32{0, 0, 1}, Color: [3]float32{0, 1, 0}, UV: [2]float32{1, 0}},
		{Position: [3]float32{3, 2, 0}, Normal: [3]float32{0, 0, 1}, Color: [3]float32{0, 0, 1}, UV: [2]float32{1, 1}},
		{Position: [3]float32{-1, 2, 0}, Normal: [3]float32{0, 0, 1}, Color: [3]float32{1, 1, 1}, UV: [2]float32{0, 1}},
	}
}

func TestCalculateBounds(t *testing.T) {
	b := CalculateBounds(quad())
	assert.Equal(t, [3]float32{1, 0, 0}, b.Origin)
	assert.Equal(t, [3]float32{2, 2, 0}, b.Extents)
	assert.InDelta(t, 2.8284271, b.Radius, 1e-5)
}

func TestCalculateBounds_NegativeOnly(t *testing.T) {
	b := CalculateBounds([]VertexPNCV{
		{Position: [3]float32{-4, -4, -4}},
		{Position: [3]float32{-2, -2, -2}},
	})
	assert.Equal(t, [3]float32{-3, -3, -3}, b.Origin)
	assert.Equal(t, [3]float32{1, 1, 1}, b.Extents)
}

func TestCalculateBounds_Empty(t *testing.T) {
	assert.Equal(t, MeshBounds{}, CalculateBounds(nil))
}

func TestVertices_EncodeDecode(t *testing.T) {
	data := EncodeVertices(quad())
	assert.Len(t, data, 4*11*4)

	got, err := DecodeVertices(data)
	require.NoError(t, err)
	if diff := cmp.Diff(quad(), got); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}

	_, err = DecodeVertices(data[:5])
	assert.ErrorIs(t, err, ErrInvalidAsset)
}

func TestMesh_PackUnpack(t *testing.T) {
	vs := quad()
	vertices := EncodeVertices(vs)
	indices := make([]byte, 6*4)
	for i, idx := range []uint32{0, 1, 2, 2, 3, 0} {
		binary.LittleEndian.PutUint32(indices[i*4:], idx)
	}

	packed, err := PackMesh(MeshInfo{
		Bounds:       CalculateBounds(vs),
		VertexFormat: VertexFormatPNCVF32,
		IndexSize:    4,
		OriginalFile: "models/quad.obj",
	}, vertices, indices)
	require.NoError(t, err)
	assert.Equal(t, MeshTag, packed.TypeString())

	info, err := ReadMeshInfo(packed)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(vertices)), info.VertexBufferSize)
	assert.Equal(t, uint64(len(indices)), info.IndexBufferSize)
	assert.Equal(t, VertexFormatPNCVF32, info.VertexFormat)
	assert.Equal(t, CompressionLZ4, info.Compression)
	assert.Equal(t, CalculateBounds(vs), info.Bounds)

	gotV, gotI, err := UnpackMesh(info, packed.Blob)
	require.NoError(t, err)
	assert.Equal(t, vertices, gotV)
	assert.Equal(t, indices, gotI)
}

func TestUnpackMesh_OversizedBuffers(t *testing.T) {
	tests := []struct {
		name string
		meta string
	}{
		{
			name: "sum overflows",
			meta: `{"vertex_buffer_size":9223372036854775808,"index_buffer_size":9223372036854775808,"compression":"None","vertex_format":"PNCV_F32","index_size":4}`,
		},
		{
			name: "index buffer wraps the sum to zero",
			meta: `{"vertex_buffer_size":1,"index_buffer_size":18446744073709551615,"compression":"LZ4","vertex_format":"PNCV_F32","index_size":4}`,
		},
		{
			name: "sum exceeds limit",
			meta: `{"vertex_buffer_size":1073741824,"index_buffer_size":1,"compression":"LZ4","vertex_format":"PNCV_F32","index_size":4}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &AssetFile{Version: 1, JSON: []byte(tt.meta)}
			copy(f.Type[:], MeshTag)
			info, err := ReadMeshInfo(f)
			require.NoError(t, err)

			assert.NotPanics(t, func() {
				_, _, err = UnpackMesh(info, nil)
			})
			assert.ErrorIs(t, err, ErrInvalidAsset)
		})
	}
}

func TestPackMesh_IndexSizeMismatch(t *testing.T) {
	_, err := PackMesh(MeshInfo{IndexSize: 4}, nil, make([]byte, 6))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a multiple of index size 4")
}

func TestParseVertexFormat(t *testing.T) {
	for _, f := range []VertexFormat{VertexFormatPNCVF32, VertexFormatP32N8C8V16} {
		assert.Equal(t, f, ParseVertexFormat(f.String()))
	}
	assert.Equal(t, VertexFormatUnknown, ParseVertexFormat("bogus"))
}
