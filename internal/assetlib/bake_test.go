package assetlib

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit quad
o quad
v -1 -2 0
v 3 -2 0
v 3 2 0
v -1 2 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJ_FanTriangulatesQuad(t *testing.T) {
	vertices, indices, err := ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, indices)
	require.Len(t, vertices, 4)
	assert.Equal(t, [3]float32{3, 2, 0}, vertices[2].Position)
	assert.Equal(t, [2]float32{1, 0}, vertices[2].UV, "V is flipped")
	assert.Equal(t, [2]float32{0, 1}, vertices[0].UV)
	assert.Equal(t, [3]float32{0, 0, 1}, vertices[1].Normal)
	assert.Equal(t, vertices[1].Normal, vertices[1].Color)
}

func TestParseOBJ_SharedAndRelativeCorners(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f -4 -2 -1
`
	vertices, indices, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, indices)
	assert.Len(t, vertices, 6)
	assert.Equal(t, [3]float32{0, 1, 0}, vertices[5].Position)
	assert.Equal(t, VertexPNCV{}.Normal, vertices[0].Normal, "missing normals stay zero")

	_, indices, err = ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 1 1 0\nf 1 2 3\nf 3 2 1\n"))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 0}, indices)
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "no faces", src: "v 0 0 0\n", want: "no faces found"},
		{name: "index out of range", src: "v 0 0 0\nv 1 0 0\nf 1 2 3\n", want: "line 3"},
		{name: "bad number", src: "v 0 zero 0\n", want: `invalid number "zero"`},
		{name: "degenerate face", src: "v 0 0 0\nf 1 1\n", want: "at least 3 vertices"},
		{name: "missing texcoord", src: "v 0 0 0\nv 1 0 0\nv 1 1 0\nf 1/1 2/1 3/1\n", want: "texcoord"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseOBJ(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBakeMesh(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "quad.obj", []byte(quadOBJ), 0644))

	f, err := BakeMesh(fs, "quad.obj")
	require.NoError(t, err)

	info, err := ReadMeshInfo(f)
	require.NoError(t, err)
	assert.Equal(t, VertexFormatPNCVF32, info.VertexFormat)
	assert.Equal(t, uint8(4), info.IndexSize)
	assert.Equal(t, CompressionLZ4, info.Compression)
	assert.Equal(t, "quad.obj", info.OriginalFile)
	assert.Equal(t, [3]float32{1, 0, 0}, info.Bounds.Origin)
	assert.Equal(t, [3]float32{2, 2, 0}, info.Bounds.Extents)

	vdata, idata, err := UnpackMesh(info, f.Blob)
	require.NoError(t, err)
	vertices, err := DecodeVertices(vdata)
	require.NoError(t, err)
	assert.Len(t, vertices, 4)
	require.Len(t, idata, 6*4)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(idata[20:]))
}

func TestBakeTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "tile.png", buf.Bytes(), 0644))

	f, err := BakeTexture(fs, "tile.png")
	require.NoError(t, err)

	info, err := ReadTextureInfo(f)
	require.NoError(t, err)
	want := &TextureInfo{
		TextureSize:  8,
		Format:       TextureFormatRGBA8,
		Compression:  CompressionLZ4,
		Width:        2,
		Height:       1,
		OriginalFile: "tile.png",
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("texture info mismatch (-want +got):\n%s", diff)
	}

	pixels, err := UnpackTexture(info, f.Blob)
	require.NoError(t, err)
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, pixels)
}

func TestBakeTexture_NotAnImage(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "fake.png", []byte("not a png"), 0644))

	_, err := BakeTexture(fs, "fake.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode texture")
}
