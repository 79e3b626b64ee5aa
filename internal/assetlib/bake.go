package assetlib

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"

	"github.com/go-git/go-billy/v5"
)

// BakeTexture decodes a PNG image and packs it as an RGBA8 texture.
func BakeTexture(fs billy.Filesystem, name string) (*AssetFile, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	return PackTexture(TextureInfo{
		Format:       TextureFormatRGBA8,
		Width:        uint32(b.Dx()),
		Height:       uint32(b.Dy()),
		OriginalFile: name,
	}, rgba.Pix)
}

// BakeMesh parses an OBJ file and packs it as a PNCV_F32 mesh with uint32
// indices and precomputed bounds.
func BakeMesh(fs billy.Filesystem, name string) (*AssetFile, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vertices, indices, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse mesh %q: %w", name, err)
	}

	indexData := make([]byte, 4*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(indexData[i*4:], idx)
	}

	return PackMesh(MeshInfo{
		Bounds:       CalculateBounds(vertices),
		VertexFormat: VertexFormatPNCVF32,
		IndexSize:    4,
		OriginalFile: name,
	}, EncodeVertices(vertices), indexData)
}
