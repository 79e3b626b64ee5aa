package assetlib

import (
	"encoding/json"
	"fmt"
)

// TextureTag identifies texture containers.
const TextureTag = "TEXI"

// TextureFormat is the pixel layout of a texture.
type TextureFormat uint32

const (
	TextureFormatUnknown TextureFormat = iota
	TextureFormatRGBA8
)

// ParseTextureFormat maps a metadata string to a format.
func ParseTextureFormat(s string) TextureFormat {
	if s == "RGBA8" {
		return TextureFormatRGBA8
	}
	return TextureFormatUnknown
}

func (f TextureFormat) String() string {
	if f == TextureFormatRGBA8 {
		return "RGBA8"
	}
	return "Unknown"
}

// TextureInfo describes the decoded texture.
type TextureInfo struct {
	TextureSize  uint64
	Format       TextureFormat
	Compression  CompressionMode
	Width        uint32
	Height       uint32
	OriginalFile string
}

type textureMetadata struct {
	Format       string `json:"format"`
	Width        uint32 `json:"width"`
	Height       uint32 `json:"height"`
	BufferSize   uint64 `json:"buffer_size"`
	OriginalFile string `json:"original_file"`
	Compression  string `json:"compression"`
}

// ReadTextureInfo decodes the metadata of a texture container.
func ReadTextureInfo(f *AssetFile) (*TextureInfo, error) {
	if f.TypeString() != TextureTag {
		return nil, fmt.Errorf("%w: expected %s container, got %q", ErrInvalidAsset, TextureTag, f.TypeString())
	}
	var meta textureMetadata
	if err := json.Unmarshal(f.JSON, &meta); err != nil {
		return nil, fmt.Errorf("%w: texture metadata: %v", ErrInvalidAsset, err)
	}
	return &TextureInfo{
		TextureSize:  meta.BufferSize,
		Format:       ParseTextureFormat(meta.Format),
		Compression:  ParseCompression(meta.Compression),
		Width:        meta.Width,
		Height:       meta.Height,
		OriginalFile: meta.OriginalFile,
	}, nil
}

// PackTexture builds a texture container from raw pixels. Pixels are always
// LZ4-compressed; an empty buffer is stored uncompressed.
func PackTexture(info TextureInfo, pixels []byte) (*AssetFile, error) {
	if info.TextureSize == 0 {
		info.TextureSize = uint64(len(pixels))
	}
	if info.TextureSize != uint64(len(pixels)) {
		return nil, fmt.Errorf("texture size %d does not match pixel buffer of %d bytes", info.TextureSize, len(pixels))
	}
	if info.Format == TextureFormatRGBA8 && uint64(info.Width)*uint64(info.Height)*4 != info.TextureSize {
		return nil, fmt.Errorf("RGBA8 texture %dx%d needs %d bytes, got %d",
			info.Width, info.Height, uint64(info.Width)*uint64(info.Height)*4, info.TextureSize)
	}

	info.Compression = CompressionLZ4
	blob, err := compress(pixels)
	if err != nil {
		return nil, err
	}
	if len(pixels) == 0 {
		info.Compression = CompressionNone
	}

	meta, err := json.Marshal(textureMetadata{
		Format:       info.Format.String(),
		Width:        info.Width,
		Height:       info.Height,
		BufferSize:   info.TextureSize,
		OriginalFile: info.OriginalFile,
		Compression:  info.Compression.String(),
	})
	if err != nil {
		return nil, err
	}

	f := &AssetFile{Version: 1, JSON: meta, Blob: blob}
	copy(f.Type[:], TextureTag)
	return f, nil
}

// UnpackTexture restores the pixel buffer of a texture container.
func UnpackTexture(info *TextureInfo, blob []byte) ([]byte, error) {
	return unpackBlob(info.Compression, blob, info.TextureSize)
}
