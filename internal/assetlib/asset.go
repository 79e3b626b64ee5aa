package assetlib

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pierrec/lz4/v4"
)

// maxSectionSize bounds the JSON and blob lengths accepted from a header.
// Decoded payloads are held to the same limit.
const maxSectionSize = 1 << 30

// headerSize is the encoded size of header.
const headerSize = 16

// ErrInvalidAsset is returned for truncated or malformed containers.
var ErrInvalidAsset = errors.New("invalid asset file")

// AssetFile is the in-memory form of an asset container.
type AssetFile struct {
	Type    [4]byte
	Version uint32
	JSON    []byte
	Blob    []byte
}

// TypeString returns the type tag as a string.
func (f *AssetFile) TypeString() string {
	return string(f.Type[:])
}

type header struct {
	Type    [4]byte
	Version uint32
	JSONLen uint32
	BlobLen uint32
}

// Encode writes the container to w.
func Encode(w io.Writer, f *AssetFile) error {
	if len(f.JSON) > maxSectionSize || len(f.Blob) > maxSectionSize {
		return fmt.Errorf("%w: section exceeds %d bytes", ErrInvalidAsset, maxSectionSize)
	}
	h := header{
		Type:    f.Type,
		Version: f.Version,
		JSONLen: uint32(len(f.JSON)),
		BlobLen: uint32(len(f.Blob)),
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if _, err := w.Write(f.JSON); err != nil {
		return err
	}
	_, err := w.Write(f.Blob)
	return err
}

// Decode reads a container from r.
func Decode(r io.Reader) (*AssetFile, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrInvalidAsset, err)
	}
	if h.JSONLen > maxSectionSize || h.BlobLen > maxSectionSize {
		return nil, fmt.Errorf("%w: section exceeds %d bytes", ErrInvalidAsset, maxSectionSize)
	}

	f := &AssetFile{Type: h.Type, Version: h.Version}
	var err error
	if f.JSON, err = readSection(r, h.JSONLen); err != nil {
		return nil, fmt.Errorf("%w: reading metadata: %v", ErrInvalidAsset, err)
	}
	if f.Blob, err = readSection(r, h.BlobLen); err != nil {
		return nil, fmt.Errorf("%w: reading blob: %v", ErrInvalidAsset, err)
	}
	return f, nil
}

// readSection reads exactly n bytes. The buffer grows with the data actually
// read, so a lying header cannot force a large allocation.
func readSection(r io.Reader, n uint32) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the container to a file.
func WriteFile(fs billy.Filesystem, name string, f *AssetFile) error {
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		return err
	}
	return util.WriteFile(fs, name, buf.Bytes(), 0644)
}

// ReadFile decodes a container from a file.
func ReadFile(fs billy.Filesystem, name string) (*AssetFile, error) {
	data, err := util.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}
	if len(data) >= headerSize {
		declared := uint64(binary.LittleEndian.Uint32(data[8:])) + uint64(binary.LittleEndian.Uint32(data[12:]))
		if declared > uint64(len(data)-headerSize) {
			return nil, fmt.Errorf("%s: %w: header declares %d bytes, file holds %d", name, ErrInvalidAsset, declared, len(data)-headerSize)
		}
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// CompressionMode selects how the blob is stored.
type CompressionMode uint32

const (
	CompressionNone CompressionMode = iota
	CompressionLZ4
)

// ParseCompression maps a metadata string to a mode. Unknown strings mean
// the blob is stored uncompressed.
func ParseCompression(s string) CompressionMode {
	if s == "LZ4" {
		return CompressionLZ4
	}
	return CompressionNone
}

func (c CompressionMode) String() string {
	if c == CompressionLZ4 {
		return "LZ4"
	}
	return "None"
}

// compress returns the LZ4 block encoding of src.
func compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	var c lz4.Compressor
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	return dst[:n], nil
}

// decompress expands an LZ4 block that must decode to exactly size bytes.
func decompress(src []byte, size uint64) ([]byte, error) {
	if size > maxSectionSize {
		return nil, fmt.Errorf("%w: declared size %d is too large", ErrInvalidAsset, size)
	}
	dst := make([]byte, size)
	if size == 0 {
		return dst, nil
	}
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", ErrInvalidAsset, err)
	}
	if uint64(n) != size {
		return nil, fmt.Errorf("%w: decompressed %d bytes, expected %d", ErrInvalidAsset, n, size)
	}
	return dst, nil
}

// unpackBlob returns the raw contents of a blob of the given decoded size.
func unpackBlob(mode CompressionMode, blob []byte, size uint64) ([]byte, error) {
	if mode == CompressionLZ4 {
		return decompress(blob, size)
	}
	if uint64(len(blob)) != size {
		return nil, fmt.Errorf("%w: blob holds %d bytes, expected %d", ErrInvalidAsset, len(blob), size)
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}
