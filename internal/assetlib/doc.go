// Package assetlib reads and writes the binary asset containers used by the
// tutorial renderer: a fixed header, a JSON metadata document and a binary
// blob, optionally LZ4-compressed. PNG images and Wavefront OBJ meshes can be
// baked into textures and meshes.
//
// Layout (all integers little-endian):
//
//	[4]byte  type tag ("TEXI", "MESH")
//	uint32   format version
//	uint32   JSON length
//	uint32   blob length
//	[]byte   JSON metadata
//	[]byte   blob
package assetlib
