package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/specialistvlad/vkrecipe/internal/assetlib"
)

// InspectAsset prints the header and metadata of an asset file to outW. A
// non-empty query selects part of the metadata with JSONPath.
func InspectAsset(outW io.Writer, path, query string) error {
	f, err := assetlib.ReadFile(osfs.New(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to read asset: %w", err)
	}

	doc, err := assetlib.Inspect(f, query)
	if err != nil {
		return err
	}

	if query == "" {
		fmt.Fprintf(outW, "type: %s\nversion: %d\nmetadata: %d bytes\nblob: %d bytes\n",
			f.TypeString(), f.Version, len(f.JSON), len(f.Blob))
	}
	fmt.Fprintln(outW, assetlib.Format(doc))
	return nil
}
