package app

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/specialistvlad/vkrecipe/internal/assetlib"
)

// bakers maps a source extension to the output extension and the function
// producing the asset.
var bakers = map[string]struct {
	ext  string
	kind string
	bake func(billy.Filesystem, string) (*assetlib.AssetFile, error)
}{
	".png": {ext: ".tx", kind: "texture", bake: assetlib.BakeTexture},
	".obj": {ext: ".mesh", kind: "mesh", bake: assetlib.BakeMesh},
}

// BakeAssets converts every .png and .obj file directly inside dir into a
// .tx texture or .mesh asset written next to its source. Files that fail to
// convert are reported together after the rest of the directory is baked.
func BakeAssets(outW io.Writer, dir string) error {
	return bakeDir(outW, osfs.New(dir))
}

func bakeDir(outW io.Writer, fs billy.Filesystem) error {
	logger := newLogger("info", "text", outW)
	logger.Info("Baking asset directory.", "dir", fs.Root())

	entries, err := fs.ReadDir(".")
	if err != nil {
		return fmt.Errorf("failed to read asset directory: %w", err)
	}

	var errs []string
	baked := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(path.Ext(name))
		b, ok := bakers[ext]
		if !ok {
			continue
		}

		out := strings.TrimSuffix(name, path.Ext(name)) + b.ext
		asset, err := b.bake(fs, name)
		if err == nil {
			err = assetlib.WriteFile(fs, out, asset)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		baked++
		logger.Info("Baked asset.", "kind", b.kind, "source", name, "output", out, "blob_bytes", len(asset.Blob))
	}

	if len(errs) > 0 {
		return fmt.Errorf("asset bake failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Info("Asset bake complete.", "assets", baked)
	return nil
}
