package sheet

import (
	"os"
	"path/filepath"
	"strings"
)

// assetDirs are directory names commonly holding sprite sheets. "Assests"
// is a misspelling found in real projects.
var assetDirs = []string{"Assets", "Assests", "assets", "sprites", "images", "textures"}

// ResolvePath locates the image a legacy animation file refers to. It tries,
// in order: sheetRef as an absolute path; relative to the animation file's
// directory; relative to the working directory; inside an asset directory
// of the animation directory or up to two levels above; the bare file name in
// the animation directory, its parents and their asset directories; and a
// case-insensitive file name match in the animation directory.
func ResolvePath(animFile, sheetRef string) (string, bool) {
	if sheetRef == "" {
		return "", false
	}
	ref := filepath.FromSlash(sheetRef)
	if filepath.IsAbs(ref) {
		if fileExists(ref) {
			return filepath.Clean(ref), true
		}
	}
	animDir := filepath.Dir(animFile)
	if abs, err := filepath.Abs(animDir); err == nil {
		animDir = abs
	}

	try := func(strategy string, candidate string) (string, bool) {
		if !fileExists(candidate) {
			return "", false
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			abs = candidate
		}
		sheetLog().Debug().Str("strategy", strategy).Str("path", abs).Msg("sheet path resolved")
		return abs, true
	}

	if !filepath.IsAbs(ref) {
		if p, ok := try("animation dir", filepath.Join(animDir, ref)); ok {
			return p, true
		}
		if p, ok := try("working dir", ref); ok {
			return p, true
		}
		for _, asset := range assetDirs {
			dir := animDir
			for range 3 {
				if p, ok := try("asset dir", filepath.Join(dir, asset, ref)); ok {
					return p, true
				}
				parent := filepath.Dir(dir)
				if parent == dir {
					break
				}
				dir = parent
			}
		}
	}

	base := filepath.Base(ref)
	for _, dir := range searchDirs(animDir) {
		if p, ok := try("file name", filepath.Join(dir, base)); ok {
			return p, true
		}
	}

	if entries, err := os.ReadDir(animDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(e.Name(), base) {
				if p, ok := try("case-insensitive", filepath.Join(animDir, e.Name())); ok {
					return p, true
				}
			}
		}
	}

	sheetLog().Debug().Str("ref", sheetRef).Str("animation", animFile).Msg("sheet path not resolved")
	return "", false
}

// searchDirs lists the animation directory, then up to three parents each
// followed by its existing asset directories.
func searchDirs(animDir string) []string {
	dirs := []string{animDir}
	dir := animDir
	for range 3 {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
		dirs = append(dirs, dir)
		for _, asset := range assetDirs {
			if p := filepath.Join(dir, asset); dirExists(p) {
				dirs = append(dirs, p)
			}
		}
	}
	return dirs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
