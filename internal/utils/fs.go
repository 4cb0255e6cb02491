package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// AssetsRoot is an extra directory searched after the local assets folder.
var AssetsRoot string

var errFound = errors.New("found")

// DiscoverAssets picks the assets root from a flag value or the usual install paths.
func DiscoverAssets(customPath string) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			AssetsRoot = customPath
			Info("Using custom assets path: %s", AssetsRoot)
			return
		}
		Warn("Custom assets path NOT FOUND: %s", customPath)
	}

	home, _ := os.UserHomeDir()
	possiblePaths := []string{
		filepath.Join(home, ".local/share/portalscene/assets"),
		"/usr/share/portalscene/assets",
	}

	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			AssetsRoot = p
			Info("Discovered assets at: %s", AssetsRoot)
			return
		}
	}

	Debug("No shared assets folder found, using ./assets only")
}

func ResolveAssetPath(relPath string) string {
	localPath := filepath.Join("assets", relPath)
	if _, err := os.Stat(localPath); err == nil {
		return localPath
	}

	if AssetsRoot != "" {
		sharedPath := filepath.Join(AssetsRoot, relPath)
		if _, err := os.Stat(sharedPath); err == nil {
			return sharedPath
		}
	}

	return localPath
}

// FindTextureFile looks for a texture by name across the converted cache,
// unpacked bundles and asset folders. Returns "" when nothing matches.
func FindTextureFile(name string) string {
	if name == "" {
		return ""
	}

	cleanName := strings.TrimPrefix(filepath.ToSlash(name), "textures/")
	cleanName = strings.TrimSuffix(cleanName, filepath.Ext(cleanName))

	searchDirs := []string{
		"converted",
		"tmp/textures",
		"tmp",
		"assets/textures",
		"assets",
	}
	if AssetsRoot != "" {
		searchDirs = append(searchDirs, filepath.Join(AssetsRoot, "textures"), AssetsRoot)
	}

	extensions := []string{".png", ".tex", ".jpg", ".jpeg"}
	for _, dir := range searchDirs {
		if p := filepath.Join(dir, name); fileExists(p) {
			return p
		}
		for _, ext := range extensions {
			if p := filepath.Join(dir, cleanName+ext); fileExists(p) {
				return p
			}
		}
	}

	// Deep search by base name.
	var foundPath string
	targetBase := filepath.Base(cleanName)
	for _, d := range []string{"assets", AssetsRoot} {
		if d == "" || !fileExists(d) {
			continue
		}
		filepath.Walk(d, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			ext := filepath.Ext(base)
			if strings.TrimSuffix(base, ext) == targetBase && isTextureExt(ext) {
				foundPath = path
				return errFound
			}
			return nil
		})
		if foundPath != "" {
			break
		}
	}
	return foundPath
}

func isTextureExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".tex", ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
