package convert

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"portalscene/internal/utils"
)

// FileEntry is one file in a level bundle. Offset is relative to the end of
// the index.
type FileEntry struct {
	Name   string
	Offset uint32
	Size   uint32
}

// maxPkgString guards against reading a corrupt length prefix.
const maxPkgString = 1 << 16

func readPkgString(r io.Reader) (string, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return "", err
	}
	if size > maxPkgString {
		return "", fmt.Errorf("string length %d too large", size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadPkgIndex reads the version string and file table.
func ReadPkgIndex(r io.Reader) (string, []FileEntry, error) {
	version, err := readPkgString(r)
	if err != nil {
		return "", nil, fmt.Errorf("convert: read version: %w", err)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return "", nil, fmt.Errorf("convert: read file count: %w", err)
	}

	entries := make([]FileEntry, 0, min(count, 4096))
	for i := uint32(0); i < count; i++ {
		name, err := readPkgString(r)
		if err != nil {
			return "", nil, fmt.Errorf("convert: read entry %d name: %w", i, err)
		}
		var pos [2]uint32
		if err := binary.Read(r, binary.LittleEndian, &pos); err != nil {
			return "", nil, fmt.Errorf("convert: read entry %s: %w", name, err)
		}
		entries = append(entries, FileEntry{Name: name, Offset: pos[0], Size: pos[1]})
	}
	return version, entries, nil
}

// safeJoin rejects entry names that would land outside root.
func safeJoin(root, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("convert: entry %q escapes output directory", name)
	}
	return filepath.Join(root, clean), nil
}

// ExtractPkg unpacks a level bundle into outputDir.
func ExtractPkg(pkgPath, outputDir string) error {
	utils.Debug("Unpacker: Opening package %s", pkgPath)
	f, err := os.Open(pkgPath)
	if err != nil {
		return fmt.Errorf("convert: open %s: %w", pkgPath, err)
	}
	defer f.Close()

	version, entries, err := ReadPkgIndex(f)
	if err != nil {
		return fmt.Errorf("%s: %w", pkgPath, err)
	}
	utils.Debug("Unpacker: Package Version: %s, File Count: %d", version, len(entries))

	dataStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("convert: seek %s: %w", pkgPath, err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("convert: mkdir %s: %w", outputDir, err)
	}

	for i, entry := range entries {
		if i%10 == 0 || i == len(entries)-1 {
			utils.Debug("Unpacker: Extracting file %d/%d: %s", i+1, len(entries), entry.Name)
		}
		dest, err := safeJoin(outputDir, entry.Name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("convert: mkdir for %s: %w", entry.Name, err)
		}

		section := io.NewSectionReader(f, dataStart+int64(entry.Offset), int64(entry.Size))
		if err := writeFile(dest, section, int64(entry.Size)); err != nil {
			return fmt.Errorf("convert: extract %s: %w", entry.Name, err)
		}
	}

	utils.Info("Unpacker: extracted %d files from %s", len(entries), filepath.Base(pkgPath))
	return nil
}

func writeFile(dest string, r io.Reader, size int64) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.CopyN(out, r, size); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// BulkConvertTextures decodes every .tex under root into the PNG cache using
// a bounded pool of workers. It returns the number converted; individual
// failures are logged.
func BulkConvertTextures(ctx context.Context, root, outDir string, workers int) (int, error) {
	if workers <= 0 {
		workers = 10
	}
	TextureOutDir = outDir
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return 0, fmt.Errorf("convert: mkdir %s: %w", outDir, err)
		}
	}

	utils.Info("Starting bulk texture conversion (%d workers)...", workers)

	paths := make(chan string)
	var converted int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range paths {
				if _, err := ConvertTexture(p); err != nil {
					utils.Error("Failed to convert %s: %v", p, err)
					continue
				}
				atomic.AddInt32(&converted, 1)
			}
		}()
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".tex") {
			return nil
		}
		select {
		case paths <- path:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	close(paths)
	wg.Wait()

	n := int(atomic.LoadInt32(&converted))
	utils.Info("Bulk conversion finished. Processed %d textures.", n)
	if walkErr != nil {
		return n, fmt.Errorf("convert: walk %s: %w", root, walkErr)
	}
	return n, nil
}
