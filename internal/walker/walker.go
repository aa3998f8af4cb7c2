// Package walker lists the files of a knowledge-base directory.
package walker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ziadkadry99/docqa/internal/extract"
)

// DefaultMaxFileSize is the maximum file size to process (50 MB).
const DefaultMaxFileSize int64 = 50 << 20

// FileInfo holds metadata about a single file discovered during traversal.
type FileInfo struct {
	Path        string       // Absolute path on disk.
	RelPath     string       // Slash-separated path relative to the root.
	Size        int64        // File size in bytes.
	Kind        extract.Kind // Empty when the extension is not supported.
	ContentHash string       // SHA-256 hex digest of the file content.
}

// Supported reports whether the file has an extension the extractor handles.
func (f FileInfo) Supported() bool { return f.Kind != "" }

// Config controls the behaviour of Walk.
type Config struct {
	RootDir     string   // Root directory to walk.
	Include     []string // Glob patterns; only matching files are included.
	Exclude     []string // Glob patterns; matching files are excluded.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// Walk traverses the directory tree rooted at cfg.RootDir and returns every
// regular file that passes filtering, sorted by relative path. Hidden files,
// default-excluded directories and .gitignore matches are skipped.
// Unsupported extensions are kept with an empty Kind so callers can report them.
func Walk(cfg Config) ([]FileInfo, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", root)
	}

	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	filter, err := NewFilter(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	if err := filter.LoadGitignore(filepath.Join(root, ".gitignore")); err != nil {
		return nil, err
	}

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped rather than failing the walk.
			return nil
		}

		if d.IsDir() {
			if path != root && filter.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath := filepath.ToSlash(rel)
		if !filter.Allow(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxSize {
			return nil
		}

		hash, err := HashFile(path)
		if err != nil {
			return nil
		}

		kind, _ := extract.KindFromPath(path)
		files = append(files, FileInfo{
			Path:        path,
			RelPath:     relPath,
			Size:        info.Size(),
			Kind:        kind,
			ContentHash: hash,
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// HashFile computes the SHA-256 digest of the given file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
