package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are directory names never descended into, compared case-insensitively.
var skipDirs = map[string]bool{
	".git":         true,
	".docqa":       true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	".idea":        true,
	".vscode":      true,
}

// Filter decides which files under a knowledge-base root are indexed.
type Filter struct {
	include   []string
	exclude   []string
	gitignore []ignoreRule
}

type ignoreRule struct {
	pattern  string
	dirOnly  bool // "build/": matches directories only
	anchored bool // contains a slash: matched from the root
}

// NewFilter returns a filter for the given include and exclude globs.
// An empty include list admits every file.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.include, err = compileGlobs("include", include); err != nil {
		return nil, err
	}
	if f.exclude, err = compileGlobs("exclude", exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func compileGlobs(kind string, patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("walker: invalid %s pattern %q", kind, p)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadGitignore adds the rules of a .gitignore file. Negations are not
// supported and are skipped. A missing file is not an error.
func (f *Filter) LoadGitignore(file string) error {
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("walker: read %s: %w", file, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		r := ignoreRule{dirOnly: strings.HasSuffix(line, "/")}
		line = strings.TrimSuffix(line, "/")
		r.anchored = strings.Contains(line, "/")
		r.pattern = strings.TrimPrefix(line, "/")
		if !doublestar.ValidatePattern(r.pattern) {
			continue
		}
		f.gitignore = append(f.gitignore, r)
	}
	return nil
}

// SkipDir reports whether a directory named name is pruned from the walk.
func (f *Filter) SkipDir(name string) bool {
	return skipDirs[strings.ToLower(name)]
}

// Allow reports whether the file at the slash-separated relPath is indexed.
// Hidden files are never indexed.
func (f *Filter) Allow(relPath string) bool {
	if strings.HasPrefix(path.Base(relPath), ".") {
		return false
	}
	if f.ignored(relPath) {
		return false
	}
	if len(f.include) > 0 && !matchGlobs(relPath, f.include) {
		return false
	}
	return !matchGlobs(relPath, f.exclude)
}

func (f *Filter) ignored(relPath string) bool {
	parts := strings.Split(relPath, "/")
	for _, r := range f.gitignore {
		if r.anchored {
			// Anchored rules match the file itself or any directory above it.
			for i := len(parts); i >= 1; i-- {
				if r.dirOnly && i == len(parts) {
					continue
				}
				if ok, _ := doublestar.Match(r.pattern, strings.Join(parts[:i], "/")); ok {
					return true
				}
			}
			continue
		}

		names := parts
		if r.dirOnly {
			names = parts[:len(parts)-1]
		}
		for _, n := range names {
			if ok, _ := doublestar.Match(r.pattern, n); ok {
				return true
			}
		}
	}
	return false
}

// matchGlobs tries each pattern against the full path, then the base name,
// so "*.pdf" matches at any depth.
func matchGlobs(relPath string, patterns []string) bool {
	base := path.Base(relPath)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}
