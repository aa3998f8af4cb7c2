package walker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/docqa/internal/extract"
)

// writeTree creates files (relative path -> content) under a fresh temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func sampleTree(t *testing.T) string {
	return writeTree(t, map[string]string{
		"notes.txt":             "Paris is the capital of France.",
		"guide.md":              "# Guide",
		"reports/q1.pdf":        "%PDF-1.4",
		"reports/archive/q0.md": "old",
		"data/table.xlsx":       "PK",
		"image.png":             "\x89PNG",
		".hidden.txt":           "secret",
		".git/config":           "[core]",
		"node_modules/x/a.txt":  "dep",
	})
}

func TestWalk_BasicTraversal(t *testing.T) {
	root := sampleTree(t)

	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	got := strings.Join(relPaths(files), ",")
	want := "data/table.xlsx,guide.md,image.png,notes.txt,reports/archive/q0.md,reports/q1.pdf"
	if got != want {
		t.Errorf("Walk() = %s, want %s", got, want)
	}
}

func TestWalk_FileInfoFields(t *testing.T) {
	root := sampleTree(t)

	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	kinds := map[string]extract.Kind{
		"data/table.xlsx": extract.KindSpreadsheet,
		"guide.md":        extract.KindText,
		"image.png":       "",
		"notes.txt":       extract.KindText,
		"reports/q1.pdf":  extract.KindPDF,
	}
	for _, f := range files {
		if !filepath.IsAbs(f.Path) {
			t.Errorf("Path %q is not absolute", f.Path)
		}
		if len(f.ContentHash) != 64 {
			t.Errorf("ContentHash for %s has length %d, want 64", f.RelPath, len(f.ContentHash))
		}
		if want, ok := kinds[f.RelPath]; ok {
			if f.Kind != want {
				t.Errorf("Kind(%s) = %q, want %q", f.RelPath, f.Kind, want)
			}
			if f.Supported() != (want != "") {
				t.Errorf("Supported(%s) = %v", f.RelPath, f.Supported())
			}
		}
		if f.RelPath == "notes.txt" && f.Size != int64(len("Paris is the capital of France.")) {
			t.Errorf("Size(notes.txt) = %d", f.Size)
		}
	}
}

func TestWalk_IncludeFilter(t *testing.T) {
	root := sampleTree(t)

	files, err := Walk(Config{RootDir: root, Include: []string{"*.md"}})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	got := strings.Join(relPaths(files), ",")
	if got != "guide.md,reports/archive/q0.md" {
		t.Errorf("include *.md = %s", got)
	}
}

func TestWalk_DoubleStarExclude(t *testing.T) {
	root := sampleTree(t)

	files, err := Walk(Config{RootDir: root, Exclude: []string{"reports/**", "*.png"}})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	got := strings.Join(relPaths(files), ",")
	if got != "data/table.xlsx,guide.md,notes.txt" {
		t.Errorf("exclude = %s", got)
	}
}

func TestWalk_SkipsLargeFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"small.txt": "tiny",
		"big.txt":   strings.Repeat("x", 2048),
	})

	files, err := Walk(Config{RootDir: root, MaxFileSize: 1024})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if got := strings.Join(relPaths(files), ","); got != "small.txt" {
		t.Errorf("Walk() = %s, want small.txt", got)
	}
}

func TestWalk_Gitignore(t *testing.T) {
	root := writeTree(t, map[string]string{
		".gitignore":       "# drafts\ndrafts/\n*.tmp.txt\n/private/*.md\n",
		"keep.txt":         "keep",
		"scratch.tmp.txt":  "skip",
		"drafts/idea.md":   "skip",
		"private/plan.md":  "skip",
		"public/drafts.md": "keep",
	})

	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if got := strings.Join(relPaths(files), ","); got != "keep.txt,public/drafts.md" {
		t.Errorf("Walk() = %s", got)
	}
}

func TestWalk_ContentHashConsistency(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt": "same",
		"b.txt": "same",
		"c.txt": "different",
	})

	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	if files[0].ContentHash != files[1].ContentHash {
		t.Error("identical content should hash identically")
	}
	if files[0].ContentHash == files[2].ContentHash {
		t.Error("different content should hash differently")
	}

	h, err := HashFile(files[2].Path)
	if err != nil {
		t.Fatal(err)
	}
	if h != files[2].ContentHash {
		t.Errorf("HashFile = %s, want %s", h, files[2].ContentHash)
	}
}

func TestWalk_RootErrors(t *testing.T) {
	if _, err := Walk(Config{RootDir: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected error for missing root")
	}

	root := writeTree(t, map[string]string{"file.txt": "x"})
	if _, err := Walk(Config{RootDir: filepath.Join(root, "file.txt")}); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestWalk_InvalidPattern(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "x"})
	if _, err := Walk(Config{RootDir: root, Include: []string{"[a-"}}); err == nil {
		t.Error("expected error for malformed include pattern")
	}
}

// --- Filter tests ---

func mustFilter(t *testing.T, include, exclude []string) *Filter {
	t.Helper()
	f, err := NewFilter(include, exclude)
	if err != nil {
		t.Fatalf("NewFilter() error: %v", err)
	}
	return f
}

func TestFilter_EmptyIncludeAdmitsAll(t *testing.T) {
	f := mustFilter(t, nil, nil)
	if !f.Allow("anything.pdf") {
		t.Error("empty include patterns should admit everything")
	}
	if f.Allow("docs/.env") {
		t.Error("hidden files should never be admitted")
	}
}

func TestFilter_IncludeByBaseName(t *testing.T) {
	f := mustFilter(t, []string{"*.pdf"}, nil)
	if !f.Allow("reports/2024/report.pdf") {
		t.Error("*.pdf should match at any depth")
	}
	if f.Allow("report.docx") {
		t.Error("*.pdf should not match report.docx")
	}
}

func TestFilter_OfficeLockFiles(t *testing.T) {
	f := mustFilter(t, nil, []string{"**/~$*"})
	if f.Allow("reports/~$q1.docx") {
		t.Error("**/~$* should exclude Office lock files")
	}
	if !f.Allow("reports/q1.docx") {
		t.Error("**/~$* should not exclude regular files")
	}
}

func TestFilter_DoubleStarInclude(t *testing.T) {
	f := mustFilter(t, []string{"a/**/*.md"}, nil)
	if !f.Allow("a/b/c/notes.md") {
		t.Error("a/**/*.md should match nested markdown")
	}
	if f.Allow("b/notes.md") {
		t.Error("a/**/*.md should not match outside a/")
	}
}

func TestFilter_SkipDir(t *testing.T) {
	f := mustFilter(t, nil, nil)
	for _, name := range []string{".git", "node_modules", "Node_Modules", ".docqa"} {
		if !f.SkipDir(name) {
			t.Errorf("SkipDir(%q) = false, want true", name)
		}
	}
	if f.SkipDir("reports") {
		t.Error("SkipDir(reports) = true, want false")
	}
}

func TestFilter_AnchoredDirectoryRule(t *testing.T) {
	root := writeTree(t, map[string]string{".gitignore": "/build/\n!keep.txt\n"})
	f := mustFilter(t, nil, nil)
	if err := f.LoadGitignore(filepath.Join(root, ".gitignore")); err != nil {
		t.Fatal(err)
	}
	if f.Allow("build/out/report.txt") {
		t.Error("/build/ should ignore everything below build")
	}
	if !f.Allow("src/build/report.txt") {
		t.Error("/build/ is anchored and should not match nested build dirs")
	}
	if !f.Allow("build") {
		t.Error("a file named build is not a directory")
	}
}

func TestFilter_MissingGitignore(t *testing.T) {
	f := mustFilter(t, nil, nil)
	if err := f.LoadGitignore(filepath.Join(t.TempDir(), ".gitignore")); err != nil {
		t.Errorf("missing .gitignore should not error: %v", err)
	}
}
