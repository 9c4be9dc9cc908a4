package walker

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// writeFile creates a file (and its parent directories) under root.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func relPaths(entries []Entry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.RelPath
	}
	sort.Strings(paths)
	return paths
}

func TestWalk_BasicTraversal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha")
	writeFile(t, root, "sub/b.txt", "beta")
	writeFile(t, root, "sub/deep/c.txt", "gamma")

	entries, err := Walk(root, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relPaths(entries)
	want := []string{"a.txt", "sub/b.txt", "sub/deep/c.txt"}
	if len(got) != len(want) {
		t.Fatalf("Walk returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path %d: got %q, want %q", i, got[i], want[i])
		}
	}

	for _, e := range entries {
		if e.Size == 0 {
			t.Errorf("%s: size not populated", e.RelPath)
		}
		if e.ModTime.IsZero() {
			t.Errorf("%s: mod time not populated", e.RelPath)
		}
	}
}

func TestWalk_RootNotFound(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "nope"), Options{})
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestWalk_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "plain.txt", "x")

	_, err := Walk(filepath.Join(root, "plain.txt"), Options{})
	if err == nil {
		t.Fatal("expected error for non-directory root")
	}
}

func TestWalk_IgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".talkieignore", "secret/*\n*.log\n")
	writeFile(t, root, "keep.txt", "keep")
	writeFile(t, root, "debug.log", "noise")
	writeFile(t, root, "secret/x.txt", "hidden")

	entries, err := Walk(root, Options{IgnoreFile: ".talkieignore"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relPaths(entries)
	for _, p := range got {
		if p == "secret/x.txt" || p == "debug.log" {
			t.Errorf("ignored path %q was yielded", p)
		}
	}

	found := false
	for _, p := range got {
		if p == "keep.txt" {
			found = true
		}
	}
	if !found {
		t.Errorf("keep.txt missing from %v", got)
	}
}

func TestWalk_MissingIgnoreFileIndexesEverything(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha")

	entries, err := Walk(root, Options{IgnoreFile: ".talkieignore"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
}

func TestWalk_ExcludesStoreFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha")
	writeFile(t, root, ".file_hashes.json", "{}")
	writeFile(t, root, ".file_hashes.json.lock", "")

	entries, err := Walk(root, Options{
		ExcludeFiles: []string{".file_hashes.json", ".file_hashes.json.lock"},
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relPaths(entries)
	if len(got) != 1 || got[0] != "a.txt" {
		t.Fatalf("got %v, want [a.txt]", got)
	}
}

func TestWalk_SkipsAlwaysExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha")
	writeFile(t, root, ".git/config", "noise")
	writeFile(t, root, ".chromadb/00000000", "noise")

	entries, err := Walk(root, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relPaths(entries)
	if len(got) != 1 || got[0] != "a.txt" {
		t.Fatalf("got %v, want [a.txt]", got)
	}
}

func TestFilter_Patterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns string
		path     string
		isDir    bool
		want     bool
	}{
		{"bare name matches any component", "node_modules", "src/node_modules/x.js", false, true},
		{"glob on basename", "*.log", "deep/dir/app.log", false, true},
		{"anchored glob", "secret/*", "secret/x.txt", false, true},
		{"anchored glob non-match", "secret/*", "other/x.txt", false, false},
		{"double star", "docs/**", "docs/a/b/c.md", false, true},
		{"dir only pattern ignores files", "build/", "build", false, false},
		{"dir only pattern matches dirs", "build/", "build", true, true},
		{"comment lines skipped", "# secret\nother", "secret", false, false},
		{"empty filter matches nothing", "", "anything.txt", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseFilter(tt.patterns)
			if got := f.Match(tt.path, tt.isDir); got != tt.want {
				t.Errorf("Match(%q, %v) = %v, want %v", tt.path, tt.isDir, got, tt.want)
			}
		})
	}
}

func TestFilter_MatchFileUnderIgnoredDir(t *testing.T) {
	f := parseFilter("build/\n")
	if !f.MatchFile("build/out/app.bin") {
		t.Error("file under dir-only ignored directory should match")
	}
	if f.MatchFile("src/app.go") {
		t.Error("unrelated file should not match")
	}
}
