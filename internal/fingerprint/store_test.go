package fingerprint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AbsentFileYieldsEmptyStore(t *testing.T) {
	root := t.TempDir()

	s, err := Load(root, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
	if s.CollectionName() != "" {
		t.Errorf("CollectionName = %q, want empty", s.CollectionName())
	}
	if s.LastCheck() != nil {
		t.Errorf("LastCheck = %v, want nil", s.LastCheck())
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	s, err := Load(root, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fp := Fingerprint{
		Metadata: Metadata{Timestamp: 1724668800.5, Size: 42},
		Hash:     "deadbeef",
	}
	s.Put("src/main.go", fp)
	s.SetCollectionName("home-user-project")
	s.MarkChecked(time.Unix(1724668900, 0))

	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(root, "")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, ok := loaded.Get("src/main.go")
	if !ok {
		t.Fatal("src/main.go missing after reload")
	}
	if got != fp {
		t.Errorf("fingerprint = %+v, want %+v", got, fp)
	}
	if loaded.CollectionName() != "home-user-project" {
		t.Errorf("CollectionName = %q", loaded.CollectionName())
	}
	if loaded.LastCheck() == nil {
		t.Error("LastCheck lost on reload")
	}
}

func TestStore_PersistedFormat(t *testing.T) {
	root := t.TempDir()

	s, _ := Load(root, "")
	s.Put("a.txt", Fingerprint{
		Metadata: Metadata{Timestamp: 100.25, Size: 5},
		Hash:     "abc",
	})
	s.SetCollectionName("col")
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, DefaultFileName))
	if err != nil {
		t.Fatalf("read persisted file: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("persisted file is not valid JSON: %v", err)
	}

	files, ok := raw["files"].(map[string]any)
	if !ok {
		t.Fatalf("missing files object: %v", raw)
	}
	entry, ok := files["a.txt"].(map[string]any)
	if !ok {
		t.Fatalf("missing a.txt entry: %v", files)
	}
	if entry["hash"] != "abc" {
		t.Errorf("hash = %v", entry["hash"])
	}
	meta, ok := entry["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("missing metadata object: %v", entry)
	}
	if meta["timestamp"] != 100.25 {
		t.Errorf("timestamp = %v", meta["timestamp"])
	}
	if meta["size"] != float64(5) {
		t.Errorf("size = %v", meta["size"])
	}
	if raw["collection_name"] != "col" {
		t.Errorf("collection_name = %v", raw["collection_name"])
	}
	if _, present := raw["last_check"]; !present {
		t.Error("last_check key missing")
	}
}

func TestStore_RemoveAndClear(t *testing.T) {
	root := t.TempDir()

	s, _ := Load(root, "")
	s.Put("a.txt", Fingerprint{Hash: "1"})
	s.Put("b.txt", Fingerprint{Hash: "2"})

	s.Remove("a.txt")
	if _, ok := s.Get("a.txt"); ok {
		t.Error("a.txt still present after Remove")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", s.Len())
	}
}

func TestStore_PathsSorted(t *testing.T) {
	root := t.TempDir()

	s, _ := Load(root, "")
	s.Put("z.txt", Fingerprint{})
	s.Put("a.txt", Fingerprint{})
	s.Put("m/x.txt", Fingerprint{})

	paths := s.Paths()
	want := []string{"a.txt", "m/x.txt", "z.txt"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("Paths = %v, want %v", paths, want)
		}
	}
}

func TestStore_SaveOverwritesAtomically(t *testing.T) {
	root := t.TempDir()

	s, _ := Load(root, "")
	s.Put("a.txt", Fingerprint{Hash: "first"})
	if err := s.Save(); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	s.Put("a.txt", Fingerprint{Hash: "second"})
	if err := s.Save(); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	// No temp files left behind, and the content is the latest write.
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != DefaultFileName {
			t.Errorf("unexpected leftover file %s", e.Name())
		}
	}

	loaded, _ := Load(root, "")
	if got, _ := loaded.Get("a.txt"); got.Hash != "second" {
		t.Errorf("hash = %q, want second", got.Hash)
	}
}

func TestStore_LockUnlock(t *testing.T) {
	root := t.TempDir()

	s, _ := Load(root, "")
	if err := s.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	s.Unlock()

	// Re-acquirable after release.
	if err := s.Lock(); err != nil {
		t.Fatalf("relock: %v", err)
	}
	s.Unlock()
}

func TestTimestamp_Deterministic(t *testing.T) {
	at := time.Unix(1724668800, 123456789)
	if Timestamp(at) != Timestamp(at) {
		t.Error("same time produced different timestamps")
	}
	if Timestamp(at) <= 0 {
		t.Error("timestamp should be positive")
	}
}

func TestHashBytes_MatchesHashFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.txt")
	content := []byte("the same bytes either way")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	fromFile, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if fromFile != HashBytes(content) {
		t.Error("HashFile and HashBytes disagree on identical content")
	}
}
