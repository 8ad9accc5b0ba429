package index

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestAddIfAbsent_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates_index.json")
	s := NewStore(true)

	written, err := s.AddIfAbsent(path, "20240101")
	if err != nil {
		t.Fatalf("AddIfAbsent: %v", err)
	}
	if !written {
		t.Error("expected the file to be written")
	}
	if got := readFile(t, path); got != `["20240101"]` {
		t.Errorf("index = %s", got)
	}
}

func TestAddIfAbsent_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pictures_index.json")
	s := NewStore(true)

	if _, err := s.AddIfAbsent(path, "120000.jpg"); err != nil {
		t.Fatal(err)
	}
	first := readFile(t, path)
	st1, _ := os.Stat(path)

	written, err := s.AddIfAbsent(path, "120000.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if written {
		t.Error("second add of the same entry must not write")
	}
	if second := readFile(t, path); second != first {
		t.Errorf("file changed: %s -> %s", first, second)
	}
	st2, _ := os.Stat(path)
	if !st2.ModTime().Equal(st1.ModTime()) {
		t.Error("file was rewritten on a no-op add")
	}
}

func TestAddIfAbsent_DeduplicatesAndSorts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	s := NewStore(false)

	for _, e := range []string{"b", "a", "b", "a"} {
		if _, err := s.AddIfAbsent(path, e); err != nil {
			t.Fatalf("AddIfAbsent(%q): %v", e, err)
		}
	}
	if got := readFile(t, path); got != `["a","b"]` {
		t.Errorf("index = %s, want [\"a\",\"b\"]", got)
	}
}

func TestAddIfAbsent_CorruptFileIsRebuilt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `["20240101","2024`},
		{"empty", ``},
		{"null", `null`},
		{"object", `{"dates":[]}`},
		{"numbers", `[1,2,3]`},
		{"garbage", "\x00\x00\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "index.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			if _, err := NewStore(true).AddIfAbsent(path, "x"); err != nil {
				t.Fatalf("AddIfAbsent: %v", err)
			}
			if got := readFile(t, path); got != `["x"]` {
				t.Errorf("index = %s, want [\"x\"]", got)
			}
		})
	}
}

func TestAddIfAbsent_NoStaleTrailingBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	// a long, malformed file must not leave a tail behind the rebuilt index
	long := bytes.Repeat([]byte("z"), 256)
	if err := os.WriteFile(path, long, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(true).AddIfAbsent(path, "a"); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != `["a"]` {
		t.Errorf("index = %q", got)
	}
}

func TestAddIfAbsent_PresentEntryInUnsortedFileIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	if err := os.WriteFile(path, []byte(`["c", "a"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	written, err := NewStore(true).AddIfAbsent(path, "a")
	if err != nil {
		t.Fatal(err)
	}
	if written {
		t.Error("present entry must not rewrite the file")
	}
	if got := readFile(t, path); got != `["c", "a"]` {
		t.Errorf("index = %s", got)
	}

	if _, err := NewStore(true).AddIfAbsent(path, "b"); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != `["a","b","c"]` {
		t.Errorf("index = %s", got)
	}
}

func TestAddIfAbsent_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "index.json")
	if _, err := NewStore(true).AddIfAbsent(path, "a"); err == nil {
		t.Fatal("expected an error when the parent directory is missing")
	}
}

func TestAddIfAbsent_SerializedWithinProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	s := NewStore(true)

	entries := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, e := range entries {
		wg.Add(1)
		go func(e string) {
			defer wg.Done()
			if _, err := s.AddIfAbsent(path, e); err != nil {
				t.Errorf("AddIfAbsent(%q): %v", e, err)
			}
		}(e)
	}
	wg.Wait()

	if got := readFile(t, path); got != `["a","b","c","d","e","f","g","h"]` {
		t.Errorf("index = %s", got)
	}
}

func TestReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	s := NewStore(true)

	written, err := s.Replace(path, []string{"b", "a", "b"})
	if err != nil || !written {
		t.Fatalf("Replace = %v, %v", written, err)
	}
	if got := readFile(t, path); got != `["a","b"]` {
		t.Errorf("index = %s", got)
	}

	written, err = s.Replace(path, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if written {
		t.Error("same set must not rewrite")
	}

	if _, err := s.Replace(path, nil); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != `[]` {
		t.Errorf("index = %s", got)
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()

	res, err := Read(filepath.Join(dir, "missing.json"))
	if err != nil || res.State != Absent {
		t.Fatalf("missing: %+v, %v", res, err)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`[`), 0o644)
	res, err = Read(bad)
	if err != nil || res.State != Corrupt {
		t.Fatalf("corrupt: %+v, %v", res, err)
	}

	good := filepath.Join(dir, "good.json")
	os.WriteFile(good, []byte(`["a","b"]`), 0o644)
	res, err = Read(good)
	if err != nil || res.State != Loaded {
		t.Fatalf("loaded: %+v, %v", res, err)
	}
	if !res.Contains("b") || res.Contains("c") {
		t.Errorf("Contains mismatch for %v", res.Entries)
	}
}
