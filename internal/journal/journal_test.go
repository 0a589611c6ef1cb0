package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

type entry struct {
	Seq  int    `json:"seq"`
	Note string `json:"note"`
}

func tempStore(t *testing.T) *Store[entry] {
	t.Helper()
	return New[entry](filepath.Join(t.TempDir(), "log.json"))
}

func TestAppendReadRoundTrip(t *testing.T) {
	s := tempStore(t)
	const n = 5
	for i := 0; i < n; i++ {
		if err := s.Append(entry{Seq: i, Note: fmt.Sprintf("e%d", i)}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	got := s.ReadAll()
	if len(got) != n {
		t.Fatalf("len = %d, want %d", len(got), n)
	}
	for i, e := range got {
		if e.Seq != i {
			t.Errorf("entry %d has seq %d, want insertion order", i, e.Seq)
		}
	}
}

func TestReadAllMissingFile(t *testing.T) {
	s := New[entry](filepath.Join(t.TempDir(), "never-written.json"))
	if got := s.ReadAll(); len(got) != 0 {
		t.Errorf("missing file read = %v, want empty", got)
	}
}

func TestReadAllCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New[entry](path)
	if got := s.ReadAll(); len(got) != 0 {
		t.Errorf("corrupt file read = %v, want empty", got)
	}
	// The store recovers: an append replaces the corrupt file.
	if err := s.Append(entry{Seq: 1}); err != nil {
		t.Fatalf("Append after corruption: %v", err)
	}
	if got := s.ReadAll(); len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestAppendIsSerialized(t *testing.T) {
	s := tempStore(t)
	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Append(entry{Seq: i}); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if got := s.ReadAll(); len(got) != n {
		t.Errorf("len = %d, want %d (no lost appends)", len(got), n)
	}
}

func TestFileIsJSONArray(t *testing.T) {
	s := tempStore(t)
	if err := s.Append(entry{Seq: 0, Note: "a"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if data[0] != '[' {
		t.Errorf("file should be a JSON array, got %q", data[0])
	}
}
