package fs

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// Real FS Tests
//
// Only the helpers with behavior of their own are covered here:
//   - Exists() - convenience wrapper around os.Stat
//   - WriteFileAtomic() - temp file + rename, then chmod
// =============================================================================

func TestReal_Exists_ReturnsFalseForNonExistent(t *testing.T) {
	t.Parallel()

	fs := NewReal()

	exists, err := fs.Exists(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}

	if exists {
		t.Fatal("exists=true, want false")
	}
}

func TestReal_Exists_ReturnsTrueForFileAndDirectory(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.txt")

	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	for _, p := range []string{path, dir} {
		exists, err := fs.Exists(p)
		if err != nil {
			t.Fatalf("Exists(%q): %v", p, err)
		}

		if !exists {
			t.Fatalf("Exists(%q)=false, want true", p)
		}
	}
}

// Exists must report errors other than not-exist, e.g. a path through a file.
func TestReal_Exists_ReturnsError_When_ParentIsFile(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	file := filepath.Join(t.TempDir(), "file")

	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	exists, err := fs.Exists(filepath.Join(file, "child"))
	if exists {
		t.Fatal("exists=true, want false")
	}

	if err == nil {
		t.Fatal("expected ENOTDIR to be reported")
	}
}

func TestReal_WriteFileAtomic_ReplacesContentAndAppliesPerm(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	path := filepath.Join(t.TempDir(), "bugs")

	if err := fs.WriteFileAtomic(path, []byte("first\n"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}

	if err := fs.WriteFileAtomic(path, []byte("second\n"), 0o640); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got, want := string(data), "second\n"; got != want {
		t.Fatalf("content=%q, want=%q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if got, want := info.Mode().Perm(), os.FileMode(0o640); got != want {
		t.Fatalf("perm=%v, want=%v", got, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestReal_WriteFileAtomic_Fails_When_DirectoryMissing(t *testing.T) {
	t.Parallel()

	fs := NewReal()

	err := fs.WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "bugs"), []byte("x"), 0o644)
	if err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestReal_OpenFile_Appends(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	path := filepath.Join(t.TempDir(), "details.txt")

	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := f.Write([]byte("b")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := f.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got, want := string(data), "ab"; got != want {
		t.Fatalf("content=%q, want=%q", got, want)
	}
}
