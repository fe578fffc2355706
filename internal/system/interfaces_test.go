package system

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_AtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "prefs.js")
	fsys := &osFileSystem{}

	if err := fsys.AtomicWriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile error: %v", err)
	}
	if err := fsys.AtomicWriteFile(path, []byte("second"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, temp files left behind", len(entries))
	}
}

func TestOSFileSystem_WriteTempFile(t *testing.T) {
	dir := t.TempDir()
	fsys := &osFileSystem{}

	first, err := fsys.WriteTempFile(dir, "stage-*.json", []byte("one"))
	if err != nil {
		t.Fatalf("WriteTempFile error: %v", err)
	}
	second, err := fsys.WriteTempFile(dir, "stage-*.json", []byte("two"))
	if err != nil {
		t.Fatalf("WriteTempFile error: %v", err)
	}
	if first == second {
		t.Fatalf("both writes used %s", first)
	}
	if filepath.Dir(first) != dir || filepath.Ext(first) != ".json" {
		t.Errorf("unexpected name %s", first)
	}

	info, err := os.Lstat(first)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Mode().IsRegular() || info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want a regular 0600 file", info.Mode())
	}
	if data, _ := os.ReadFile(second); string(data) != "two" {
		t.Errorf("content = %q", data)
	}
}
