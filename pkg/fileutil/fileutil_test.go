package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(filepath.Join(tmpDir, "nonexistent")) {
		t.Error("Exists returned true for non-existent file")
	}

	path := filepath.Join(tmpDir, "exists.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) {
		t.Error("Exists returned false for existing file")
	}
}

func TestWriteTmpThenMove(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "results", "output.csv")

	content := []byte("queries,pattern\n")
	err := WriteTmpThenMove(outPath, func(tmpPath string) error {
		return os.WriteFile(tmpPath, content, 0644)
	})
	if err != nil {
		t.Fatalf("WriteTmpThenMove failed: %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Content mismatch: got %q, want %q", got, content)
	}
	if Exists(TmpPath(outPath)) {
		t.Error("Tmp file still exists after successful write")
	}
}

func TestWriteTmpThenMoveError(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "output.csv")

	err := WriteTmpThenMove(outPath, func(tmpPath string) error {
		if err := os.WriteFile(tmpPath, []byte("partial"), 0644); err != nil {
			return err
		}
		return os.ErrPermission
	})
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("expected ErrPermission, got: %v", err)
	}
	if Exists(TmpPath(outPath)) {
		t.Error("Tmp file exists after failed write")
	}
	if Exists(outPath) {
		t.Error("Output file exists after failed write")
	}
}

func TestWriteTmpThenMoveKeepsPreviousOnError(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "output.csv")
	if err := os.WriteFile(outPath, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	err := CreateTmpThenMove(outPath, func(f *os.File) error {
		io.WriteString(f, "half")
		return io.ErrUnexpectedEOF
	})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got: %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Errorf("output = %q, want previous content kept", got)
	}
}

func TestCreateTmpThenMove(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "output.csv")

	err := CreateTmpThenMove(outPath, func(f *os.File) error {
		_, err := io.WriteString(f, "done")
		return err
	})
	if err != nil {
		t.Fatalf("CreateTmpThenMove failed: %v", err)
	}
	got, _ := os.ReadFile(outPath)
	if string(got) != "done" {
		t.Errorf("output = %q, want done", got)
	}
}

func TestWriteTmpThenMoveParentIsFile(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := WriteTmpThenMove(filepath.Join(parent, "output.csv"), func(string) error { return nil })
	if err == nil {
		t.Error("expected error when parent is a regular file")
	}
}
