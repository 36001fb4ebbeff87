// Package fileutil writes result files with tmp+mv semantics so a failed
// run never leaves a truncated report behind.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Exists returns true if the file exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// TmpPath returns the temporary path WriteTmpThenMove writes outPath through.
func TmpPath(outPath string) string {
	return outPath + ".tmp"
}

// WriteTmpThenMove writes to a temporary file next to outPath then
// atomically moves it into place. The writeFunc receives the temporary path
// and should write the complete file. Missing parent directories are created.
func WriteTmpThenMove(outPath string, writeFunc func(tmpPath string) error) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := TmpPath(outPath)
	if err := writeFunc(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := syncFile(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp to final: %w", err)
	}
	return nil
}

// CreateTmpThenMove is WriteTmpThenMove for writers that stream into an
// open file.
func CreateTmpThenMove(outPath string, writeFunc func(f *os.File) error) error {
	return WriteTmpThenMove(outPath, func(tmpPath string) error {
		f, err := os.Create(tmpPath)
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		if err := writeFunc(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close temp file: %w", err)
		}
		return nil
	})
}

// syncFile opens, syncs, and closes a file.
func syncFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	err = f.Sync()
	f.Close()
	return err
}
