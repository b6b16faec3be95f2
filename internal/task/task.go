// Package task turns discovered example folders into a declarative build
// plan and executes it with incremental skipping.
package task

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Action enumerates what a task does.
type Action string

const (
	ActionRender Action = "render" // render a listing page
	ActionCopy   Action = "copy"   // byte-for-byte copy of the source
	ActionIndex  Action = "index"  // render a folder index page
)

// Task is one declarative unit of work: declared file dependencies, declared
// targets, a change-detection fingerprint, and the action to run. Each target
// path belongs to exactly one task.
type Task struct {
	Name        string
	Action      Action
	FileDeps    []string
	Targets     []string
	Fingerprint string
	Run         func(ctx context.Context) error
}

// CopyFile copies src to dst byte for byte, creating parent directories.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dst, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
