// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relocate moves processed files into the target tree.
package relocate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Error reports a failed move. Earlier moves for the same item are not
// rolled back.
type Error struct {
	Src string
	Dst string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("moving %s to %s: %v", e.Src, e.Dst, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Move moves src into dstDir under its own name and returns the new path.
// dstDir is created when missing. An existing file of the same name is
// replaced. Across filesystems the file is copied and the source removed.
func Move(src, dstDir string) (string, error) {
	dst := filepath.Join(dstDir, filepath.Base(src))

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", &Error{Src: src, Dst: dst, Err: err}
	}

	err := os.Rename(src, dst)
	if err == nil {
		return dst, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "", &Error{Src: src, Dst: dst, Err: err}
	}

	if err := copyFile(src, dst); err != nil {
		return "", &Error{Src: src, Dst: dst, Err: err}
	}
	if err := os.Remove(src); err != nil {
		return "", &Error{Src: src, Dst: dst, Err: fmt.Errorf("removing source after copy: %w", err)}
	}
	return dst, nil
}

// copyFile copies a regular file, keeping its permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
