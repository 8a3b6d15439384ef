package organize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// moveFile relocates src to dst. Renames that cross a filesystem boundary
// fall back to copy-then-remove.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, unix.EXDEV) {
		if copyErr := copyFile(src, dst); copyErr != nil {
			return fmt.Errorf("copy across devices: %w", copyErr)
		}
		if rmErr := os.Remove(src); rmErr != nil {
			return fmt.Errorf("remove source after copy: %w", rmErr)
		}
		return nil
	}
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
