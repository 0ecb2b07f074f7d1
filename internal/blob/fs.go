package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS stores blobs as files below a root directory served under a URL path.
type FS struct {
	root    string
	urlPath string
}

// NewFS returns a filesystem store rooted at root, creating it if needed.
func NewFS(root, urlPath string) (*FS, error) {
	if root == "" {
		root = "./uploads"
	}

	if err := os.MkdirAll(root, 0o750); err != nil { //nolint:mnd
		return nil, fmt.Errorf("create upload root: %w", err)
	}

	return &FS{root: root, urlPath: "/" + strings.Trim(urlPath, "/")}, nil
}

// Root is the directory holding the files.
func (s *FS) Root() string { return s.root }

// URLPath is the path the files are served under.
func (s *FS) URLPath() string { return s.urlPath }

// Driver implements Store.
func (s *FS) Driver() string { return "fs" }

// Put implements Store. Existing files are replaced.
func (s *FS) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	k, err := CleanKey(key)
	if err != nil {
		return "", err
	}

	p := filepath.Join(s.root, filepath.FromSlash(k))
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil { //nolint:mnd
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	if err := os.WriteFile(p, data, 0o640); err != nil { //nolint:mnd
		return "", fmt.Errorf("write blob: %w", err)
	}

	return s.urlPath + "/" + k, nil
}

// Delete implements Store. Deleting a missing file is not an error.
func (s *FS) Delete(_ context.Context, key string) error {
	k, err := CleanKey(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(k))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}

	return nil
}
