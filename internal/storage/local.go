package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LocalStore keeps objects on a filesystem under root/<bucket>/<key>.
type LocalStore struct {
	fs        afero.Fs
	root      string
	publicURL string
}

// NewLocalStore returns a LocalStore on fs. publicURL is the prefix the files are served under.
func NewLocalStore(fs afero.Fs, root, publicURL string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage root is required")
	}
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{fs: fs, root: root, publicURL: publicURL}, nil
}

// Root returns the directory objects are written under.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) path(bucket, key string) (string, error) {
	p := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("object path %s/%s escapes storage root", bucket, key)
	}
	return p, nil
}

func (s *LocalStore) Put(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dest, err := s.path(obj.Bucket, obj.Key)
	if err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create object directory: %w", err)
	}

	f, err := s.fs.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	if _, err := io.Copy(f, obj.Body); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(dest)
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}

	return publicURL(s.publicURL, obj.Bucket, obj.Key), nil
}

func (s *LocalStore) Ping(_ context.Context) error {
	_, err := s.fs.Stat(s.root)
	return err
}
