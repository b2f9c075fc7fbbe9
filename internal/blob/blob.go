// Package blob stores uploaded concert photo bytes and serves them by URL
// path. The interface keeps the HTTP layer independent of where the bytes
// land.
package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store writes and reads photo blobs. Keys are opaque, slash-free names
// chosen by the caller.
type Store interface {
	Put(key string, r io.Reader) (url string, err error)
	Open(key string) (io.ReadCloser, error)
}

// DiskStore keeps blobs as files under a base directory and serves them
// under a public URL prefix.
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore creates the base directory if needed. urlPrefix is the path
// the HTTP layer mounts the photos under, e.g. "/photos".
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &DiskStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *DiskStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// Put writes the blob and returns its public URL path.
func (s *DiskStore) Put(key string, r io.Reader) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write blob: %w", err)
	}
	return s.urlPrefix + "/" + key, nil
}

// Open returns a reader over a stored blob.
func (s *DiskStore) Open(key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}
