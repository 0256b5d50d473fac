package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/charlievieth/fastwalk"
)

// Store is a process-shared document store addressed by logical path
type Store interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) bool
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, dir string) ([]string, error)
	RemoveAll(ctx context.Context, dir string) error
	Usage(ctx context.Context, dir string) (int64, error)
	FS() fs.FS
}

// FileStore implements Store on a directory shared between processes.
// Nothing is cached in memory: every read goes to disk because a peer
// process may have written since.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at dir, creating it if needed
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("storage root cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: abs, Err: err}
	}
	return &FileStore{root: abs}, nil
}

// Root returns the absolute directory backing the store
func (s *FileStore) Root() string {
	return s.root
}

// FS returns a read-only view of the store
func (s *FileStore) FS() fs.FS {
	return os.DirFS(s.root)
}

// Init creates the standard container directories
func (s *FileStore) Init() error {
	for _, dir := range paths.StandardDirectories() {
		full := filepath.Join(s.root, filepath.FromSlash(dir))
		if err := os.MkdirAll(full, 0o755); err != nil {
			return &IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return nil
}

func (s *FileStore) resolve(p string) (string, error) {
	if err := paths.Validate(p); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(p)), nil
}

// Read returns the bytes stored at path
func (s *FileStore) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, &IOError{Op: "read", Path: p, Err: err}
	}
	return data, nil
}

// Write atomically replaces the bytes at path. Data goes to a temp file in
// the destination directory which is then renamed over the target, so a
// concurrent reader sees either the old or the new document, never a torn one.
func (s *FileStore) Write(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: p, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(full)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: p, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: p, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "sync", Path: p, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "close", Path: p, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "chmod", Path: p, Err: err}
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "rename", Path: p, Err: err}
	}
	return nil
}

// Exists reports whether a regular file exists at path
func (s *FileStore) Exists(ctx context.Context, p string) bool {
	full, err := s.resolve(p)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

// Delete removes the document at path. Deleting a missing path is not an error.
func (s *FileStore) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "delete", Path: p, Err: err}
	}
	return nil
}

// List returns the sorted entry names directly under dir, skipping hidden
// entries such as in-flight temp files. A missing directory lists as empty.
func (s *FileStore) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, &IOError{Op: "list", Path: dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// RemoveAll deletes dir and everything below it
func (s *FileStore) RemoveAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(dir)
	if err != nil {
		return err
	}
	if full == s.root {
		return errors.New("refusing to remove the storage root")
	}
	if err := os.RemoveAll(full); err != nil {
		return &IOError{Op: "remove", Path: dir, Err: err}
	}
	return nil
}

// Usage returns the total size in bytes of the regular files below dir
func (s *FileStore) Usage(ctx context.Context, dir string) (int64, error) {
	full, err := s.resolve(dir)
	if err != nil {
		return 0, err
	}
	if _, err := os.Stat(full); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	var total atomic.Int64
	conf := fastwalk.Config{Follow: false}

	err = fastwalk.Walk(&conf, full, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Mode().IsRegular() {
			total.Add(info.Size())
		}
		return nil
	})
	if err != nil {
		return 0, &IOError{Op: "walk", Path: dir, Err: err}
	}
	return total.Load(), nil
}

var _ Store = (*FileStore)(nil)
