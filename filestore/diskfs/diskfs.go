// Package diskfs provides a local directory implementation of the filestore.FileStore interface.
package diskfs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/skatespots/filestore"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config defines the configuration options for the disk store.
type Config struct {
	// Dir is the directory files are written to. It is created if missing.
	Dir string `yaml:"dir" validate:"required" default:"./uploads"`
}

// Store keeps files as plain files directly under a root directory.
type Store struct {
	dir string
}

// New creates the root directory if needed and returns a Store over it.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, dirPerm); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"dir": cfg.Dir}))
	}
	return &Store{dir: cfg.Dir}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Upload writes reader to a new file named path. Existing files are never overwritten.
func (s *Store) Upload(ctx context.Context, path string, reader io.Reader) (*filestore.FileInfo, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, errx.Wrap(err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if errors.Is(err, fs.ErrExist) {
		return nil, errx.New(
			"file already exists",
			errx.WithCode(filestore.CodeFileExists),
			errx.WithType(errx.T_Conflict),
			errx.WithDetails(errx.D{"path": path}),
		)
	}
	if err != nil {
		return nil, errx.Wrap(err)
	}

	size, err := io.Copy(f, reader)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	stat, err := os.Stat(full)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &filestore.FileInfo{
		Path:         path,
		Size:         size,
		ContentType:  filestore.ContentTypeByName(path),
		LastModified: stat.ModTime(),
	}, nil
}

// Get opens the file at path.
func (s *Store) Get(_ context.Context, path string) (*filestore.File, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, s.wrapFsError(err, path)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errx.Wrap(err)
	}
	if stat.IsDir() {
		_ = f.Close()
		return nil, notFound(path)
	}

	return &filestore.File{
		Content: f,
		Info: filestore.FileInfo{
			Path:         path,
			Size:         stat.Size(),
			ContentType:  filestore.ContentTypeByName(path),
			LastModified: stat.ModTime(),
		},
	}, nil
}

// Delete removes the file at path.
func (s *Store) Delete(_ context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err = os.Remove(full); err != nil {
		return s.wrapFsError(err, path)
	}
	return nil
}

// Exists reports whether a file is stored at path.
func (s *Store) Exists(_ context.Context, path string) (bool, error) {
	full, err := s.resolve(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errx.Wrap(err)
	}
	return true, nil
}

// resolve maps a key to a file under the root. Keys must be plain file names.
func (s *Store) resolve(path string) (string, error) {
	if path == "" || path == "." || path == ".." || filepath.Base(path) != path {
		return "", errx.New(
			"invalid file path",
			errx.WithCode(filestore.CodeInvalidPath),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"path": path}),
		)
	}
	return filepath.Join(s.dir, path), nil
}

func (s *Store) wrapFsError(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(path)
	}
	return errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
}

func notFound(path string) error {
	return errx.New(
		"file not found",
		errx.WithCode(filestore.CodeFileNotFound),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"path": path}),
	)
}
