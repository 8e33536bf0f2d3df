// Package upload stores client files in a filestore.FileStore under unique names
// and maps them to the public /uploads/<name> paths recorded on spots.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/rise-and-shine/skatespots/filestore"
	"github.com/rise-and-shine/skatespots/logger"
	"github.com/samber/lo"
)

// PathPrefix is the public URL prefix of uploaded files.
const PathPrefix = "/uploads/"

const fallbackName = "file"

// File is a client-supplied file waiting to be stored.
type File struct {
	// Name is the file name given by the client. Directory components are ignored.
	Name string
	open func() (io.ReadCloser, error)
}

// FromMultipart wraps a multipart file header.
func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name: fh.Filename,
		open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// FromBytes wraps in-memory content.
func FromBytes(name string, content []byte) File {
	return File{
		Name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(content)), nil },
	}
}

// Uploader persists files through a FileStore.
type Uploader struct {
	store filestore.FileStore
	now   func() time.Time
}

// New creates an Uploader writing to store.
func New(store filestore.FileStore) *Uploader {
	return &Uploader{store: store, now: time.Now}
}

// Save stores files under generated names and returns their public paths in order.
// If one file fails, the files already stored by this call are removed.
func (u *Uploader) Save(ctx context.Context, files ...File) ([]string, error) {
	paths := make([]string, 0, len(files))

	for _, f := range files {
		p, err := u.save(ctx, f)
		if err != nil {
			u.Remove(ctx, paths...)
			return nil, errx.Wrap(err)
		}
		paths = append(paths, p)
	}

	return paths, nil
}

func (u *Uploader) save(ctx context.Context, f File) (string, error) {
	if f.open == nil {
		return "", errx.New("upload file has no content", errx.WithDetails(errx.D{"name": f.Name}))
	}

	content, err := f.open()
	if err != nil {
		return "", errx.Wrap(err, errx.WithDetails(errx.D{"name": f.Name}))
	}
	defer content.Close()

	name := u.generateName(f.Name)

	_, err = u.store.Upload(ctx, name, content)
	if err != nil {
		return "", errx.Wrap(err)
	}

	return PathPrefix + name, nil
}

// Remove deletes stored files by their public paths. Failures are logged, not returned.
func (u *Uploader) Remove(ctx context.Context, paths ...string) {
	log := logger.Named("upload").WithContext(ctx)

	for _, key := range lo.FilterMap(paths, func(p string, _ int) (string, bool) { return KeyFromPath(p) }) {
		if err := u.store.Delete(ctx, key); err != nil {
			log.With("key", key).Warnx(err)
		}
	}
}

// Open returns the stored file behind a public path.
// Paths outside PathPrefix fail with filestore.CodeFileNotFound.
func (u *Uploader) Open(ctx context.Context, p string) (*filestore.File, error) {
	key, ok := KeyFromPath(p)
	if !ok {
		return nil, errx.New(
			"file is not an upload",
			errx.WithCode(filestore.CodeFileNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"path": p}),
		)
	}

	f, err := u.store.Get(ctx, key)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return f, nil
}

// KeyFromPath returns the store key of a public upload path.
func KeyFromPath(p string) (string, bool) {
	key, ok := strings.CutPrefix(p, PathPrefix)
	if !ok || key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}

// generateName returns "<unix millis>-<8 hex>-<base name>".
func (u *Uploader) generateName(original string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s-%s", u.now().UnixMilli(), random, baseName(original))
}

// baseName strips directory components of both slash styles.
func baseName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSpace(base)
	if base == "" || base == "." || base == ".." || base == "/" {
		return fallbackName
	}
	return base
}
