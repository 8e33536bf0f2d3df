// Package miniowr provides a MinIO implementation of the filestore.FileStore interface.
package miniowr

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/code19m/errx"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rise-and-shine/skatespots/filestore"
)

const (
	codeNoSuchKey = "NoSuchKey"
)

// Client implements the filestore.FileStore interface using MinIO.
type Client struct {
	client *minio.Client
	bucket string
}

// New creates a MinIO filestore client and makes sure the bucket exists.
func New(ctx context.Context, cfg Config) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"bucket": cfg.Bucket}))
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, errx.Wrap(err, errx.WithDetails(errx.D{"bucket": cfg.Bucket}))
		}
	}

	return &Client{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Upload stores reader under path. The content type comes from the file extension,
// falling back to sniffing the content.
func (c *Client) Upload(ctx context.Context, path string, reader io.Reader) (*filestore.FileInfo, error) {
	exists, err := c.Exists(ctx, path)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	if exists {
		return nil, errx.New(
			"file already exists",
			errx.WithCode(filestore.CodeFileExists),
			errx.WithType(errx.T_Conflict),
			errx.WithDetails(errx.D{"path": path}),
		)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	contentType := detectContentType(path, data)

	info, err := c.client.PutObject(ctx, c.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &filestore.FileInfo{
		Path:         path,
		Size:         info.Size,
		ContentType:  contentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

// detectContentType prefers the extension of path and sniffs data otherwise.
func detectContentType(path string, data []byte) string {
	contentType := filestore.ContentTypeByName(path)
	if contentType == filestore.ContentTypeOctetStream {
		contentType = http.DetectContentType(data)
	}
	return contentType
}

// Get retrieves a file and its metadata from the specified path.
//
// Content is read lazily, possibly after ctx is done (e.g. a response body
// streamed after its handler returned), so the object is not bound to ctx cancellation.
func (c *Client) Get(ctx context.Context, path string) (*filestore.File, error) {
	obj, err := c.client.GetObject(context.WithoutCancel(ctx), c.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.wrapMinioError(err, path)
	}

	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, c.wrapMinioError(err, path)
	}

	return &filestore.File{
		Content: obj,
		Info: filestore.FileInfo{
			Path:         path,
			Size:         stat.Size,
			ContentType:  stat.ContentType,
			ETag:         stat.ETag,
			LastModified: stat.LastModified,
		},
	}, nil
}

// Delete removes a file at the specified path.
func (c *Client) Delete(ctx context.Context, path string) error {
	err := c.client.RemoveObject(ctx, c.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return c.wrapMinioError(err, path)
	}
	return nil
}

// Exists checks if a file exists at the specified path.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	_, err := c.client.StatObject(ctx, c.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == codeNoSuchKey {
			return false, nil
		}
		return false, errx.Wrap(err)
	}
	return true, nil
}

// wrapMinioError converts MinIO errors to filestore error codes.
func (c *Client) wrapMinioError(err error, path string) error {
	if minio.ToErrorResponse(err).Code == codeNoSuchKey {
		return errx.New(
			"file not found",
			errx.WithCode(filestore.CodeFileNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"path": path}),
		)
	}
	return errx.Wrap(err, errx.WithDetails(errx.D{"bucket": c.bucket, "path": path}))
}
