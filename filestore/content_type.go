package filestore

import (
	"path/filepath"
	"strings"
)

// Common MIME content types for stored images.
const (
	ContentTypeJPEG        = "image/jpeg"
	ContentTypePNG         = "image/png"
	ContentTypeGIF         = "image/gif"
	ContentTypeWebP        = "image/webp"
	ContentTypeSVG         = "image/svg+xml"
	ContentTypeBMP         = "image/bmp"
	ContentTypeTIFF        = "image/tiff"
	ContentTypeAVIF        = "image/avif"
	ContentTypeHEIC        = "image/heic"
	ContentTypeOctetStream = "application/octet-stream"
)

//nolint:gochecknoglobals // static lookup table
var extContentTypes = map[string]string{
	".jpg":  ContentTypeJPEG,
	".jpeg": ContentTypeJPEG,
	".png":  ContentTypePNG,
	".gif":  ContentTypeGIF,
	".webp": ContentTypeWebP,
	".svg":  ContentTypeSVG,
	".bmp":  ContentTypeBMP,
	".tif":  ContentTypeTIFF,
	".tiff": ContentTypeTIFF,
	".avif": ContentTypeAVIF,
	".heic": ContentTypeHEIC,
}

// ContentTypeByName resolves a content type from the file extension of name.
// Unknown extensions resolve to ContentTypeOctetStream.
func ContentTypeByName(name string) string {
	if ct, ok := extContentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return ContentTypeOctetStream
}
