// Package filex reads local files the command-line client uploads.
package filex

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadSize caps the size of a photo read for upload.
const MaxUploadSize = 10 << 20

// Upload is a file read into memory together with what the server needs to
// know about it.
type Upload struct {
	Data        []byte
	Extension   string
	ContentType string
}

// ReadUpload reads path and derives its lower-case extension (without the
// dot) and MIME type. Files without an extension or larger than
// MaxUploadSize are rejected.
func ReadUpload(path string) (*Upload, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return nil, fmt.Errorf("%s: file has no extension", path)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxUploadSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", path, MaxUploadSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	ct := mime.TypeByExtension("." + ext)
	if ct == "" {
		ct = "application/octet-stream"
	}

	return &Upload{Data: data, Extension: ext, ContentType: ct}, nil
}
