// Package storage persists uploaded videos and returns the URL analysis
// workers and clients fetch them from.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore writes one video and returns its public URL.
type BlobStore interface {
	Store(ctx context.Context, r io.Reader, contentType string) (url string, err error)
}

// Disk stores videos under a local directory served at baseURL. The single
// deployment target keeps videos on an attached volume; an object-store
// implementation would satisfy the same interface.
type Disk struct {
	dir     string
	baseURL string
}

// NewDisk ensures dir exists.
func NewDisk(dir, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("video dir: %w", err)
	}
	return &Disk{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Store writes the video under a fresh UUID name.
func (d *Disk) Store(ctx context.Context, r io.Reader, contentType string) (string, error) {
	name := uuid.NewString() + extensionFor(contentType)
	path := filepath.Join(d.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return d.baseURL + "/" + name, nil
}

// Dir returns the directory videos are written to, for static serving.
func (d *Disk) Dir() string { return d.dir }

func extensionFor(contentType string) string {
	switch contentType {
	case "video/mp4", "":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	case "video/webm":
		return ".webm"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
