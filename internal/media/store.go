// Package media stores uploaded product images on local disk and maps them
// to the public /uploads URLs the catalog keeps.
package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"bellashop/internal/domain"
)

const (
	URLPrefix = "/uploads/"
	MaxFiles  = 50
)

// extensions of the image types accepted for upload
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Store struct {
	Dir      string
	MaxBytes int64
}

func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}
	return &Store{Dir: dir, MaxBytes: maxBytes}, nil
}

// Save checks one upload and writes it under a fresh uuid name.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", domain.Invalid("images", fmt.Sprintf("%s exceeds %d bytes", fh.Filename, s.MaxBytes))
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return s.write(f, fh.Filename)
}

func (s *Store) write(r io.Reader, filename string) (string, error) {
	limit := s.MaxBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	buf, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(buf)) > limit {
		return "", domain.Invalid("images", fmt.Sprintf("%s exceeds %d bytes", filename, limit))
	}
	ext, ok := allowed[mimetype.Detect(buf).String()]
	if !ok {
		return "", domain.Invalid("images", filename+" is not a jpeg, png, gif or webp image")
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.Dir, name), buf, 0o644); err != nil {
		return "", err
	}
	return URLPrefix + name, nil
}

// SaveAll stores files in order. On any failure the files already written
// by this call are removed.
func (s *Store) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	if len(files) > MaxFiles {
		return nil, domain.Invalid("images", fmt.Sprintf("at most %d files per request", MaxFiles))
	}
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		u, err := s.Save(fh)
		if err != nil {
			s.RemoveAll(urls)
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// RemoveAll deletes stored files behind urls. URLs that are not ours are ignored.
func (s *Store) RemoveAll(urls []string) {
	for _, u := range urls {
		if p, ok := s.Resolve(strings.TrimPrefix(u, URLPrefix)); ok && strings.HasPrefix(u, URLPrefix) {
			_ = os.Remove(p)
		}
	}
}

// Resolve maps a request path below /uploads/ to a file in Dir, refusing
// anything that could escape it.
func (s *Store) Resolve(rel string) (string, bool) {
	lower := strings.ToLower(rel)
	if rel == "" || strings.Contains(lower, "..") || strings.Contains(lower, "%2e") || strings.ContainsRune(rel, 0) {
		return "", false
	}
	clean := filepath.Clean(rel)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) || strings.ContainsAny(clean, `/\`) {
		return "", false
	}
	return filepath.Join(s.Dir, clean), true
}
