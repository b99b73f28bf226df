package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
)

// LocalStore writes images under a directory that gin serves statically.
type LocalStore struct {
	Dir       string // e.g. /var/www/instant-meal/uploads
	PublicURL string // URL prefix the directory is served at, e.g. /uploads
	MaxBytes  int64
}

func NewLocalStore(dir, publicURL string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{Dir: dir, PublicURL: strings.TrimRight(publicURL, "/"), MaxBytes: maxBytes}, nil
}

func (s *LocalStore) Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (models.Image, error) {
	ctype, err := CheckImage(fh, s.MaxBytes)
	if err != nil {
		return models.Image{}, err
	}

	key := objectKey(folder, ctype)
	dest, err := s.resolve(key)
	if err != nil {
		return models.Image{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return models.Image{}, err
	}

	src, err := fh.Open()
	if err != nil {
		return models.Image{}, err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return models.Image{}, err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dest)
		return models.Image{}, fmt.Errorf("save image: %w", err)
	}
	return models.Image{URL: s.PublicURL + "/" + key, PublicID: key}, nil
}

func (s *LocalStore) Delete(ctx context.Context, publicID string) error {
	p, err := s.resolve(publicID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps a public id to a file path, refusing anything that would
// escape Dir.
func (s *LocalStore) resolve(publicID string) (string, error) {
	clean := path.Clean("/" + publicID)
	if clean == "/" {
		return "", apperr.Validation("invalid image id")
	}
	return filepath.Join(s.Dir, filepath.FromSlash(clean)), nil
}
