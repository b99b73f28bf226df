// Package storage hosts uploaded pictures: restaurant banners, menu item
// images and payment screenshots.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/google/uuid"
)

const DefaultMaxImageBytes = 5 << 20

// Folders images are filed under.
const (
	FolderBanners  = "banners"
	FolderMenu     = "menu"
	FolderPayments = "payments"
)

type ImageStore interface {
	Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (models.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// CheckImage rejects anything over maxBytes or not sniffed as image/*.
// It returns the detected content type.
func CheckImage(fh *multipart.FileHeader, maxBytes int64) (string, error) {
	if fh == nil {
		return "", apperr.Validation("image file is required")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if fh.Size > maxBytes {
		return "", apperr.Validation("image must be at most %d MB", maxBytes>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	ctype := http.DetectContentType(head[:n])
	if _, ok := imageExtensions[ctype]; !ok {
		return "", apperr.Validation("only image files are allowed")
	}
	return ctype, nil
}

// imageExtensions lists the sniffable image types we store, keyed by the
// content type http.DetectContentType reports.
var imageExtensions = map[string]string{
	"image/png":    ".png",
	"image/jpeg":   ".jpg",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
	"image/avif":   ".avif",
}

// objectKey builds a fresh "<folder>/<uuid><ext>" key. The extension comes
// from the sniffed content type, never from the client's file name.
func objectKey(folder, ctype string) string {
	return path.Join(folder, uuid.NewString()+imageExtensions[ctype])
}

// Discard deletes an image that was uploaded for a write that then failed.
func Discard(ctx context.Context, store ImageStore, img models.Image) error {
	if store == nil || img.PublicID == "" {
		return nil
	}
	return store.Delete(ctx, img.PublicID)
}
