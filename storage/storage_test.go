package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/internal/testutil"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckImage(t *testing.T) {
	ctype, err := CheckImage(testutil.FileHeader(t, "proof.png", testutil.PNG), 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ctype)

	_, err = CheckImage(testutil.FileHeader(t, "proof.png", []byte("just some text, not a picture")), 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = CheckImage(testutil.FileHeader(t, "big.png", testutil.PNG), 10)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = CheckImage(nil, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLocalStoreUploadDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/", 0)
	require.NoError(t, err)

	img, err := store.Upload(context.Background(), FolderPayments, testutil.FileHeader(t, "Proof.PNG", testutil.PNG))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(img.PublicID, "payments/"))
	assert.True(t, strings.HasSuffix(img.PublicID, ".png"))
	assert.Equal(t, "/uploads/"+img.PublicID, img.URL)

	onDisk := filepath.Join(dir, filepath.FromSlash(img.PublicID))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, testutil.PNG, data)

	require.NoError(t, store.Delete(context.Background(), img.PublicID))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(context.Background(), img.PublicID))
}

func TestUploadExtensionFollowsContent(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads", 0)
	require.NoError(t, err)

	gif := []byte("GIF89a<script>alert(document.cookie)</script>")
	img, err := store.Upload(context.Background(), FolderPayments, testutil.FileHeader(t, "proof.html", gif))
	require.NoError(t, err)
	assert.Equal(t, ".gif", filepath.Ext(img.PublicID))
	assert.NotContains(t, img.URL, ".html")

	img, err = store.Upload(context.Background(), FolderMenu, testutil.FileHeader(t, "karahi", testutil.PNG))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(img.PublicID))

	fake := &fakeS3{}
	s3Store := NewS3StoreWithClient(fake, "meals", "https://cdn.example.com", 0)
	img, err = s3Store.Upload(context.Background(), FolderBanners, testutil.FileHeader(t, "banner.svg", testutil.PNG))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(img.PublicID))
}

func TestLocalStoreStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(filepath.Dir(dir), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	store, err := NewLocalStore(dir, "/uploads", 0)
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background(), "../keep.txt"))

	_, err = os.Stat(outside)
	assert.NoError(t, err)
	assert.Error(t, store.Delete(context.Background(), "/"))
}

type fakeS3 struct {
	puts    map[string][]byte
	deleted []string
	failPut bool
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut {
		return nil, errors.New("access denied")
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(in.Body); err != nil {
		return nil, err
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[*in.Key] = buf.Bytes()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3StoreWithClient(fake, "meals", "https://cdn.example.com/", 0)

	img, err := store.Upload(context.Background(), FolderMenu, testutil.FileHeader(t, "karahi.png", testutil.PNG))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+img.PublicID, img.URL)
	assert.Equal(t, testutil.PNG, fake.puts[img.PublicID])

	require.NoError(t, Discard(context.Background(), store, img))
	assert.Equal(t, []string{img.PublicID}, fake.deleted)
}

func TestS3StoreUploadError(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{failPut: true}, "meals", "https://cdn", 0)
	_, err := store.Upload(context.Background(), FolderMenu, testutil.FileHeader(t, "x.png", testutil.PNG))
	assert.ErrorContains(t, err, "access denied")
}

func TestDiscardSkipsEmptyImage(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3StoreWithClient(fake, "meals", "https://cdn", 0)
	require.NoError(t, Discard(context.Background(), store, models.Image{}))
	assert.Empty(t, fake.deleted)
}

func TestBackupNextRun(t *testing.T) {
	b := Backup{Hour: 2}
	loc := time.UTC

	before := time.Date(2026, 10, 16, 1, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 10, 16, 2, 0, 0, 0, loc), b.NextRun(before))

	after := time.Date(2026, 10, 16, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 10, 17, 2, 0, 0, 0, loc), b.NextRun(after))
}

func TestBackupRunOnce(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "menu"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "menu", "a.png"), testutil.PNG, 0o644))

	stale := filepath.Join(dst, "2020-01-01_00-00-00")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	old := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	b := Backup{SrcDir: src, BackupDir: dst, Retention: 4 * 24 * time.Hour}
	dest, err := b.RunOnce(time.Now())
	require.NoError(t, err)

	copied, err := os.ReadFile(filepath.Join(dest, "menu", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, testutil.PNG, copied)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}
