package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/devfolio/portfolio-backend/internal/config"
)

// MaxFileSize caps every upload at 5 MB.
const MaxFileSize = 5 << 20

// Kind selects which allow-list an upload field is validated against.
type Kind int

const (
	KindImage    Kind = iota // jpg, jpeg, png
	KindDocument             // images plus pdf, doc, docx, txt
)

var (
	ErrFileTooLarge = errors.New("file exceeds the 5 MB limit")
	ErrFileType     = errors.New("file type not allowed")
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
}

var documentExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".pdf": true, ".doc": true, ".docx": true, ".txt": true,
}

var imageMIMEs = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true,
}

var documentMIMEs = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// Store persists uploaded files and removes stale ones. Remove is
// best-effort: failures are logged by the implementation, never returned,
// because the record mutation that triggered the cleanup has already
// committed.
type Store interface {
	Save(ctx context.Context, ownerID string, fh *multipart.FileHeader, kind Kind) (string, error)
	Remove(ctx context.Context, refs ...string)
}

// New picks the S3 store when a bucket is configured and the local disk
// store otherwise.
func New(cfg config.Config) (Store, error) {
	if cfg.S3Bucket != "" {
		return NewS3Store(cfg)
	}
	return NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)
}

// Validate checks size, extension and declared content type against the
// allow-list for kind.
func Validate(fh *multipart.FileHeader, kind Kind) error {
	if fh.Size > MaxFileSize {
		return ErrFileTooLarge
	}

	exts, mimes := imageExts, imageMIMEs
	if kind == KindDocument {
		exts, mimes = documentExts, documentMIMEs
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !exts[ext] {
		return ErrFileType
	}

	ct := fh.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !mimes[strings.TrimSpace(strings.ToLower(ct))] {
		return ErrFileType
	}
	return nil
}

// objectName builds the stored name: <owner>-<unixnano>-<rand>.<ext>.
func objectName(ownerID, original string) string {
	if ownerID == "" {
		ownerID = "anonymous"
	}
	buf := make([]byte, 4)
	rand.Read(buf)
	return fmt.Sprintf("%s-%d-%s%s",
		ownerID, time.Now().UnixNano(), hex.EncodeToString(buf),
		strings.ToLower(filepath.Ext(original)))
}

// FormFile returns the first uploaded file for field, or nil when the field
// is absent. The request must already have its multipart form parsed.
func FormFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// FormFiles returns up to max uploaded files for field.
func FormFiles(r *http.Request, field string, max int) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) > max {
		files = files[:max]
	}
	return files
}
