package storage_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devfolio/portfolio-backend/internal/storage"
)

// multipartRequest builds a parsed multipart request carrying one file.
func multipartRequest(t *testing.T, field, filename, contentType string, size int) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(bytes.Repeat([]byte("x"), size))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(storage.MaxFileSize + 1024); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name        string
		filename    string
		contentType string
		kind        storage.Kind
		wantErr     error
	}{
		{"jpeg image ok", "photo.jpg", "image/jpeg", storage.KindImage, nil},
		{"png image ok", "icon.PNG", "image/png", storage.KindImage, nil},
		{"pdf rejected as image", "report.pdf", "application/pdf", storage.KindImage, storage.ErrFileType},
		{"pdf ok as document", "report.pdf", "application/pdf", storage.KindDocument, nil},
		{"txt ok as document", "notes.txt", "text/plain", storage.KindDocument, nil},
		{"exe rejected", "virus.exe", "application/octet-stream", storage.KindDocument, storage.ErrFileType},
		{"mismatched mime rejected", "photo.jpg", "application/pdf", storage.KindImage, storage.ErrFileType},
		{"mime with params ok", "notes.txt", "text/plain; charset=utf-8", storage.KindDocument, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := multipartRequest(t, "f", c.filename, c.contentType, 10)
			fh := storage.FormFile(req, "f")
			if fh == nil {
				t.Fatal("no file header")
			}
			if err := storage.Validate(fh, c.kind); !errors.Is(err, c.wantErr) {
				t.Errorf("Validate = %v, want %v", err, c.wantErr)
			}
		})
	}
}

func TestFormFileAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	if fh := storage.FormFile(req, "missing"); fh != nil {
		t.Errorf("expected nil for unparsed form, got %v", fh)
	}
}

func TestDiskStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir, "")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	req := multipartRequest(t, "image", "avatar.png", "image/png", 128)
	fh := storage.FormFile(req, "image")

	url, err := store.Save(context.Background(), "user-1", fh, storage.KindImage)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/user-1-") || !strings.HasSuffix(url, ".png") {
		t.Errorf("unexpected url: %q", url)
	}

	name := strings.TrimPrefix(url, "/uploads/")
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	store.Remove(context.Background(), url)
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Errorf("file still present after Remove: %v", err)
	}
}

func TestDiskStoreRemoveIgnoresForeignRefs(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir, "")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	// None of these should panic or touch anything outside the dir.
	store.Remove(context.Background(),
		"https://example.com/cdn/image.png",
		"/uploads/../../etc/passwd",
		"",
	)
}

func TestDiskStoreRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir, "")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	req := multipartRequest(t, "image", "big.png", "image/png", storage.MaxFileSize+1)
	fh := storage.FormFile(req, "image")

	if _, err := store.Save(context.Background(), "u", fh, storage.KindImage); !errors.Is(err, storage.ErrFileTooLarge) {
		t.Errorf("Save = %v, want ErrFileTooLarge", err)
	}
}
