package storage

import (
	"context"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes uploads into a local directory served statically under
// /uploads.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, baseURL: baseURL}, nil
}

func (d *DiskStore) Save(ctx context.Context, ownerID string, fh *multipart.FileHeader, kind Kind) (string, error) {
	if err := Validate(fh, kind); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := objectName(ownerID, fh.Filename)
	dst, err := os.Create(filepath.Join(d.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return d.baseURL + "/uploads/" + name, nil
}

func (d *DiskStore) Remove(ctx context.Context, refs ...string) {
	for _, ref := range refs {
		i := strings.LastIndex(ref, "/uploads/")
		if i < 0 {
			// Not one of ours (external link or legacy value); leave it.
			continue
		}
		name := ref[i+len("/uploads/"):]
		if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
			continue
		}
		if err := os.Remove(filepath.Join(d.dir, name)); err != nil && !os.IsNotExist(err) {
			log.Printf("storage: failed to remove %s: %v", name, err)
		}
	}
}
