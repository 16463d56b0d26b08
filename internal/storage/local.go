// Package storage keeps uploaded book images on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Storage interface {
	// Save writes r and returns the public url of the stored file.
	Save(name string, r io.Reader) (string, error)
	Remove(url string) error
}

type LocalDisk struct {
	Root    string
	BaseURL string
}

func NewLocalDisk(root, baseURL string) (*LocalDisk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir %s: %w", root, err)
	}
	return &LocalDisk{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save stores the file under a fresh name keeping only the original extension.
func (d *LocalDisk) Save(name string, r io.Reader) (string, error) {
	file := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(name)))

	f, err := os.Create(filepath.Join(d.Root, file))
	if err != nil {
		return "", fmt.Errorf("storage/local: create %s: %w", file, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage/local: write %s: %w", file, err)
	}
	return d.BaseURL + "/" + file, nil
}

// Remove deletes the file behind url. Missing files are ignored.
func (d *LocalDisk) Remove(url string) error {
	file := path.Base(url)
	if file == "." || file == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(d.Root, file)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: remove %s: %w", file, err)
	}
	return nil
}
