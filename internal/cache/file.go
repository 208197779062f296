package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FileCache is the local-storage analog: one file per key under Dir.
type FileCache struct {
	Dir string
}

var _ Cache = (*FileCache)(nil)

func NewFileCache(dir string) *FileCache {
	return &FileCache{Dir: dir}
}

func (fc *FileCache) Get(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(fc.path(key))
	if err != nil {
		return "", ErrNotFound
	}
	return string(data), nil
}

func (fc *FileCache) Set(_ context.Context, key, value string) error {
	filePath := fc.path(key)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, []byte(value), 0644)
}

func (fc *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(fc.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// keys use "/" as a namespace separator; map them onto directories.
func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.Dir, filepath.FromSlash(strings.TrimPrefix(key, "/")))
}
