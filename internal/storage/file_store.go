package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore writes uploaded papers to disk under a base directory. Files are
// named {userID}_{originalFilename}; a second upload with the same name for
// the same user overwrites the first.
type FileStore struct {
	basePath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save writes the full payload and returns the stored path.
func (f *FileStore) Save(userID, filename string, data []byte) (string, error) {
	target := filepath.Join(f.basePath, userID+"_"+safeFilename(filename))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return target, nil
}

func safeFilename(name string) string {
	name = strings.TrimSpace(filepath.Base(name))
	switch name {
	case "", ".", "..", "/":
		return "paper"
	}
	return name
}
