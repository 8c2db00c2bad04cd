// Package blob provides the durable byte stores behind file records:
// a local-disk backend and an S3-compatible backend behind one interface.
package blob

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rivetsoft/filedock/internal/domain/repository"
)

// StorageKey builds the blob key for an uploaded file:
// {prefix}/files/{uuid}-{filename with spaces replaced by underscores}.
func StorageKey(prefix, originalFilename string) string {
	safeName := strings.ReplaceAll(originalFilename, " ", "_")
	return fmt.Sprintf("%s/files/%s-%s", prefix, uuid.New().String(), safeName)
}

// LocalStore keeps blobs as plain files under a base directory, laid out
// by their storage keys.
type LocalStore struct {
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	path := s.keyPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}

	// Write through a temp file and rename so readers never see a
	// partially written blob.
	tmp, err := os.CreateTemp(filepath.Dir(path), "upload-*")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalize blob: %w", err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	data, err := os.ReadFile(s.keyPath(key))
	if os.IsNotExist(err) {
		return nil, "", repository.ErrBlobNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("read blob: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.keyPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

func (s *LocalStore) keyPath(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}
