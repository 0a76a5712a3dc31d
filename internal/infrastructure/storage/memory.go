package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	documentapp "github.com/quotebook/backend/internal/application/document"
)

var _ documentapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in process memory. It is used when
// storage is disabled and in tests; download URLs point at BaseURL and are
// not served by anything.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryObjectStorage creates an empty in-memory store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "http://localhost:9000/documents",
		objects: make(map[string]memoryObject),
	}
}

// PutObject stores the body under key
func (m *MemoryObjectStorage) PutObject(_ context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == "" {
		return ErrEmptyKey
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}
	if size >= 0 && n != size {
		return fmt.Errorf("object body is %d bytes, expected %d", n, size)
	}

	m.mu.Lock()
	m.objects[key] = memoryObject{data: buf.Bytes(), contentType: contentType}
	m.mu.Unlock()
	return nil
}

// GenerateDownloadURL returns a fake URL under BaseURL
func (m *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, key, filename string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{}
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	if filename != "" {
		q.Set("filename", filename)
	}
	return m.BaseURL + "/" + key + "?" + q.Encode(), expiresAt, nil
}

// DeleteObject removes key
func (m *MemoryObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// ObjectExists reports whether key is stored
func (m *MemoryObjectStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	return ok, nil
}

// Object returns a copy of the stored bytes and content type
func (m *MemoryObjectStorage) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.contentType, true
}
