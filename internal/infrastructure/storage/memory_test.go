package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryObjectStorage()

	require.NoError(t, m.PutObject(ctx, "documents/a.txt", strings.NewReader("hello"), 5, "text/plain"))

	exists, err := m.ObjectExists(ctx, "documents/a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	data, contentType, ok := m.Object("documents/a.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "text/plain", contentType)

	url, expiresAt, err := m.GenerateDownloadURL(ctx, "documents/a.txt", "a.txt", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, m.BaseURL+"/documents/a.txt?"))
	assert.Contains(t, url, "filename=a.txt")
	assert.True(t, expiresAt.After(time.Now()))

	require.NoError(t, m.DeleteObject(ctx, "documents/a.txt"))
	exists, err = m.ObjectExists(ctx, "documents/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryObjectStorage_SizeMismatch(t *testing.T) {
	m := NewMemoryObjectStorage()
	err := m.PutObject(context.Background(), "k", strings.NewReader("abc"), 10, "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 10")
}

func TestMemoryObjectStorage_EmptyKey(t *testing.T) {
	m := NewMemoryObjectStorage()
	ctx := context.Background()
	assert.ErrorIs(t, m.PutObject(ctx, "", strings.NewReader(""), 0, ""), ErrEmptyKey)
	assert.ErrorIs(t, m.DeleteObject(ctx, ""), ErrEmptyKey)
	_, _, err := m.GenerateDownloadURL(ctx, "", "", 0)
	assert.ErrorIs(t, err, ErrEmptyKey)
}
