package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add quotes table", "add_quotes_table"},
		{"Add-Quotes-Table", "add_quotes_table"},
		{"ADD__QUOTES__TABLE", "add_quotes_table"},
		{"pricing rules 2", "pricing_rules_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"trailing_", "trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "init schema", "Initial tables")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_init_schema.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_init_schema.down.sql"), first.DownPath)

	content, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- init_schema")
	assert.Contains(t, string(content), "-- Initial tables")

	second, err := CreateMigration(dir, "Add document index", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.FileExists(t, second.DownPath)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_add_documents.up.sql",
		"000001_init.up.sql",
		"000001_init.down.sql",
		"README.md",
		"notanumber_x.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0o644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, Migration{Version: 1, Name: "init", HasDown: true}, migrations[0])
	assert.Equal(t, Migration{Version: 2, Name: "add_documents", HasDown: false}, migrations[1])
	assert.Equal(t, "000002_add_documents", migrations[1].BaseName())
}

func TestListMigrations_MissingDir(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
