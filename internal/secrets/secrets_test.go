// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    map[string]string
	}{
		{
			name:    "reads keys and strips quotes",
			content: ptr("OPENAI_API_KEY=sk-abc123\nXAI_API_KEY=\"xai-789\"\n"),
			want: map[string]string{
				"OPENAI_API_KEY": "sk-abc123",
				"XAI_API_KEY":    "xai-789",
			},
		},
		{
			name:    "skips comments and empty values",
			content: ptr("# keys\nOPENAI_API_KEY=\nXAI_API_KEY=xai-1\nXAI_MODEL_POLICY=latest\n"),
			want: map[string]string{
				"XAI_API_KEY":      "xai-1",
				"XAI_MODEL_POLICY": "latest",
			},
		},
		{
			name: "returns empty map for missing file",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".env")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o600))
			}
			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteCreatesOwnerOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last30days", ".env")

	require.NoError(t, Write(path, map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"XAI_API_KEY":    "xai-test",
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", got["OPENAI_API_KEY"])
	assert.Equal(t, "xai-test", got["XAI_API_KEY"])
	assert.True(t, Exists(path))
}

func TestWriteReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, Write(path, map[string]string{"OPENAI_API_KEY": "old"}))
	require.NoError(t, Write(path, map[string]string{"XAI_API_KEY": "new"}))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"XAI_API_KEY": "new"}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should not be left behind")
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(filepath.Join(dir, ".env")))
	assert.False(t, Exists(dir), "a directory is not a credential file")
}

func ptr(s string) *string { return &s }
