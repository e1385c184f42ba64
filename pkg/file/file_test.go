package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFileService_IsFileExists(t *testing.T) {
	fs := NewFileService()
	path := writeTemp(t, "present.txt", "x")

	ok, err := fs.IsFileExists(path)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = fs.IsFileExists(filepath.Join(t.TempDir(), "missing.txt"))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestFileService_ReadFile(t *testing.T) {
	fs := NewFileService()
	path := writeTemp(t, "hello.html", "<h1>Hello!</h1>")

	s, err := fs.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "<h1>Hello!</h1>", s)

	raw, err := fs.ReadFileRaw(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte("<h1>Hello!</h1>"), raw)

	_, err = fs.ReadFile(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestFileService_ReadYamlFile(t *testing.T) {
	fs := NewFileService()

	var out struct {
		Pool struct {
			Size int `yaml:"size"`
		} `yaml:"pool"`
	}

	path := writeTemp(t, "config.yaml", "pool:\n  size: 6\n")
	require.NoError(t, fs.ReadYamlFile(path, &out))
	assert.Equal(t, 6, out.Pool.Size)

	// Unknown keys are rejected so typos in config do not pass silently.
	path = writeTemp(t, "bad.yaml", "pool:\n  sise: 6\n")
	assert.Error(t, fs.ReadYamlFile(path, &out))
}
