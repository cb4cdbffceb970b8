package yaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/refiner"
	"github.com/fwojciec/refiner/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	ex := yaml.Default()
	require.Len(t, ex, 3)
	assert.Equal(t, "mobile", ex[0].Key)
	assert.Equal(t, "Mobile App", ex[0].Title)
	assert.Equal(t, "web", ex[1].Key)
	assert.Equal(t, "ai", ex[2].Key)

	ai, ok := ex.Lookup("ai")
	require.True(t, ok)
	assert.Contains(t, ai.Text, "customer service chatbot")
	// Folded scalars join lines with spaces and drop the final newline.
	assert.NotContains(t, ai.Text, "\n")
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("title defaults to key", func(t *testing.T) {
		t.Parallel()
		ex, err := yaml.Parse([]byte("version: 1\nexamples:\n  - key: cli\n    text: Build a CLI\n"))
		require.NoError(t, err)
		assert.Equal(t, refiner.Examples{{Key: "cli", Title: "cli", Text: "Build a CLI"}}, ex)
	})

	t.Run("duplicate key", func(t *testing.T) {
		t.Parallel()
		_, err := yaml.Parse([]byte("version: 1\nexamples:\n  - {key: a, text: x}\n  - {key: a, text: y}\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate key "a"`)
	})

	t.Run("missing text", func(t *testing.T) {
		t.Parallel()
		_, err := yaml.Parse([]byte("version: 1\nexamples:\n  - {key: a}\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing text")
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		_, err := yaml.Parse([]byte("version: 1\nexamples:\n  - {text: x}\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing key")
	})

	t.Run("unsupported version", func(t *testing.T) {
		t.Parallel()
		_, err := yaml.Parse([]byte("version: 2\nexamples: []\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported catalog version")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		_, err := yaml.Parse([]byte("version: [\n"))
		require.Error(t, err)
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded catalog", func(t *testing.T) {
		t.Parallel()
		ex, err := yaml.LoadOrDefault("")
		require.NoError(t, err)
		assert.Len(t, ex, 3)
	})

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "examples.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: 1\nexamples:\n  - {key: k, title: K, text: T}\n"), 0o600))

		ex, err := yaml.LoadOrDefault(path)
		require.NoError(t, err)
		assert.Equal(t, refiner.Examples{{Key: "k", Title: "K", Text: "T"}}, ex)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := yaml.LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
