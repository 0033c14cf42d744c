package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("segmenter.sentences_per_segment", 4))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, 4, store.GetInt("segmenter.sentences_per_segment"))
	assert.True(t, store.GetBool("verbose"))
}

func TestGet_MissingAndWrongType(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("embedding.provider", "ollama"))

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("nope"))
	assert.Zero(t, store.GetInt("embedding.provider"))
	assert.False(t, store.GetBool("embedding.provider"))
}

func TestPersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("storage.dir", "/tmp/kb"))
	require.NoError(t, store.Set("segmenter.sentences_per_segment", 2))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/kb", reloaded.GetString("storage.dir"))
	assert.Equal(t, 2, reloaded.GetInt("segmenter.sentences_per_segment"))
}

func TestLoad_FlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := "[embedding]\nprovider = \"openai\"\nmodel = \"text-embedding-3-small\"\n\n[extractor.patterns]\nplasmid = \"p[A-Z]+\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("embedding.provider"))
	assert.Equal(t, "text-embedding-3-small", store.GetString("embedding.model"))
	assert.Equal(t, "p[A-Z]+", store.GetString("extractor.patterns.plasmid"))
}

func TestStringMap(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("extractor.patterns.plasmid", `p[A-Z]+\d+`))
	require.NoError(t, store.Set("extractor.patterns.antibody", `mAb\d+`))
	require.NoError(t, store.Set("extractor.min_confidence", "0.6"))

	patterns := store.StringMap("extractor.patterns")
	assert.Equal(t, map[string]string{
		"plasmid":  `p[A-Z]+\d+`,
		"antibody": `mAb\d+`,
	}, patterns)

	assert.Empty(t, store.StringMap("missing.prefix"))
}

func TestLoad_MissingFileStartsEmpty(t *testing.T) {
	store := newTestConfigStore(t)
	assert.Empty(t, store.GetString("anything"))
	assert.NoError(t, store.Load())
}
