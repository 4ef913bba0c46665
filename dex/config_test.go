package dex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	table := Builtin("")

	gen, err := table.Resolve("kanto")
	require.NoError(t, err)
	assert.Equal(t, "kanto", gen.Key)
	assert.Equal(t, "Kanto", gen.Title)
	assert.Equal(t, 151, gen.Limit)
	assert.Equal(t, 0, gen.Offset)
}

func TestResolveUnknownKey(t *testing.T) {
	table := Builtin("")

	_, err := table.Resolve("unknown")
	assert.ErrorIs(t, err, ErrInvalidGenerationKey)
	assert.Contains(t, err.Error(), "unknown")
}

func TestBuiltinInvariants(t *testing.T) {
	table := Builtin("")
	assert.NotEmpty(t, table)
	for key, gen := range table {
		assert.Equal(t, key, gen.Key)
		assert.Positive(t, gen.Limit, "generation %s", key)
		assert.NotEmpty(t, gen.Title, "generation %s", key)
		assert.NotNil(t, gen.Source, "generation %s", key)
	}
}

func TestBuiltinBaseURL(t *testing.T) {
	table := Builtin("http://localhost:9999/api")
	gen, err := table.Resolve("johto")
	require.NoError(t, err)

	src, ok := gen.Source.(*PaginatedAPISource)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:9999/api", src.BaseURL)
}

func writeGenerationsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "generations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGenerations(t *testing.T) {
	path := writeGenerationsFile(t, `
generations:
  - key: kanto
    title: Kanto
    limit: 151
    offset: 0
    base_url: http://localhost:8080/api
  - key: homebrew
    title: Homebrew Region
    file: ./data/homebrew.json
`)

	table, err := LoadGenerations(path)
	require.NoError(t, err)
	require.Len(t, table, 2)

	kanto, err := table.Resolve("kanto")
	require.NoError(t, err)
	api, ok := kanto.Source.(*PaginatedAPISource)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8080/api", api.BaseURL)
	assert.Equal(t, 151, kanto.Limit)

	brew, err := table.Resolve("homebrew")
	require.NoError(t, err)
	file, ok := brew.Source.(*StaticAggregateSource)
	require.True(t, ok)
	assert.Equal(t, "./data/homebrew.json", file.Path)
}

func TestLoadGenerationsDefaultBaseURL(t *testing.T) {
	path := writeGenerationsFile(t, `
generations:
  - key: kanto
    title: Kanto
    limit: 151
`)
	table, err := LoadGenerations(path)
	require.NoError(t, err)

	gen, err := table.Resolve("kanto")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, gen.Source.(*PaginatedAPISource).BaseURL)
}

func TestLoadGenerationsDuplicateKey(t *testing.T) {
	path := writeGenerationsFile(t, `
generations:
  - key: kanto
    title: Kanto
    limit: 151
  - key: kanto
    title: Kanto Again
    limit: 151
`)
	_, err := LoadGenerations(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadGenerationsMissingKey(t *testing.T) {
	path := writeGenerationsFile(t, `
generations:
  - title: No Key
    limit: 10
`)
	_, err := LoadGenerations(path)
	assert.Error(t, err)
}

func TestLoadGenerationsNoSource(t *testing.T) {
	path := writeGenerationsFile(t, `
generations:
  - key: broken
    title: Broken
`)
	_, err := LoadGenerations(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLoadGenerationsBadYAML(t *testing.T) {
	path := writeGenerationsFile(t, "generations: [not: {valid")
	_, err := LoadGenerations(path)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidGenerationKey))
}

func TestMerge(t *testing.T) {
	base := Builtin("")
	overlay := Table{
		"kanto":    {Key: "kanto", Title: "Kanto Override", Limit: 3, Source: &PaginatedAPISource{BaseURL: "http://localhost"}},
		"homebrew": {Key: "homebrew", Title: "Homebrew", Source: &StaticAggregateSource{Path: "x.json"}},
	}

	merged := base.Merge(overlay)
	assert.Len(t, merged, len(base)+1)

	kanto, err := merged.Resolve("kanto")
	require.NoError(t, err)
	assert.Equal(t, "Kanto Override", kanto.Title)

	// Base table untouched.
	orig, err := base.Resolve("kanto")
	require.NoError(t, err)
	assert.Equal(t, "Kanto", orig.Title)
}
