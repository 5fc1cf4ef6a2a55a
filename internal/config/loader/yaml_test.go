package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c.yml", `
name: demo
list:
  capacity: 8
  factor: 1.25
`)
	var s sample
	found, err := Load(memfs, "/c.yml", &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "demo", s.Name)
	assert.Equal(t, 8, s.List.Capacity)
	assert.InDelta(t, 1.25, s.List.Factor, 1e-9)
}

func TestLoadYAMLEmptyDocument(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c.yaml", "")

	s := sample{Name: "keep"}
	found, err := Load(memfs, "/c.yaml", &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "keep", s.Name)
}

func TestLoadYAMLUnknownKey(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c.yaml", "list:\n  size: 3\n")

	var s sample
	_, err := Load(memfs, "/c.yaml", &s)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/c.yaml", perr.Path)
	assert.Contains(t, perr.Message, "size")
}

func TestLoadYAMLTypeError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c.yaml", "list:\n  capacity: lots\n")

	var s sample
	_, err := Load(memfs, "/c.yaml", &s)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
