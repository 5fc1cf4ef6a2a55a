package loader

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

type failFS struct{}

func (failFS) ReadFile(string) ([]byte, error) {
	return nil, fs.ErrPermission
}

type sample struct {
	List struct {
		Capacity int     `toml:"capacity" yaml:"capacity"`
		Factor   float64 `toml:"factor" yaml:"factor"`
	} `toml:"list" yaml:"list"`
	Name string `toml:"name" yaml:"name"`
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.toml", FormatTOML},
		{"dir/A.TOML", FormatTOML},
		{"a.yaml", FormatYAML},
		{"a.yml", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatFor("a.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadTOML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c.toml", `
name = "demo"

[list]
capacity = 32
factor = 2.0
`)
	var s sample
	found, err := Load(memfs, "/c.toml", &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "demo", s.Name)
	assert.Equal(t, 32, s.List.Capacity)
	assert.InDelta(t, 2.0, s.List.Factor, 1e-9)
}

func TestLoadMissingFile(t *testing.T) {
	s := sample{Name: "keep"}
	found, err := Load(NewMemFS(), "/none.toml", &s)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "keep", s.Name)
}

func TestLoadReadError(t *testing.T) {
	var s sample
	_, err := Load(failFS{}, "/c.toml", &s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestLoadTOMLSyntaxError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "name = \n[list\n")

	var s sample
	_, err := Load(memfs, "/bad.toml", &s)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/bad.toml", perr.Path)
	assert.Positive(t, perr.Line)
}

func TestLoadTOMLUnknownKey(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c.toml", "[list]\ncapacty = 3\n")

	var s sample
	_, err := Load(memfs, "/c.toml", &s)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "capacty")
}

func TestParseErrorFormat(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a", Message: "m"}, "parse error in a: m"},
		{&ParseError{Path: "a", Line: 2, Message: "m"}, "parse error in a at line 2: m"},
		{&ParseError{Path: "a", Line: 2, Column: 5, Message: "m"}, "parse error in a at line 2, column 5: m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}
