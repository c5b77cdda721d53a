package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/prisma-infer/pkg/prisma"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"users.json", FormatJSON, false},
		{"USERS.JSON", FormatJSON, false},
		{"users.yaml", FormatYAML, false},
		{"dir/users.yml", FormatYAML, false},
		{"users.csv", "", true},
		{"users", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(0, nil)

	t.Run("json", func(t *testing.T) {
		path := writeFile(t, dir, "users.json", `[{"id": 1, "name": "a"}, {"id": 2}]`)

		sample, err := loader.LoadFile(path, "")
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, sample.Format)
		assert.Len(t, sample.Records, 2)
		assert.Equal(t, []string{"id", "name"}, sample.Records[0].Keys())
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, dir, "users.yml", "- id: 1\n  name: a\n")

		sample, err := loader.LoadFile(path, "")
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, sample.Format)
		assert.Len(t, sample.Records, 1)
	})

	t.Run("unknown extension is read as json", func(t *testing.T) {
		path := writeFile(t, dir, "users.txt", `[{"id": 1}]`)

		sample, err := loader.LoadFile(path, "")
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, sample.Format)
	})

	t.Run("selection", func(t *testing.T) {
		path := writeFile(t, dir, "page.json", `{"data": {"items": [{"b": 1, "a": 2}]}}`)

		sample, err := loader.LoadFile(path, ".data.items")
		require.NoError(t, err)
		require.Len(t, sample.Records, 1)
		assert.Equal(t, []string{"b", "a"}, sample.Records[0].Keys())
	})

	t.Run("not an array", func(t *testing.T) {
		path := writeFile(t, dir, "one.json", `{"id": 1}`)

		_, err := loader.LoadFile(path, "")
		assert.ErrorIs(t, err, prisma.ErrNotArray)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `[{"id": 1},]`)

		_, err := loader.LoadFile(path, "")
		assert.ErrorIs(t, err, prisma.ErrInvalidJSON)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadFile(filepath.Join(dir, "nope.json"), "")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad selection", func(t *testing.T) {
		path := writeFile(t, dir, "sel.json", `[]`)

		_, err := loader.LoadFile(path, ".[")
		assert.ErrorIs(t, err, ErrSelect)
		assert.ErrorContains(t, err, "select: invalid jq expression")
	})
}

func TestLoader_Stdin(t *testing.T) {
	loader := NewLoader(0, nil).WithStdin(strings.NewReader(`[{"x": true}]`))

	sample, err := loader.LoadFile(StdinPath, "")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, sample.Format)
	require.Len(t, sample.Records, 1)
}

func TestLoader_SizeLimit(t *testing.T) {
	loader := NewLoader(8, nil)

	_, err := loader.ReadAll(strings.NewReader(`[{"id": 1}]`))
	assert.ErrorIs(t, err, ErrTooLarge)

	data, err := loader.ReadAll(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = loader.Decode([]byte(`[{"id": 1}]`), FormatJSON, "")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLoader_DecodeUnknownFormat(t *testing.T) {
	_, err := NewLoader(0, nil).Decode([]byte(`[]`), Format("toml"), "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
