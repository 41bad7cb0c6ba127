package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/botbridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_File(t *testing.T) {
	target, err := Resolve("testdata/echo/main.lua")
	require.NoError(t, err)

	abs, _ := filepath.Abs("testdata/echo")
	assert.Equal(t, filepath.Join(abs, "main.lua"), target.Path)
	assert.Equal(t, abs, target.Dir)
	assert.Nil(t, target.Manifest)
	assert.Equal(t, "main", target.Name())
}

func TestResolve_DirectoryDefaultMain(t *testing.T) {
	target, err := Resolve("testdata/echo")
	require.NoError(t, err)

	assert.Equal(t, DefaultMain, filepath.Base(target.Path))
	assert.Nil(t, target.Manifest)
}

func TestResolve_YAMLManifest(t *testing.T) {
	target, err := Resolve("testdata/project")
	require.NoError(t, err)

	require.NotNil(t, target.Manifest)
	assert.Equal(t, "bot.lua", filepath.Base(target.Path))
	assert.Equal(t, "greeter", target.Name())
	assert.Equal(t, "Greets people using a sibling module.", target.Manifest.Description)
}

func TestResolve_JSONManifest(t *testing.T) {
	target, err := Resolve("testdata/jsonproject")
	require.NoError(t, err)

	assert.Equal(t, "entry.lua", filepath.Base(target.Path))
	assert.Equal(t, "json-bot", target.Name())
}

func TestResolve_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested", "main.lua"), 0o755))

	broken := filepath.Join(dir, "broken")
	require.NoError(t, os.Mkdir(broken, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, "plugin.yaml"), []byte("main: [unclosed"), 0o644))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", "empty plugin path"},
		{"missing file", filepath.Join(dir, "nope.lua"), "nope.lua"},
		{"directory without main", dir, "main.lua"},
		{"main is a directory", filepath.Join(dir, "nested"), "is a directory"},
		{"bad manifest", broken, "plugin.yaml"},
		{"main escapes", "testdata/escape", "escapes plugin directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrLoad)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadManifest_None(t *testing.T) {
	m, err := LoadManifest(t.TempDir())
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestSignature_Accepts(t *testing.T) {
	assert.True(t, Signature{Params: 2}.Accepts(2))
	assert.True(t, Signature{Params: 3}.Accepts(2))
	assert.False(t, Signature{Params: 1}.Accepts(2))
	assert.True(t, Signature{Params: 1}.Accepts(1))
	assert.True(t, Signature{Variadic: true}.Accepts(2))
	assert.True(t, Signature{Params: 1, Variadic: true}.Accepts(2))
}
