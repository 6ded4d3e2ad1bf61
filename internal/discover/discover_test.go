package discover_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeusData/codemap/internal/config"
	"github.com/DeusData/codemap/internal/discover"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDiscoverSkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.go", "package main\n")
	writeFile(t, root, "node_modules/pkg/index.js", "module.exports = {}\n")
	writeFile(t, root, "vendor/lib/x.go", "package lib\n")

	d := discover.NewDefaultDiscoverer()
	files, err := d.Discover(context.Background(), root, config.Default())
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	assert.Contains(t, paths, "src/main.go")
	assert.NotContains(t, paths, "node_modules/pkg/index.js")
	assert.NotContains(t, paths, "vendor/lib/x.go")
}

func TestDiscoverHonorsMaxFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "b.go", "package b\n")
	writeFile(t, root, "c.go", "package c\n")

	cfg := config.Default()
	cfg.MaxFiles = 2

	d := discover.NewDefaultDiscoverer()
	files, err := d.Discover(context.Background(), root, cfg)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscoverOnlyFilesBypassesGlob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep/this.go", "package keep\n")
	writeFile(t, root, "ignored/other.go", "package ignored\n")

	cfg := config.Default()
	cfg.OnlyFiles = []string{"keep/this.go"}

	d := discover.NewDefaultDiscoverer()
	files, err := d.Discover(context.Background(), root, cfg)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "keep/this.go", files[0].RelPath)
}

func TestDiscoverSkipsFilesOutsideLanguageWhitelist(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "logo.png", "binary")
	writeFile(t, root, "README.md", "# hello\n")

	d := discover.NewDefaultDiscoverer()
	files, err := d.Discover(context.Background(), root, config.Default())
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	assert.Contains(t, paths, "main.go")
	assert.NotContains(t, paths, "logo.png")
	assert.NotContains(t, paths, "README.md")
}

func TestDiscoverSkipsCompiledArtifacts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "main.o", "binary")
	writeFile(t, root, "lib.pyc", "binary")

	d := discover.NewDefaultDiscoverer()
	files, err := d.Discover(context.Background(), root, config.Default())
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	assert.Contains(t, paths, "main.go")
	assert.NotContains(t, paths, "main.o")
	assert.NotContains(t, paths, "lib.pyc")
}
