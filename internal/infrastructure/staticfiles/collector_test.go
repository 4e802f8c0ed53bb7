//go:build unit
// +build unit

package staticfiles

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/ShiroyamaY/tms/internal/assets"
	"github.com/ShiroyamaY/tms/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Collect(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	root := filepath.Join(t.TempDir(), "staticfiles")

	src := fstest.MapFS{
		"css/app.css":     {Data: []byte("body{}")},
		"docs/index.html": {Data: []byte("<html></html>")},
	}
	c := NewCollector(src, root, logger)

	res, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, Result{Copied: 2}, res)

	data, err := os.ReadFile(filepath.Join(root, "css", "app.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))

	// second run leaves identical files alone
	res, err = c.Collect()
	require.NoError(t, err)
	assert.Equal(t, Result{Unmodified: 2}, res)

	// changed files are overwritten
	require.NoError(t, os.WriteFile(filepath.Join(root, "css", "app.css"), []byte("stale"), 0o644))
	res, err = c.Collect()
	require.NoError(t, err)
	assert.Equal(t, Result{Copied: 1, Unmodified: 1}, res)

	data, err = os.ReadFile(filepath.Join(root, "css", "app.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))
}

func TestCollector_EmbeddedAssets(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	root := t.TempDir()

	res, err := NewCollector(assets.Static(), root, logger).Collect()
	require.NoError(t, err)
	assert.Positive(t, res.Copied)
	assert.FileExists(t, filepath.Join(root, "docs", "index.html"))
}

func TestCollector_UnwritableRoot(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	dir := testutil.WriteTree(t, map[string]string{"blocker": "file"})

	_, err := NewCollector(fstest.MapFS{"a.css": {Data: []byte("x")}}, filepath.Join(dir, "blocker"), logger).Collect()
	require.Error(t, err)
}
