package mapsnapengine

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapsnap/mapsnapcfg"
	"github.com/jamesrr39/mapsnap/mapsnapengine/resourcecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoggerForLoader() *logpkg.Logger {
	return logpkg.NewLogger(os.Stderr, logpkg.LogLevelError)
}

func Test_Loader_fetchesOverHTTPAndPopulatesCache(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.Write([]byte("tile-bytes"))
	}))
	defer server.Close()

	cache, err := resourcecache.NewCache(filepath.Join(t.TempDir(), "cache.sqlite"))
	require.NoError(t, err)
	defer cache.Close()

	resourceOptions := mapsnapcfg.NewResourceOptions("", "", "", mapsnapcfg.NewTileServerOptions())
	loader := NewLoader(testLoggerForLoader(), resourceOptions, cache)

	data, err := loader.Fetch(server.URL + "/0/0/0.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("tile-bytes"), data)
	assert.Equal(t, 1, requestCount)

	// second fetch is served from the cache
	data, err = loader.Fetch(server.URL + "/0/0/0.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("tile-bytes"), data)
	assert.Equal(t, 1, requestCount)
}

func Test_Loader_non200IsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	resourceOptions := mapsnapcfg.NewResourceOptions("", "", "", mapsnapcfg.NewTileServerOptions())
	loader := NewLoader(testLoggerForLoader(), resourceOptions, nil)

	_, err := loader.Fetch(server.URL + "/missing.json")
	assert.Error(t, err)
}

func Test_Loader_fileURLsBypassTheCache(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "style.json")
	require.NoError(t, os.WriteFile(filePath, []byte(`{"version": 8}`), 0644))

	resourceOptions := mapsnapcfg.NewResourceOptions("", "", "", mapsnapcfg.NewTileServerOptions())
	loader := NewLoader(testLoggerForLoader(), resourceOptions, nil)

	data, err := loader.Fetch("file://" + filePath)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version": 8}`), data)
}

func Test_Loader_assetURLsResolveAgainstTheAssetRoot(t *testing.T) {
	assetRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(assetRoot, "sprites"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(assetRoot, "sprites", "sprite.json"), []byte("{}"), 0644))

	resourceOptions := mapsnapcfg.NewResourceOptions("", assetRoot, "", mapsnapcfg.NewTileServerOptions())
	loader := NewLoader(testLoggerForLoader(), resourceOptions, nil)

	data, err := loader.Fetch("asset://sprites/sprite.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), data)
}

func Test_Loader_resolvesSchemeAliasURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/style.json" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("key") != "secret" {
			http.Error(w, "missing api key", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"version": 8}`))
	}))
	defer server.Close()

	tileServer := mapsnapcfg.NewTileServerOptions().
		WithBaseURL(server.URL).
		WithURISchemeAlias("fixture").
		WithAPIKeyParameterName("key").
		WithStyleTemplate("{path}.json", mapsnapcfg.StylePathSegment).
		SetRequiresAPIKey(true)

	resourceOptions := mapsnapcfg.NewResourceOptions("", "", "secret", tileServer)
	loader := NewLoader(testLoggerForLoader(), resourceOptions, nil)

	data, err := loader.Fetch("fixture://maps/style")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version": 8}`), data)
}

func Test_Loader_unsupportedSchemeIsAnError(t *testing.T) {
	resourceOptions := mapsnapcfg.NewResourceOptions("", "", "", mapsnapcfg.NewTileServerOptions())
	loader := NewLoader(testLoggerForLoader(), resourceOptions, nil)

	_, err := loader.Fetch("gopher://example.com/style.json")
	assert.Error(t, err)
}

func Test_Loader_IsRemote(t *testing.T) {
	tileServer := mapsnapcfg.NewTileServerOptions().
		WithBaseURL("https://tiles.example.com").
		WithURISchemeAlias("fixture").
		WithStyleTemplate("{path}.json", mapsnapcfg.StylePathSegment)

	resourceOptions := mapsnapcfg.NewResourceOptions("", "", "", tileServer)
	loader := NewLoader(testLoggerForLoader(), resourceOptions, nil)

	assert.True(t, loader.IsRemote("https://tiles.example.com/style.json"))
	assert.True(t, loader.IsRemote("fixture://maps/style"))
	assert.False(t, loader.IsRemote("file:///tmp/style.json"))
}
