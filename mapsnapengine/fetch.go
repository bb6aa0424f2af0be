package mapsnapengine

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapsnap/mapsnapcfg"
	"github.com/jamesrr39/mapsnap/mapsnapengine/resourcecache"
)

// Loader fetches engine resources (styles, TileJSON, tiles). Scheme-alias
// URLs are resolved through the tile server configuration, the API key is
// attached where the provider requires one, and http(s) responses go through
// the resource cache. file:// and asset:// fetches bypass the cache.
type Loader struct {
	logger  *logpkg.Logger
	client  *http.Client
	cache   *resourcecache.Cache
	resOpts mapsnapcfg.ResourceOptions
}

func NewLoader(logger *logpkg.Logger, resOpts mapsnapcfg.ResourceOptions, cache *resourcecache.Cache) *Loader {
	return &Loader{
		logger: logger,
		client: &http.Client{
			Timeout: time.Second * 30,
		},
		cache:   cache,
		resOpts: resOpts,
	}
}

// Fetch returns the bytes of the resource at rawURL. The URL it reports
// failures against is the resolved one.
func (l *Loader) Fetch(rawURL string) ([]byte, errorsx.Error) {
	tileServer := l.resOpts.TileServer()

	resolved := tileServer.ResolveAlias(rawURL)

	u, err := url.Parse(resolved)
	if err != nil {
		return nil, errorsx.Wrap(err, "url", resolved)
	}

	switch u.Scheme {
	case "file":
		return l.fetchFile(u.Path)
	case "asset":
		return l.fetchFile(filepath.Join(l.resOpts.AssetPath(), u.Host+u.Path))
	case "http", "https":
		return l.fetchHTTP(tileServer.WithAPIKey(resolved, l.resOpts.APIKey()))
	default:
		return nil, errorsx.Errorf("unsupported scheme %q in url %q", u.Scheme, resolved)
	}
}

func (l *Loader) fetchFile(filePath string) ([]byte, errorsx.Error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", filePath)
	}

	return data, nil
}

func (l *Loader) fetchHTTP(fetchURL string) ([]byte, errorsx.Error) {
	if l.cache != nil {
		data, found, err := l.cache.Get(fetchURL)
		if err != nil {
			l.logger.Warn("resource cache read failed for %q: %s", fetchURL, err.Error())
		} else if found {
			return data, nil
		}
	}

	resp, err := l.client.Get(fetchURL)
	if err != nil {
		return nil, errorsx.Wrap(err, "url", fetchURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorsx.Errorf("fetching %q: expected status %d but got %d", fetchURL, http.StatusOK, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorsx.Wrap(err, "url", fetchURL)
	}

	if l.cache != nil {
		err2 := l.cache.Put(fetchURL, data)
		if err2 != nil {
			l.logger.Warn("resource cache write failed for %q: %s", fetchURL, err2.Error())
		}
	}

	return data, nil
}

// IsRemote reports whether the URL (after alias resolution) needs a network
// fetch.
func (l *Loader) IsRemote(rawURL string) bool {
	resolved := l.resOpts.TileServer().ResolveAlias(rawURL)
	return strings.HasPrefix(resolved, "http://") || strings.HasPrefix(resolved, "https://")
}
