package mapsnaprenderer

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapsnap/mapsnap"
	"github.com/jamesrr39/mapsnap/mapsnapcfg"
)

// ImageRendererOptions collects every construction parameter with the
// defaults of the public demo tile provider, so a zero-configuration
// renderer works out of the box. Chain the With* setters, then build a
// static- or tile-mode renderer.
type ImageRendererOptions struct {
	width      uint32
	height     uint32
	pixelRatio float64

	cachePath string
	assetRoot string
	apiKey    string

	provider mapsnapcfg.ProviderPreset
}

func NewImageRendererOptions() *ImageRendererOptions {
	return &ImageRendererOptions{
		width:      512,
		height:     512,
		pixelRatio: 1.0,
		cachePath:  "cache.sqlite",
		assetRoot:  ".",
		provider:   mapsnapcfg.DemotilesPreset(),
	}
}

func (o *ImageRendererOptions) WithSize(width, height uint32) *ImageRendererOptions {
	o.width = width
	o.height = height
	return o
}

func (o *ImageRendererOptions) WithPixelRatio(pixelRatio float64) *ImageRendererOptions {
	o.pixelRatio = pixelRatio
	return o
}

func (o *ImageRendererOptions) WithCachePath(cachePath string) *ImageRendererOptions {
	o.cachePath = cachePath
	return o
}

func (o *ImageRendererOptions) WithAssetRoot(assetRoot string) *ImageRendererOptions {
	o.assetRoot = assetRoot
	return o
}

func (o *ImageRendererOptions) WithAPIKey(apiKey string) *ImageRendererOptions {
	o.apiKey = apiKey
	return o
}

// WithProvider replaces the whole provider preset (base URL, scheme alias,
// templates, default style, key policy) in one call.
func (o *ImageRendererOptions) WithProvider(provider mapsnapcfg.ProviderPreset) *ImageRendererOptions {
	o.provider = provider
	return o
}

func (o *ImageRendererOptions) WithBaseURL(baseURL string) *ImageRendererOptions {
	o.provider.BaseURL = baseURL
	return o
}

func (o *ImageRendererOptions) WithURISchemeAlias(alias string) *ImageRendererOptions {
	o.provider.URISchemeAlias = alias
	return o
}

func (o *ImageRendererOptions) WithAPIKeyParameterName(name string) *ImageRendererOptions {
	o.provider.APIKeyParameterName = name
	return o
}

func (o *ImageRendererOptions) WithSourceTemplate(template string) *ImageRendererOptions {
	o.provider.SourceTemplate = template
	return o
}

func (o *ImageRendererOptions) WithStyleTemplate(template string) *ImageRendererOptions {
	o.provider.StyleTemplate = template
	return o
}

func (o *ImageRendererOptions) WithSpritesTemplate(template string) *ImageRendererOptions {
	o.provider.SpritesTemplate = template
	return o
}

func (o *ImageRendererOptions) WithGlyphsTemplate(template string) *ImageRendererOptions {
	o.provider.GlyphsTemplate = template
	return o
}

func (o *ImageRendererOptions) WithTileTemplate(template string) *ImageRendererOptions {
	o.provider.TileTemplate = template
	return o
}

func (o *ImageRendererOptions) WithDefaultStyleURL(styleURL string) *ImageRendererOptions {
	o.provider.DefaultStyleURL = styleURL
	return o
}

func (o *ImageRendererOptions) SetRequiresAPIKey(requiresAPIKey bool) *ImageRendererOptions {
	o.provider.RequiresAPIKey = requiresAPIKey
	return o
}

// Params assembles the flat parameter set for the given mode.
func (o *ImageRendererOptions) Params(mode mapsnap.MapMode) mapsnapcfg.Params {
	params := mapsnapcfg.Params{
		Mode:       mode,
		Width:      o.width,
		Height:     o.height,
		PixelRatio: o.pixelRatio,
		CachePath:  o.cachePath,
		AssetRoot:  o.assetRoot,
		APIKey:     o.apiKey,
	}
	o.provider.ApplyTo(&params)

	return params
}

// BuildStaticRenderer constructs a renderer in static mode.
func (o *ImageRendererOptions) BuildStaticRenderer(logger *logpkg.Logger) (*ImageRenderer, errorsx.Error) {
	mapOptions, resourceOptions := mapsnapcfg.Assemble(o.Params(mapsnap.MapModeStatic))
	return New(logger, mapOptions, resourceOptions)
}

// BuildTileRenderer constructs a renderer in tile mode, for use with
// RenderTile.
func (o *ImageRendererOptions) BuildTileRenderer(logger *logpkg.Logger) (*ImageRenderer, errorsx.Error) {
	mapOptions, resourceOptions := mapsnapcfg.Assemble(o.Params(mapsnap.MapModeTile))
	return New(logger, mapOptions, resourceOptions)
}
