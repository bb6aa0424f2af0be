package mapsnapcfg

import (
	"github.com/jamesrr39/mapsnap/mapsnap"
)

// ResourceOptions bundles the filesystem locations and credential the engine
// needs, plus the tile server configuration. Never constructed without one.
type ResourceOptions struct {
	cachePath  string
	assetPath  string
	apiKey     string
	tileServer TileServerOptions
}

func NewResourceOptions(cachePath, assetPath, apiKey string, tileServer TileServerOptions) ResourceOptions {
	return ResourceOptions{
		cachePath:  cachePath,
		assetPath:  assetPath,
		apiKey:     apiKey,
		tileServer: tileServer,
	}
}

func (o ResourceOptions) CachePath() string             { return o.cachePath }
func (o ResourceOptions) AssetPath() string             { return o.assetPath }
func (o ResourceOptions) APIKey() string                { return o.apiKey }
func (o ResourceOptions) TileServer() TileServerOptions { return o.tileServer }

// MapOptions configures one map object: its mode, surface size and scale.
type MapOptions struct {
	mode       mapsnap.MapMode
	size       mapsnap.Size
	pixelRatio float64
}

func NewMapOptions(mode mapsnap.MapMode, size mapsnap.Size, pixelRatio float64) MapOptions {
	return MapOptions{
		mode:       mode,
		size:       size,
		pixelRatio: pixelRatio,
	}
}

func (o MapOptions) Mode() mapsnap.MapMode { return o.mode }
func (o MapOptions) Size() mapsnap.Size    { return o.size }
func (o MapOptions) PixelRatio() float64   { return o.pixelRatio }

// Params is the full flat parameter set for Assemble. All strings are opaque;
// nothing is validated here. Zero sizes and malformed templates pass through
// and fail at the engine on first use.
type Params struct {
	Mode       mapsnap.MapMode
	Width      uint32
	Height     uint32
	PixelRatio float64

	CachePath string
	AssetRoot string
	APIKey    string

	BaseURL             string
	URISchemeAlias      string
	APIKeyParameterName string
	SourceTemplate      string
	StyleTemplate       string
	SpritesTemplate     string
	GlyphsTemplate      string
	TileTemplate        string
	DefaultStyleURL     string
	RequiresAPIKey      bool
}

// Assemble turns the flat parameters into the two nested option aggregates
// the engine consumes. Pure construction: no I/O, no failure path. The sole
// default style is registered under DefaultStyleName before it is selected
// by that name.
func Assemble(p Params) (MapOptions, ResourceOptions) {
	defaultStyles := []DefaultStyle{
		{URL: p.DefaultStyleURL, Name: DefaultStyleName, Version: DefaultStyleVersion},
	}

	tileServerOptions := NewTileServerOptions().
		WithBaseURL(p.BaseURL).
		WithURISchemeAlias(p.URISchemeAlias).
		WithAPIKeyParameterName(p.APIKeyParameterName).
		WithSourceTemplate(p.SourceTemplate, SourcePathSegment).
		WithStyleTemplate(p.StyleTemplate, StylePathSegment).
		WithSpritesTemplate(p.SpritesTemplate, SpritesPathSegment).
		WithGlyphsTemplate(p.GlyphsTemplate, GlyphsPathSegment).
		WithTileTemplate(p.TileTemplate, TilePathSegment).
		WithDefaultStyles(defaultStyles).
		WithDefaultStyleName(DefaultStyleName).
		SetRequiresAPIKey(p.RequiresAPIKey)

	resourceOptions := NewResourceOptions(p.CachePath, p.AssetRoot, p.APIKey, tileServerOptions)

	mapOptions := NewMapOptions(p.Mode, mapsnap.Size{Width: p.Width, Height: p.Height}, p.PixelRatio)

	return mapOptions, resourceOptions
}
