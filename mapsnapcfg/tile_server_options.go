package mapsnapcfg

import (
	"fmt"
	"net/url"
	"strings"
)

// Fixed path segments registered alongside each URL template. These are
// policy constants of this layer, not provider requirements.
const (
	SourcePathSegment  = ""
	StylePathSegment   = "maps"
	SpritesPathSegment = ""
	GlyphsPathSegment  = "fonts"
	TilePathSegment    = "tiles"
)

// DefaultStyleName is the name the sole default style is registered under.
const DefaultStyleName = "Basic"

// DefaultStyleVersion is the version the sole default style is registered with.
const DefaultStyleVersion = 1

// TemplateEntry pairs a URL template with its fixed path segment.
type TemplateEntry struct {
	Template    string
	PathSegment string
}

// DefaultStyle is a named style registered with the tile server configuration.
type DefaultStyle struct {
	URL     string
	Name    string
	Version int
}

// TileServerOptions describes how to reach a remote tile provider: its URL
// scheme, the templates for each resource kind, and the API key policy.
// Build it with the With* methods; each returns a copy, so a built value
// never changes underneath its consumers.
type TileServerOptions struct {
	baseURL             string
	uriSchemeAlias      string
	apiKeyParameterName string

	source  TemplateEntry
	style   TemplateEntry
	sprites TemplateEntry
	glyphs  TemplateEntry
	tile    TemplateEntry

	defaultStyles    []DefaultStyle
	defaultStyleName string

	requiresAPIKey bool
}

func NewTileServerOptions() TileServerOptions {
	return TileServerOptions{}
}

func (o TileServerOptions) WithBaseURL(baseURL string) TileServerOptions {
	o.baseURL = baseURL
	return o
}

func (o TileServerOptions) WithURISchemeAlias(alias string) TileServerOptions {
	o.uriSchemeAlias = alias
	return o
}

func (o TileServerOptions) WithAPIKeyParameterName(name string) TileServerOptions {
	o.apiKeyParameterName = name
	return o
}

func (o TileServerOptions) WithSourceTemplate(template, pathSegment string) TileServerOptions {
	o.source = TemplateEntry{template, pathSegment}
	return o
}

func (o TileServerOptions) WithStyleTemplate(template, pathSegment string) TileServerOptions {
	o.style = TemplateEntry{template, pathSegment}
	return o
}

func (o TileServerOptions) WithSpritesTemplate(template, pathSegment string) TileServerOptions {
	o.sprites = TemplateEntry{template, pathSegment}
	return o
}

func (o TileServerOptions) WithGlyphsTemplate(template, pathSegment string) TileServerOptions {
	o.glyphs = TemplateEntry{template, pathSegment}
	return o
}

func (o TileServerOptions) WithTileTemplate(template, pathSegment string) TileServerOptions {
	o.tile = TemplateEntry{template, pathSegment}
	return o
}

func (o TileServerOptions) WithDefaultStyles(styles []DefaultStyle) TileServerOptions {
	o.defaultStyles = append([]DefaultStyle{}, styles...)
	return o
}

// WithDefaultStyleName selects the active default style. The name is resolved
// against the registered default styles at lookup time, so registration must
// happen before selection.
func (o TileServerOptions) WithDefaultStyleName(name string) TileServerOptions {
	o.defaultStyleName = name
	return o
}

func (o TileServerOptions) SetRequiresAPIKey(requiresAPIKey bool) TileServerOptions {
	o.requiresAPIKey = requiresAPIKey
	return o
}

func (o TileServerOptions) BaseURL() string                { return o.baseURL }
func (o TileServerOptions) URISchemeAlias() string         { return o.uriSchemeAlias }
func (o TileServerOptions) APIKeyParameterName() string    { return o.apiKeyParameterName }
func (o TileServerOptions) SourceTemplate() TemplateEntry  { return o.source }
func (o TileServerOptions) StyleTemplate() TemplateEntry   { return o.style }
func (o TileServerOptions) SpritesTemplate() TemplateEntry { return o.sprites }
func (o TileServerOptions) GlyphsTemplate() TemplateEntry  { return o.glyphs }
func (o TileServerOptions) TileTemplate() TemplateEntry    { return o.tile }
func (o TileServerOptions) RequiresAPIKey() bool           { return o.requiresAPIKey }

func (o TileServerOptions) DefaultStyles() []DefaultStyle {
	return append([]DefaultStyle{}, o.defaultStyles...)
}

// DefaultStyle resolves the selected default style name against the
// registered styles.
func (o TileServerOptions) DefaultStyle() (DefaultStyle, bool) {
	for _, style := range o.defaultStyles {
		if style.Name == o.defaultStyleName {
			return style, true
		}
	}
	return DefaultStyle{}, false
}

// DefaultStyleURL returns the URL of the selected default style, or "" if no
// registered style matches the selected name.
func (o TileServerOptions) DefaultStyleURL() string {
	style, ok := o.DefaultStyle()
	if !ok {
		return ""
	}
	return style.URL
}

// ResolveAlias expands a "<uriSchemeAlias>://" URL into a concrete provider
// URL using the registered templates. The first path element selects the
// resource kind by matching a registered path segment (e.g. "maps" for
// styles, "fonts" for glyphs, "tiles" for tiles); the remainder substitutes
// the {path} placeholder. URLs in any other scheme pass through unchanged.
func (o TileServerOptions) ResolveAlias(rawURL string) string {
	if o.uriSchemeAlias == "" || !strings.HasPrefix(rawURL, o.uriSchemeAlias+"://") {
		return rawURL
	}

	rest := strings.TrimPrefix(rawURL, o.uriSchemeAlias+"://")

	entry := o.source
	for _, candidate := range []TemplateEntry{o.style, o.glyphs, o.tile, o.sprites} {
		if candidate.PathSegment == "" {
			continue
		}
		if rest == candidate.PathSegment || strings.HasPrefix(rest, candidate.PathSegment+"/") {
			entry = candidate
			rest = strings.TrimPrefix(rest, candidate.PathSegment)
			break
		}
	}

	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}

	expanded := entry.Template
	switch {
	case strings.Contains(expanded, "{path}"):
		expanded = strings.ReplaceAll(expanded, "{path}", rest)
	case strings.Contains(expanded, "{domain}"):
		expanded = strings.ReplaceAll(expanded, "{domain}", strings.TrimPrefix(rest, "/"))
	default:
		// template carries inline placeholders the URL path already spells
		// out (e.g. glyph ranges); keep the template's static prefix
		prefix := expanded
		if idx := strings.Index(expanded, "{"); idx != -1 {
			prefix = strings.TrimSuffix(expanded[:idx], "/")
		}
		expanded = prefix + rest
	}

	// rest carries a leading slash; templates like "/{path}" spell their own
	expanded = strings.ReplaceAll(expanded, "//", "/")

	return o.baseURL + expanded
}

// WithAPIKey appends the API key query parameter to the given URL when the
// provider requires one. URLs that fail to parse are returned unchanged; the
// provider rejects them on first use.
func (o TileServerOptions) WithAPIKey(rawURL, apiKey string) string {
	if !o.requiresAPIKey || o.apiKeyParameterName == "" || apiKey == "" {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := u.Query()
	query.Set(o.apiKeyParameterName, apiKey)
	u.RawQuery = query.Encode()

	return u.String()
}

func (o TileServerOptions) String() string {
	return fmt.Sprintf("TileServerOptions{baseURL: %q, schemeAlias: %q, defaultStyle: %q}", o.baseURL, o.uriSchemeAlias, o.defaultStyleName)
}
