package mapsnapcfg

import (
	"os"

	"github.com/jamesrr39/goutil/errorsx"
	"gopkg.in/yaml.v3"
)

// ProviderPreset is a named, file-loadable set of tile provider parameters.
// The camera-independent construction parameters of a renderer can be filled
// from one of these instead of being passed flag by flag.
type ProviderPreset struct {
	Name                string `yaml:"name"`
	BaseURL             string `yaml:"baseUrl"`
	URISchemeAlias      string `yaml:"uriSchemeAlias"`
	APIKeyParameterName string `yaml:"apiKeyParameterName"`
	SourceTemplate      string `yaml:"sourceTemplate"`
	StyleTemplate       string `yaml:"styleTemplate"`
	SpritesTemplate     string `yaml:"spritesTemplate"`
	GlyphsTemplate      string `yaml:"glyphsTemplate"`
	TileTemplate        string `yaml:"tileTemplate"`
	DefaultStyleURL     string `yaml:"defaultStyleUrl"`
	RequiresAPIKey      bool   `yaml:"requiresApiKey"`
}

// ApplyTo copies the preset's provider fields onto the given params,
// leaving size, paths and credentials untouched.
func (p ProviderPreset) ApplyTo(params *Params) {
	params.BaseURL = p.BaseURL
	params.URISchemeAlias = p.URISchemeAlias
	params.APIKeyParameterName = p.APIKeyParameterName
	params.SourceTemplate = p.SourceTemplate
	params.StyleTemplate = p.StyleTemplate
	params.SpritesTemplate = p.SpritesTemplate
	params.GlyphsTemplate = p.GlyphsTemplate
	params.TileTemplate = p.TileTemplate
	params.DefaultStyleURL = p.DefaultStyleURL
	params.RequiresAPIKey = p.RequiresAPIKey
}

// DemotilesPreset is the built-in provider preset, pointing at the public
// MapLibre demo tiles.
func DemotilesPreset() ProviderPreset {
	return ProviderPreset{
		Name:            "demotiles",
		BaseURL:         "https://demotiles.maplibre.org",
		URISchemeAlias:  "maplibre",
		SourceTemplate:  "/tiles/{domain}.json",
		StyleTemplate:   "{path}.json",
		SpritesTemplate: "/{path}/sprite{scale}.{format}",
		GlyphsTemplate:  "/font/{fontstack}/{start}-{end}.pbf",
		TileTemplate:    "/{path}",
		DefaultStyleURL: "https://demotiles.maplibre.org/style.json",
		RequiresAPIKey:  false,
	}
}

type presetsFileType struct {
	Providers []ProviderPreset `yaml:"providers"`
}

// LoadPresets reads provider presets from a YAML file. The built-in
// demotiles preset is always present and cannot be overridden.
func LoadPresets(filePath string) (map[string]ProviderPreset, errorsx.Error) {
	presets := map[string]ProviderPreset{
		"demotiles": DemotilesPreset(),
	}

	if filePath == "" {
		return presets, nil
	}

	fileBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errorsx.Wrap(err, "presets file", filePath)
	}

	var presetsFile presetsFileType
	err = yaml.Unmarshal(fileBytes, &presetsFile)
	if err != nil {
		return nil, errorsx.Wrap(err, "presets file", filePath)
	}

	for _, preset := range presetsFile.Providers {
		if preset.Name == "" {
			return nil, errorsx.Errorf("preset without a name in %q", filePath)
		}
		if preset.Name == "demotiles" {
			return nil, errorsx.Errorf("preset name %q is reserved", preset.Name)
		}
		presets[preset.Name] = preset
	}

	return presets, nil
}
