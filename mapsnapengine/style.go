package mapsnapengine

import (
	"encoding/json"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
)

type SourceType string

const (
	SourceTypeVector SourceType = "vector"
	SourceTypeRaster SourceType = "raster"
)

type LayerType string

const (
	LayerTypeBackground LayerType = "background"
	LayerTypeRaster     LayerType = "raster"
)

// StyleSource is one source entry in a style document. Either Tiles carries
// the tile URL templates inline, or URL points at a TileJSON document the
// loader resolves during style load.
type StyleSource struct {
	Type    SourceType `json:"type"`
	Tiles   []string   `json:"tiles"`
	URL     string     `json:"url"`
	MinZoom *float64   `json:"minzoom"`
	MaxZoom *float64   `json:"maxzoom"`
}

type StyleLayer struct {
	ID     string                 `json:"id"`
	Type   LayerType              `json:"type"`
	Source string                 `json:"source"`
	Paint  map[string]interface{} `json:"paint"`
}

// Style is the subset of a style document this engine consumes: sources with
// tile templates and a background layer color.
type Style struct {
	Version int                     `json:"version"`
	Name    string                  `json:"name"`
	Sources map[string]*StyleSource `json:"sources"`
	Layers  []*StyleLayer           `json:"layers"`
}

func decodeJSON(data []byte, v interface{}) errorsx.Error {
	return errorsx.Wrap(json.Unmarshal(data, v))
}

func ParseStyle(r io.Reader) (*Style, errorsx.Error) {
	style := &Style{}

	err := json.NewDecoder(r).Decode(style)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	err2 := style.Validate()
	if err2 != nil {
		return nil, err2
	}

	return style, nil
}

func (s *Style) Validate() errorsx.Error {
	if s.Version == 0 {
		return errorsx.Errorf("style document without a version")
	}

	for name, source := range s.Sources {
		if source == nil {
			return errorsx.Errorf("source %q is empty", name)
		}
	}

	return nil
}

// BackgroundColor returns the color of the first background layer, or white
// if the style has none.
func (s *Style) BackgroundColor() color.Color {
	for _, layer := range s.Layers {
		if layer.Type != LayerTypeBackground || layer.Paint == nil {
			continue
		}

		value, ok := layer.Paint["background-color"].(string)
		if !ok {
			continue
		}

		c, ok := parseHexColor(value)
		if ok {
			return c
		}
	}

	return color.White
}

// TileTemplates returns the tile URL templates of the first source that
// carries any, in document order of the layers referencing it, falling back
// to any source with templates.
func (s *Style) TileTemplates() []string {
	for _, layer := range s.Layers {
		if layer.Source == "" {
			continue
		}
		source, ok := s.Sources[layer.Source]
		if ok && len(source.Tiles) > 0 {
			return source.Tiles
		}
	}

	for _, source := range s.Sources {
		if len(source.Tiles) > 0 {
			return source.Tiles
		}
	}

	return nil
}

// ExpandTileTemplate substitutes z/x/y into a tile URL template.
func ExpandTileTemplate(template string, zoom uint32, x, y uint64) string {
	expanded := template
	expanded = strings.ReplaceAll(expanded, "{z}", strconv.FormatUint(uint64(zoom), 10))
	expanded = strings.ReplaceAll(expanded, "{x}", strconv.FormatUint(x, 10))
	expanded = strings.ReplaceAll(expanded, "{y}", strconv.FormatUint(y, 10))
	return expanded
}

func parseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false
	}

	hexDigits := s[1:]

	parse := func(str string) (uint8, bool) {
		var v uint8
		for i := 0; i < len(str); i++ {
			c := str[i]
			var d uint8
			switch {
			case c >= '0' && c <= '9':
				d = c - '0'
			case c >= 'a' && c <= 'f':
				d = c - 'a' + 10
			case c >= 'A' && c <= 'F':
				d = c - 'A' + 10
			default:
				return 0, false
			}
			v = v<<4 | d
		}
		return v, true
	}

	switch len(hexDigits) {
	case 3:
		r, okR := parse(hexDigits[0:1])
		g, okG := parse(hexDigits[1:2])
		b, okB := parse(hexDigits[2:3])
		if !okR || !okG || !okB {
			return color.RGBA{}, false
		}
		return color.RGBA{R: r * 17, G: g * 17, B: b * 17, A: 0xff}, true
	case 6:
		r, okR := parse(hexDigits[0:2])
		g, okG := parse(hexDigits[2:4])
		b, okB := parse(hexDigits[4:6])
		if !okR || !okG || !okB {
			return color.RGBA{}, false
		}
		return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
	default:
		return color.RGBA{}, false
	}
}
