package mapsnapengine

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStyleJSON = `{
	"version": 8,
	"name": "Test Style",
	"sources": {
		"basemap": {
			"type": "raster",
			"tiles": ["https://tiles.example.com/{z}/{x}/{y}.png"]
		}
	},
	"layers": [
		{"id": "background", "type": "background", "paint": {"background-color": "#d8e8ff"}},
		{"id": "basemap", "type": "raster", "source": "basemap"}
	]
}`

func Test_ParseStyle(t *testing.T) {
	style, err := ParseStyle(bytes.NewReader([]byte(testStyleJSON)))
	require.NoError(t, err)

	assert.Equal(t, 8, style.Version)
	assert.Equal(t, "Test Style", style.Name)
	require.Len(t, style.Sources, 1)
	assert.Equal(t, SourceTypeRaster, style.Sources["basemap"].Type)

	assert.Equal(t, []string{"https://tiles.example.com/{z}/{x}/{y}.png"}, style.TileTemplates())
	assert.Equal(t, color.RGBA{0xd8, 0xe8, 0xff, 0xff}, style.BackgroundColor())
}

func Test_ParseStyle_rejectsMissingVersion(t *testing.T) {
	_, err := ParseStyle(bytes.NewReader([]byte(`{"name": "no version"}`)))
	assert.Error(t, err)
}

func Test_ParseStyle_rejectsMalformedJSON(t *testing.T) {
	_, err := ParseStyle(bytes.NewReader([]byte(`{"version": 8,`)))
	assert.Error(t, err)
}

func Test_BackgroundColor_defaultsToWhite(t *testing.T) {
	style, err := ParseStyle(bytes.NewReader([]byte(`{"version": 8}`)))
	require.NoError(t, err)
	assert.Equal(t, color.White, style.BackgroundColor())
}

func Test_TileTemplates_emptyWithoutSources(t *testing.T) {
	style, err := ParseStyle(bytes.NewReader([]byte(`{"version": 8}`)))
	require.NoError(t, err)
	assert.Nil(t, style.TileTemplates())
}

func Test_ExpandTileTemplate(t *testing.T) {
	assert.Equal(t,
		"https://tiles.example.com/4/8/5.png",
		ExpandTileTemplate("https://tiles.example.com/{z}/{x}/{y}.png", 4, 8, 5),
	)
	// templates without placeholders come back unchanged
	assert.Equal(t, "https://tiles.example.com/static.png", ExpandTileTemplate("https://tiles.example.com/static.png", 4, 8, 5))
}

type parseHexColorTest struct {
	Input    string
	Expected color.RGBA
	OK       bool
}

func Test_parseHexColor(t *testing.T) {
	var tests = []parseHexColorTest{
		{"#ffffff", color.RGBA{0xff, 0xff, 0xff, 0xff}, true},
		{"#000000", color.RGBA{0x00, 0x00, 0x00, 0xff}, true},
		{"#d8E8Ff", color.RGBA{0xd8, 0xe8, 0xff, 0xff}, true},
		{"#fff", color.RGBA{0xff, 0xff, 0xff, 0xff}, true},
		{"#abc", color.RGBA{0xaa, 0xbb, 0xcc, 0xff}, true},
		{"ffffff", color.RGBA{}, false},
		{"#gggggg", color.RGBA{}, false},
		{"#ffff", color.RGBA{}, false},
	}

	for _, test := range tests {
		c, ok := parseHexColor(test.Input)
		assert.Equal(t, test.OK, ok, test.Input)
		if test.OK {
			assert.Equal(t, test.Expected, c, test.Input)
		}
	}
}
