package mapsnapengine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/jamesrr39/mapsnap/mapsnap"
	"github.com/jamesrr39/mapsnap/mapsnapcfg"
)

// newTileProviderServer serves a minimal raster style at /style.json and
// solid-color 256px tiles at /tiles/{z}/{x}/{y}.png, each tile's color
// derived from its coordinates so camera moves change the composited frame.
func newTileProviderServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/style.json", func(w http.ResponseWriter, r *http.Request) {
		styleJSON := fmt.Sprintf(`{
			"version": 8,
			"name": "Fixture",
			"sources": {
				"basemap": {"type": "raster", "tiles": ["%s/tiles/{z}/{x}/{y}.png"]}
			},
			"layers": [
				{"id": "background", "type": "background", "paint": {"background-color": "#ffffff"}},
				{"id": "basemap", "type": "raster", "source": "basemap"}
			]
		}`, server.URL)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(styleJSON))
	})

	mux.HandleFunc("/tiles/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/tiles/"), ".png"), "/")
		if len(parts) != 3 {
			http.NotFound(w, r)
			return
		}

		var coords [3]uint64
		for i, part := range parts {
			v, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				http.NotFound(w, r)
				return
			}
			coords[i] = v
		}

		img := image.NewRGBA(image.Rect(0, 0, 256, 256))
		tileColor := color.RGBA{
			R: uint8(coords[0] * 37),
			G: uint8(coords[1] * 59),
			B: uint8(coords[2] * 83),
			A: 0xff,
		}
		draw.Draw(img, img.Bounds(), image.NewUniform(tileColor), image.Point{}, draw.Src)

		buf := bytes.NewBuffer(nil)
		err := png.Encode(buf, img)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	})

	return server
}

func fixtureParams(serverURL string, width, height uint32, pixelRatio float64) mapsnapcfg.Params {
	return mapsnapcfg.Params{
		Mode:            mapsnap.MapModeStatic,
		Width:           width,
		Height:          height,
		PixelRatio:      pixelRatio,
		AssetRoot:       ".",
		BaseURL:         serverURL,
		URISchemeAlias:  "fixture",
		SourceTemplate:  "/tiles/{domain}.json",
		StyleTemplate:   "{path}.json",
		SpritesTemplate: "/{path}/sprite{scale}.{format}",
		GlyphsTemplate:  "/font/{fontstack}/{start}-{end}.pbf",
		TileTemplate:    "/{path}",
		DefaultStyleURL: serverURL + "/style.json",
	}
}
