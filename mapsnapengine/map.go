package mapsnapengine

import (
	"bytes"
	"image"
	"image/draw"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapsnap/mapsnap"
	"github.com/jamesrr39/mapsnap/mapsnapcfg"
	"github.com/jamesrr39/mapsnap/mapsnapengine/resourcecache"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	xdraw "golang.org/x/image/draw"

	_ "image/jpeg"
	_ "image/png"
)

// logical tile edge length in css pixels, scaled by the pixel ratio when
// composited
const tileSizeLogical = 256

const (
	minTileZoom = 0
	maxTileZoom = 22
)

// mercator latitude limit; tiles do not exist beyond it
const maxMercatorLat = 85.05112877980659

// Map is the stateful engine entity: camera, style and debug state, bound to
// exactly one frontend for its whole lifetime. It is confined to a single
// logical owner; none of its methods may be called concurrently.
type Map struct {
	logger   *logpkg.Logger
	frontend *Frontend
	observer MapObserver
	loop     *RunLoop
	loader   *Loader
	cache    *resourcecache.Cache
	mapOpts  mapsnapcfg.MapOptions
	resOpts  mapsnapcfg.ResourceOptions

	camera     mapsnap.CameraOptions
	debugFlags mapsnap.DebugFlags

	styleURL string
	style    *Style
	styleErr errorsx.Error
}

// NewMap binds a new map object to the given frontend. The initial style
// load (of the configured default style) is scheduled on the run loop, so
// the first render pass observes it.
func NewMap(logger *logpkg.Logger, frontend *Frontend, observer MapObserver, loop *RunLoop, mapOpts mapsnapcfg.MapOptions, resOpts mapsnapcfg.ResourceOptions) (*Map, errorsx.Error) {
	if frontend == nil {
		return nil, errorsx.Wrap(ErrAllocation, "reason", "map created without a frontend")
	}
	if loop == nil {
		return nil, errorsx.Wrap(ErrAllocation, "reason", "map created without a run loop")
	}
	if observer == nil {
		observer = NullObserver()
	}

	var cache *resourcecache.Cache
	if resOpts.CachePath() != "" {
		var err errorsx.Error
		cache, err = resourcecache.NewCache(resOpts.CachePath())
		if err != nil {
			return nil, errorsx.Wrap(ErrAllocation, "cacheError", err.Error())
		}
	}

	m := &Map{
		logger:   logger,
		frontend: frontend,
		observer: observer,
		loop:     loop,
		loader:   NewLoader(logger, resOpts, cache),
		cache:    cache,
		mapOpts:  mapOpts,
		resOpts:  resOpts,
		camera: mapsnap.CameraOptions{
			Zoom: 0,
		},
	}

	m.LoadStyleURL(resOpts.TileServer().DefaultStyleURL())

	return m, nil
}

// JumpTo replaces the whole camera state in one step, without a transition.
// Values are not range-checked here.
func (m *Map) JumpTo(camera mapsnap.CameraOptions) {
	m.camera = camera
}

func (m *Map) Camera() mapsnap.CameraOptions {
	return m.camera
}

// SetDebugFlags replaces the debug overlay bitmask.
func (m *Map) SetDebugFlags(flags mapsnap.DebugFlags) {
	m.debugFlags = flags
}

func (m *Map) DebugFlags() mapsnap.DebugFlags {
	return m.debugFlags
}

// StyleURL returns the URL of the most recently requested style.
func (m *Map) StyleURL() string {
	return m.styleURL
}

// LoadStyleURL schedules loading of a style document, replacing the current
// style once the fetch completes. There is no completion signal; the next
// render pass observes whatever has loaded by then.
func (m *Map) LoadStyleURL(styleURL string) {
	m.styleURL = styleURL

	m.loop.Schedule(func() {
		if m.styleURL != styleURL {
			// superseded by a later request
			return
		}

		data, err := m.loader.Fetch(styleURL)
		if err != nil {
			m.style = nil
			m.styleErr = err
			m.observer.OnStyleLoadFailed(styleURL, err)
			return
		}

		style, err := ParseStyle(bytes.NewReader(data))
		if err != nil {
			m.style = nil
			m.styleErr = err
			m.observer.OnStyleLoadFailed(styleURL, err)
			return
		}

		m.loop.Schedule(func() {
			m.resolveSourceURLs(style)

			if m.styleURL != styleURL {
				return
			}

			m.style = style
			m.styleErr = nil
			m.observer.OnStyleLoaded(styleURL)
		})
	})
}

// resolveSourceURLs fetches TileJSON documents for sources that reference
// one instead of carrying tile templates inline. Failures leave the source
// without templates; the render pass then has nothing to draw for it.
func (m *Map) resolveSourceURLs(style *Style) {
	for name, source := range style.Sources {
		if len(source.Tiles) > 0 || source.URL == "" {
			continue
		}

		data, err := m.loader.Fetch(source.URL)
		if err != nil {
			m.logger.Warn("could not resolve TileJSON for source %q: %s", name, err.Error())
			continue
		}

		var tileJSON struct {
			Tiles []string `json:"tiles"`
		}
		err2 := decodeJSON(data, &tileJSON)
		if err2 != nil {
			m.logger.Warn("could not parse TileJSON for source %q: %s", name, err2.Error())
			continue
		}

		source.Tiles = tileJSON.Tiles
	}
}

type renderedTile struct {
	rect image.Rectangle
	zoom uint32
	x, y uint64
}

// RenderFrame draws one complete frame for the current camera/style/debug
// state into the bound frontend. The caller must have pumped the run loop
// first so outstanding style work has settled.
func (m *Map) RenderFrame() errorsx.Error {
	if m.style == nil {
		if m.styleErr != nil {
			return errorsx.Wrap(ErrRender, "styleURL", m.styleURL, "styleError", m.styleErr.Error())
		}
		return errorsx.Wrap(ErrRender, "reason", "no style loaded")
	}

	m.frontend.Fill(m.style.BackgroundColor())

	tiles, err := m.drawTiles()
	if err != nil {
		return err
	}

	if m.debugFlags != mapsnap.DebugNone {
		err = m.drawDebugOverlays(tiles)
		if err != nil {
			return err
		}
	}

	m.observer.OnRenderFinished()

	return nil
}

func (m *Map) drawTiles() ([]renderedTile, errorsx.Error) {
	templates := m.style.TileTemplates()
	if len(templates) == 0 {
		// background-only style
		return nil, nil
	}

	pixelWidth, pixelHeight := m.frontend.PixelSize()
	tileSize := int(math.Round(tileSizeLogical * m.frontend.PixelRatio()))

	tileZoom := int(math.Round(m.camera.Zoom))
	if tileZoom < minTileZoom {
		tileZoom = minTileZoom
	}
	if tileZoom > maxTileZoom {
		tileZoom = maxTileZoom
	}

	lat := m.camera.Center.Lat
	if lat > maxMercatorLat {
		lat = maxMercatorLat
	}
	if lat < -maxMercatorLat {
		lat = -maxMercatorLat
	}

	frac := maptile.Fraction(orb.Point{m.camera.Center.Lon, lat}, maptile.Zoom(tileZoom))

	originX := int(math.Round(frac[0]*float64(tileSize))) - pixelWidth/2
	originY := int(math.Round(frac[1]*float64(tileSize))) - pixelHeight/2

	tilesPerAxis := int64(1) << uint(tileZoom)

	firstTileX := int64(math.Floor(float64(originX) / float64(tileSize)))
	lastTileX := int64(math.Floor(float64(originX+pixelWidth-1) / float64(tileSize)))
	firstTileY := int64(math.Floor(float64(originY) / float64(tileSize)))
	lastTileY := int64(math.Floor(float64(originY+pixelHeight-1) / float64(tileSize)))

	var drawnTiles []renderedTile

	for tileY := firstTileY; tileY <= lastTileY; tileY++ {
		if tileY < 0 || tileY >= tilesPerAxis {
			// beyond the poles; background shows through
			continue
		}
		for tileX := firstTileX; tileX <= lastTileX; tileX++ {
			wrappedX := ((tileX % tilesPerAxis) + tilesPerAxis) % tilesPerAxis

			destRect := image.Rect(
				int(tileX)*tileSize-originX,
				int(tileY)*tileSize-originY,
				(int(tileX)+1)*tileSize-originX,
				(int(tileY)+1)*tileSize-originY,
			)

			err := m.drawOneTile(templates[0], uint32(tileZoom), uint64(wrappedX), uint64(tileY), destRect, tileSize)
			if err != nil {
				return nil, err
			}

			drawnTiles = append(drawnTiles, renderedTile{
				rect: destRect,
				zoom: uint32(tileZoom),
				x:    uint64(wrappedX),
				y:    uint64(tileY),
			})
		}
	}

	return drawnTiles, nil
}

func (m *Map) drawOneTile(template string, zoom uint32, x, y uint64, destRect image.Rectangle, tileSize int) errorsx.Error {
	tileURL := ExpandTileTemplate(template, zoom, x, y)

	data, err := m.loader.Fetch(tileURL)
	if err != nil {
		return errorsx.Wrap(ErrRender, "tileURL", tileURL, "fetchError", err.Error())
	}

	tileImg, _, err2 := image.Decode(bytes.NewReader(data))
	if err2 != nil {
		return errorsx.Wrap(ErrRender, "tileURL", tileURL, "decodeError", err2.Error())
	}

	img := m.frontend.Image()

	tileBounds := tileImg.Bounds()
	if tileBounds.Dx() == tileSize && tileBounds.Dy() == tileSize {
		draw.Draw(img, destRect, tileImg, tileBounds.Min, draw.Src)
		return nil
	}

	// provider tile size differs from the composited size; rescale
	xdraw.NearestNeighbor.Scale(img, destRect, tileImg, tileBounds, xdraw.Src, nil)

	return nil
}

// Close releases the map object's own resources. The frontend is owned by
// the renderer instance and released there.
func (m *Map) Close() {
	if m.cache != nil {
		err := m.cache.Close()
		if err != nil {
			m.logger.Warn("closing resource cache: %s", err.Error())
		}
		m.cache = nil
	}
}
