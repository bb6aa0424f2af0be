package mapsnaprenderer

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapsnap/mapsnap"
	"github.com/jamesrr39/mapsnap/mapsnapcfg"
	"github.com/jamesrr39/mapsnap/mapsnapengine"
)

// ImageRenderer drives a headless map and produces encoded images. It owns
// its offscreen frontend, its map object and a private run loop for the
// engine's internal scheduling; all three live exactly as long as the
// renderer.
//
// A renderer belongs to one logical owner. None of its methods may be called
// concurrently.
type ImageRenderer struct {
	logger   *logpkg.Logger
	loop     *mapsnapengine.RunLoop
	frontend *mapsnapengine.Frontend
	mapObj   *mapsnapengine.Map
	mode     mapsnap.MapMode
}

// New creates a renderer from assembled options. On failure nothing is
// returned: partially constructed engine state is released before the error
// surfaces.
func New(logger *logpkg.Logger, mapOptions mapsnapcfg.MapOptions, resourceOptions mapsnapcfg.ResourceOptions) (*ImageRenderer, errorsx.Error) {
	loop := mapsnapengine.NewRunLoop()

	frontend, err := mapsnapengine.NewFrontend(mapOptions.Size(), mapOptions.PixelRatio())
	if err != nil {
		loop.Close()
		return nil, err
	}

	mapObj, err := mapsnapengine.NewMap(logger, frontend, mapsnapengine.NullObserver(), loop, mapOptions, resourceOptions)
	if err != nil {
		frontend.Close()
		loop.Close()
		return nil, err
	}

	return &ImageRenderer{
		logger:   logger,
		loop:     loop,
		frontend: frontend,
		mapObj:   mapObj,
		mode:     mapOptions.Mode(),
	}, nil
}

// Render synchronously produces one complete frame for the current
// camera/style/debug state, encoded as a PNG stream. It pumps the private
// run loop until outstanding engine work (style and tile fetches) settles,
// so it can block for the duration of those fetches; there is no
// cancellation. On failure the renderer stays usable and a later call may
// succeed.
func (ir *ImageRenderer) Render() ([]byte, errorsx.Error) {
	ir.loop.RunUntilIdle()

	err := ir.mapObj.RenderFrame()
	if err != nil {
		return nil, err
	}

	return ir.frontend.EncodePNG()
}

// SetCamera repositions the view in one instantaneous jump, replacing the
// previous camera state. Values are passed through unchecked; out-of-range
// values are the engine's concern.
func (ir *ImageRenderer) SetCamera(lat, lon, zoom, bearing, pitch float64) {
	ir.mapObj.JumpTo(mapsnap.CameraOptions{
		Center:  mapsnap.LatLng{Lat: lat, Lon: lon},
		Zoom:    zoom,
		Bearing: bearing,
		Pitch:   pitch,
	})
}

// SetStyleURL starts loading a new style document, replacing the current
// style. The load completes on the run loop; the next Render call observes
// whatever progress has been made by then.
func (ir *ImageRenderer) SetStyleURL(styleURL string) {
	ir.mapObj.LoadStyleURL(styleURL)
}

// SetStylePath loads a style document from a local file.
func (ir *ImageRenderer) SetStylePath(filePath string) {
	ir.mapObj.LoadStyleURL("file://" + filePath)
}

// SetDebugFlags replaces the debug overlay bitmask. Not additive.
func (ir *ImageRenderer) SetDebugFlags(flags mapsnap.DebugFlags) {
	ir.mapObj.SetDebugFlags(flags)
}

// RenderTile renders the slippy-map tile (zoom, x, y): the camera jumps to
// the tile's center with bearing and pitch zero, then a normal render pass
// runs. Intended for renderers built in tile mode.
func (ir *ImageRenderer) RenderTile(zoom uint32, x, y uint64) ([]byte, errorsx.Error) {
	center := mapsnap.TileCenter(zoom, x, y)

	ir.mapObj.JumpTo(mapsnap.CameraOptions{
		Center: center,
		Zoom:   float64(zoom),
	})

	return ir.Render()
}

// Mode returns the map mode the renderer was built with.
func (ir *ImageRenderer) Mode() mapsnap.MapMode {
	return ir.mode
}

// Close releases the renderer: map and frontend first, the run loop last.
// The renderer must not be used afterwards.
func (ir *ImageRenderer) Close() {
	ir.mapObj.Close()
	ir.frontend.Close()
	ir.loop.Close()
}
