package mapsnapengine

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/golang/freetype"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/mapsnap/fonts"
	"github.com/jamesrr39/mapsnap/mapsnap"
	"github.com/llgcode/draw2d/draw2dimg"
)

var (
	debugBorderColor = color.RGBA{0xff, 0x00, 0x00, 0xff}
	debugTextColor   = color.RGBA{0x20, 0x20, 0x20, 0xff}
)

const debugTextSize = 12

// drawDebugOverlays paints the overlays selected by the debug bitmask on top
// of the composited frame. Collision, overdraw, stencil-clip and depth-buffer
// flags are accepted but have no visual effect in this software compositor.
func (m *Map) drawDebugOverlays(tiles []renderedTile) errorsx.Error {
	flags := m.debugFlags

	if flags.Has(mapsnap.DebugTileBorders) {
		m.drawTileBorders(tiles)

		for _, tile := range tiles {
			label := fmt.Sprintf("%d/%d/%d", tile.zoom, tile.x, tile.y)
			err := m.drawDebugText(label, tile.rect.Min.Add(image.Point{X: 4, Y: 4 + debugTextSize}))
			if err != nil {
				return err
			}
		}
	}

	if flags.Has(mapsnap.DebugParseStatus) {
		status := fmt.Sprintf("style: %s, sources: %d, layers: %d", m.style.Name, len(m.style.Sources), len(m.style.Layers))
		err := m.drawDebugText(status, image.Point{X: 4, Y: 4 + debugTextSize})
		if err != nil {
			return err
		}
	}

	if flags.Has(mapsnap.DebugTimestamps) {
		_, pixelHeight := m.frontend.PixelSize()
		err := m.drawDebugText(time.Now().Format(time.RFC3339), image.Point{X: 4, Y: pixelHeight - 4})
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *Map) drawTileBorders(tiles []renderedTile) {
	img := m.frontend.Image()

	gc := draw2dimg.NewGraphicContext(img)
	defer gc.Close()

	gc.SetStrokeColor(debugBorderColor)
	gc.SetLineWidth(1)

	for _, tile := range tiles {
		gc.BeginPath()
		gc.MoveTo(float64(tile.rect.Min.X), float64(tile.rect.Min.Y))
		gc.LineTo(float64(tile.rect.Max.X), float64(tile.rect.Min.Y))
		gc.LineTo(float64(tile.rect.Max.X), float64(tile.rect.Max.Y))
		gc.LineTo(float64(tile.rect.Min.X), float64(tile.rect.Max.Y))
		gc.LineTo(float64(tile.rect.Min.X), float64(tile.rect.Min.Y))
		gc.Stroke()
	}
}

func (m *Map) drawDebugText(text string, pt image.Point) errorsx.Error {
	img := m.frontend.Image()

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(fonts.DefaultFont())
	ctx.SetFontSize(debugTextSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(debugTextColor))

	_, err := ctx.DrawString(text, freetype.Pt(pt.X, pt.Y))
	if err != nil {
		return errorsx.Wrap(ErrRender, "debugTextError", err.Error())
	}

	return nil
}
