package mapsnap

import "math"

// TileCenter returns the coordinate at the center of the given slippy-map
// tile, using the x+0.5/y+0.5 convention.
func TileCenter(zoom uint32, x, y uint64) LatLng {
	zz := math.Exp2(float64(zoom))
	lon := (float64(x)+0.5)/zz*360 - 180
	lat := math.Atan(math.Sinh(math.Pi*(1-2*(float64(y)+0.5)/zz))) * 180 / math.Pi
	return LatLng{Lat: lat, Lon: lon}
}

// Deg2num returns the slippy-map tile containing the given coordinate.
func Deg2num(lat, lon float64, zoom uint32) (x, y int) {
	x = int(
		math.Floor((lon + 180.0) / 360.0 * (math.Exp2(float64(zoom)))),
	)
	y = int(
		math.Floor(
			(1.0 - math.Log(
				math.Tan(lat*math.Pi/180.0)+1.0/math.Cos(lat*math.Pi/180.0))/math.Pi) / 2.0 * (math.Exp2(float64(zoom))),
		),
	)
	return
}
