package webservices

import (
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapsnap/mapsnaprenderer"
	"github.com/jamesrr39/semaphore"
	"github.com/pkg/profile"
)

// TileService serves raster tiles rendered on demand. The renderer owns a
// single drawing surface, so requests are serialized through the semaphore.
type TileService struct {
	logger        *logpkg.Logger
	renderer      *mapsnaprenderer.ImageRenderer
	sema          *semaphore.Semaphore
	shouldProfile bool
	chi.Router
}

func NewTileService(logger *logpkg.Logger, renderer *mapsnaprenderer.ImageRenderer, shouldProfile bool) *TileService {
	ts := &TileService{logger, renderer, semaphore.NewSemaphore(1), shouldProfile, chi.NewRouter()}

	ts.Get("/raster/{z}/{x}/{y}", ts.handleGetTile)

	return ts
}

func (ts *TileService) handleGetTile(w http.ResponseWriter, r *http.Request) {
	if ts.shouldProfile {
		defer profile.Start().Stop()
	}

	zStr := chi.URLParam(r, "z")
	xStr := chi.URLParam(r, "x")
	yStr := chi.URLParam(r, "y")

	z, err := strconv.ParseUint(zStr, 10, 32)
	if err != nil {
		errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err, "z", zStr), 400)
		return
	}

	x, err := strconv.ParseUint(xStr, 10, 64)
	if err != nil {
		errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err, "x", xStr), 400)
		return
	}

	y, err := strconv.ParseUint(yStr, 10, 64)
	if err != nil {
		errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err, "y", yStr), 400)
		return
	}

	span := tracing.StartSpan(r.Context(), "render tile")
	defer span.End(r.Context())

	ts.sema.Add()
	pngBytes, renderErr := ts.renderer.RenderTile(uint32(z), x, y)
	ts.sema.Done()
	if renderErr != nil {
		errorsx.HTTPError(w, ts.logger, renderErr, 500)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, err = w.Write(pngBytes)
	if err != nil {
		switch err.(type) {
		case *net.OpError:
			// broken pipe (request cancelled). Do nothing
		default:
			errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err), 500)
		}
		return
	}
}
