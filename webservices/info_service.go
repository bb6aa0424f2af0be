package webservices

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapsnap/mapsnapcfg"
)

func NewInfoService(logger *logpkg.Logger, mapOptions mapsnapcfg.MapOptions, resourceOptions mapsnapcfg.ResourceOptions) *InfoService {
	ws := &InfoService{logger, mapOptions, resourceOptions, chi.NewRouter()}
	ws.Get("/", ws.handleGet)

	return ws
}

type InfoService struct {
	logger          *logpkg.Logger
	mapOptions      mapsnapcfg.MapOptions
	resourceOptions mapsnapcfg.ResourceOptions
	chi.Router
}

type providerType struct {
	BaseURL         string `json:"baseUrl"`
	URISchemeAlias  string `json:"uriSchemeAlias,omitempty"`
	DefaultStyleURL string `json:"defaultStyleUrl"`
	RequiresAPIKey  bool   `json:"requiresApiKey"`
}

type styleType struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
	URL     string `json:"url"`
}

type surfaceType struct {
	Width      uint32  `json:"width"`
	Height     uint32  `json:"height"`
	PixelRatio float64 `json:"pixelRatio"`
}

type infoType struct {
	Mode     string       `json:"mode"`
	Surface  surfaceType  `json:"surface"`
	Provider providerType `json:"provider"`
	Styles   []styleType  `json:"styles"`
}

func (ws *InfoService) handleGet(w http.ResponseWriter, r *http.Request) {
	tileServer := ws.resourceOptions.TileServer()

	styles := []styleType{}
	for _, style := range tileServer.DefaultStyles() {
		styles = append(styles, styleType{style.Name, style.Version, style.URL})
	}

	size := ws.mapOptions.Size()

	render.JSON(w, r, infoType{
		Mode: ws.mapOptions.Mode().String(),
		Surface: surfaceType{
			Width:      size.Width,
			Height:     size.Height,
			PixelRatio: ws.mapOptions.PixelRatio(),
		},
		Provider: providerType{
			BaseURL:         tileServer.BaseURL(),
			URISchemeAlias:  tileServer.URISchemeAlias(),
			DefaultStyleURL: tileServer.DefaultStyleURL(),
			RequiresAPIKey:  tileServer.RequiresAPIKey(),
		},
		Styles: styles,
	})
}
