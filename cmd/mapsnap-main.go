package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapsnap/mapsnap"
	"github.com/jamesrr39/mapsnap/mapsnapcfg"
	"github.com/jamesrr39/mapsnap/mapsnaprenderer"
	"github.com/jamesrr39/mapsnap/webservices"
	"github.com/joho/godotenv"
	"gopkg.in/alecthomas/kingpin.v2"
)

const DEFAULT_PORT = 9000

var logger *logpkg.Logger

func main() {
	// .env is optional
	godotenv.Load()

	verbose := kingpin.Flag("v", "verbose logging").Bool()

	logLevel := logpkg.LogLevelInfo
	if *verbose {
		logLevel = logpkg.LogLevelDebug
	}
	logger = logpkg.NewLogger(os.Stderr, logLevel)

	setupRender()
	setupRenderTile()
	setupServe()

	kingpin.Parse()
}

type rendererFlags struct {
	width       *uint
	height      *uint
	pixelRatio  *float64
	cachePath   *string
	assetRoot   *string
	apiKey      *string
	preset      *string
	presetsFile *string

	baseURL             *string
	uriSchemeAlias      *string
	apiKeyParameterName *string
	sourceTemplate      *string
	styleTemplate       *string
	spritesTemplate     *string
	glyphsTemplate      *string
	tileTemplate        *string
	defaultStyleURL     *string
	requiresAPIKey      *bool
}

func setupRendererFlags(cmd *kingpin.CmdClause) *rendererFlags {
	return &rendererFlags{
		width:       cmd.Flag("width", "output width in logical pixels").Default("512").Uint(),
		height:      cmd.Flag("height", "output height in logical pixels").Default("512").Uint(),
		pixelRatio:  cmd.Flag("pixel-ratio", "device pixel ratio").Default("1.0").Float64(),
		cachePath:   cmd.Flag("cache-path", "path to the sqlite resource cache. Empty disables caching").Default("cache.sqlite").String(),
		assetRoot:   cmd.Flag("asset-root", "directory asset:// URLs resolve against").Default(".").String(),
		apiKey:      cmd.Flag("api-key", "API key appended to remote requests, if the provider requires one").Envar("MAPSNAP_API_KEY").String(),
		preset:      cmd.Flag("preset", "named tile provider preset").Default("demotiles").String(),
		presetsFile: cmd.Flag("presets-file", "YAML file with extra tile provider presets").String(),

		baseURL:             cmd.Flag("base-url", "override the preset's base URL").String(),
		uriSchemeAlias:      cmd.Flag("uri-scheme-alias", "override the preset's URL scheme alias").String(),
		apiKeyParameterName: cmd.Flag("api-key-parameter-name", "override the preset's API key query parameter name").String(),
		sourceTemplate:      cmd.Flag("source-template", "override the preset's source URL template").String(),
		styleTemplate:       cmd.Flag("style-template", "override the preset's style URL template").String(),
		spritesTemplate:     cmd.Flag("sprites-template", "override the preset's sprites URL template").String(),
		glyphsTemplate:      cmd.Flag("glyphs-template", "override the preset's glyphs URL template").String(),
		tileTemplate:        cmd.Flag("tile-template", "override the preset's tile URL template").String(),
		defaultStyleURL:     cmd.Flag("default-style-url", "override the preset's default style URL").String(),
		requiresAPIKey:      cmd.Flag("requires-api-key", "require an API key on remote requests").Bool(),
	}
}

func (f *rendererFlags) buildOptions() (*mapsnaprenderer.ImageRendererOptions, errorsx.Error) {
	presets, err := mapsnapcfg.LoadPresets(*f.presetsFile)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	presetDef, ok := presets[*f.preset]
	if !ok {
		var names []string
		for name := range presets {
			names = append(names, name)
		}
		return nil, errorsx.Errorf("unknown preset %q. Available presets: %s", *f.preset, strings.Join(names, ", "))
	}

	options := mapsnaprenderer.NewImageRendererOptions().
		WithProvider(presetDef).
		WithSize(uint32(*f.width), uint32(*f.height)).
		WithPixelRatio(*f.pixelRatio).
		WithCachePath(*f.cachePath).
		WithAssetRoot(*f.assetRoot).
		WithAPIKey(*f.apiKey)

	if *f.baseURL != "" {
		options.WithBaseURL(*f.baseURL)
	}
	if *f.uriSchemeAlias != "" {
		options.WithURISchemeAlias(*f.uriSchemeAlias)
	}
	if *f.apiKeyParameterName != "" {
		options.WithAPIKeyParameterName(*f.apiKeyParameterName)
	}
	if *f.sourceTemplate != "" {
		options.WithSourceTemplate(*f.sourceTemplate)
	}
	if *f.styleTemplate != "" {
		options.WithStyleTemplate(*f.styleTemplate)
	}
	if *f.spritesTemplate != "" {
		options.WithSpritesTemplate(*f.spritesTemplate)
	}
	if *f.glyphsTemplate != "" {
		options.WithGlyphsTemplate(*f.glyphsTemplate)
	}
	if *f.tileTemplate != "" {
		options.WithTileTemplate(*f.tileTemplate)
	}
	if *f.defaultStyleURL != "" {
		options.WithDefaultStyleURL(*f.defaultStyleURL)
	}
	if *f.requiresAPIKey {
		options.SetRequiresAPIKey(true)
	}

	return options, nil
}

var debugFlagNames = map[string]mapsnap.DebugFlags{
	"tile-borders": mapsnap.DebugTileBorders,
	"parse-status": mapsnap.DebugParseStatus,
	"timestamps":   mapsnap.DebugTimestamps,
	"collision":    mapsnap.DebugCollision,
	"overdraw":     mapsnap.DebugOverdraw,
	"stencil-clip": mapsnap.DebugStencilClip,
	"depth-buffer": mapsnap.DebugDepthBuffer,
}

func parseDebugFlags(debugStr string) (mapsnap.DebugFlags, errorsx.Error) {
	flags := mapsnap.DebugNone
	for _, name := range strings.Split(debugStr, ",") {
		if name == "" {
			continue
		}

		flag, ok := debugFlagNames[name]
		if !ok {
			return mapsnap.DebugNone, errorsx.Errorf("unknown debug overlay %q", name)
		}

		flags |= flag
	}

	return flags, nil
}

func writeOutput(outPath string, pngBytes []byte) errorsx.Error {
	if outPath == "-" {
		_, err := os.Stdout.Write(pngBytes)
		if err != nil {
			return errorsx.Wrap(err)
		}
		return nil
	}

	err := ioutil.WriteFile(outPath, pngBytes, 0644)
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}

func setupRender() {
	cmd := kingpin.Command("render", "render one map view to a PNG file")
	flags := setupRendererFlags(cmd)
	lat := cmd.Flag("lat", "camera center latitude").Default("0").Float64()
	lon := cmd.Flag("lon", "camera center longitude").Default("0").Float64()
	zoom := cmd.Flag("zoom", "camera zoom level").Default("0").Float64()
	bearing := cmd.Flag("bearing", "camera bearing in degrees").Default("0").Float64()
	pitch := cmd.Flag("pitch", "camera pitch in degrees").Default("0").Float64()
	styleURL := cmd.Flag("style-url", "style URL to load instead of the provider's default style").String()
	stylePath := cmd.Flag("style-path", "local style file to load instead of the provider's default style").String()
	debugStr := cmd.Flag("debug", "comma separated debug overlays. Ex: tile-borders,timestamps").String()
	outPath := cmd.Flag("out", "output file path, or - for stdout").Default("out.png").String()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			options, err := flags.buildOptions()
			if err != nil {
				return errorsx.Wrap(err)
			}

			debugFlags, err := parseDebugFlags(*debugStr)
			if err != nil {
				return errorsx.Wrap(err)
			}

			renderer, err := options.BuildStaticRenderer(logger)
			if err != nil {
				return errorsx.Wrap(err)
			}
			defer renderer.Close()

			if *styleURL != "" {
				renderer.SetStyleURL(*styleURL)
			} else if *stylePath != "" {
				renderer.SetStylePath(*stylePath)
			}

			renderer.SetCamera(*lat, *lon, *zoom, *bearing, *pitch)
			renderer.SetDebugFlags(debugFlags)

			pngBytes, err := renderer.Render()
			if err != nil {
				return errorsx.Wrap(err)
			}

			return writeOutput(*outPath, pngBytes)
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

func setupRenderTile() {
	cmd := kingpin.Command("render-tile", "render one XYZ tile to a PNG file")
	flags := setupRendererFlags(cmd)
	z := cmd.Arg("z", "tile zoom level").Required().Uint32()
	x := cmd.Arg("x", "tile column").Required().Uint64()
	y := cmd.Arg("y", "tile row").Required().Uint64()
	outPath := cmd.Flag("out", "output file path, or - for stdout").Default("out.png").String()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			options, err := flags.buildOptions()
			if err != nil {
				return errorsx.Wrap(err)
			}

			renderer, err := options.BuildTileRenderer(logger)
			if err != nil {
				return errorsx.Wrap(err)
			}
			defer renderer.Close()

			pngBytes, err := renderer.RenderTile(*z, *x, *y)
			if err != nil {
				return errorsx.Wrap(err)
			}

			return writeOutput(*outPath, pngBytes)
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

var addrHelp = fmt.Sprintf(
	`address to serve on. Ex: ':%d' listen on port %d to traffic from anywhere. 'localhost:%d' listen on port %d to traffic from localhost`,
	DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT,
)

func setupServe() {
	cmd := kingpin.Command("serve", "serve rendered tiles over HTTP")
	flags := setupRendererFlags(cmd)
	addr := cmd.Flag("addr", addrHelp).Default(fmt.Sprintf(":%d", DEFAULT_PORT)).String()
	traceDir := cmd.Flag("trace-dir", "directory to write request traces to. Empty uses a temp dir").String()
	shouldProfile := cmd.Flag("profile", "profile the request performance").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			options, err := flags.buildOptions()
			if err != nil {
				return errorsx.Wrap(err)
			}

			renderer, err := options.BuildTileRenderer(logger)
			if err != nil {
				return errorsx.Wrap(err)
			}
			defer renderer.Close()

			mapOptions, resourceOptions := mapsnapcfg.Assemble(options.Params(mapsnap.MapModeTile))

			router, err := createServer(renderer, mapOptions, resourceOptions, *traceDir, *shouldProfile)
			if err != nil {
				return errorsx.Wrap(err)
			}

			server := httpextra.NewServerWithTimeouts()
			server.Addr = *addr
			server.Handler = router

			logger.Info("about to start serving on %q", *addr)

			listenErr := server.ListenAndServe()
			if listenErr != nil {
				return errorsx.Wrap(listenErr)
			}
			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

func createServer(
	renderer *mapsnaprenderer.ImageRenderer,
	mapOptions mapsnapcfg.MapOptions,
	resourceOptions mapsnapcfg.ResourceOptions,
	traceDirPath string,
	shouldProfile bool,
) (chi.Router, errorsx.Error) {
	var err error

	if traceDirPath == "" {
		traceDirPath, err = ioutil.TempDir("", "")
		if err != nil {
			return nil, errorsx.Wrap(err)
		}
	}

	traceFilePath := filepath.Join(traceDirPath, fmt.Sprintf("trace_%s.pbf", time.Now().Format("2006-01-02__03_04_05")))
	logger.Info("tracing at %q", traceFilePath)

	traceFile, err := os.Create(traceFilePath)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	tracer := tracing.NewTracer(traceFile)

	router := chi.NewRouter()
	router.Use(middleware.DefaultLogger)
	router.Use(tracing.Middleware(tracer))
	router.Route("/api/", func(r chi.Router) {
		r.Mount("/info", webservices.NewInfoService(logger, mapOptions, resourceOptions))
		r.Mount("/tiles/", webservices.NewTileService(logger, renderer, shouldProfile))
	})

	return router, nil
}
