package frontend

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/jo-hoe/goportfolio/internal/backend/imageprocessing"
	"github.com/jo-hoe/goportfolio/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	mimePNG     = "image/png"
	mimeSVG     = "image/svg+xml"
	faviconSize = 64
)

// favicon rasterizes the embedded icon once per process.
type favicon struct {
	once sync.Once
	data []byte
	err  error
}

func (f *favicon) render() ([]byte, error) {
	f.once.Do(func() {
		svg, err := viewsFS.ReadFile(iconFile)
		if err != nil {
			f.err = err
			return
		}
		invoker, err := imageprocessing.NewCommandInvokerFromConfig(imageprocessing.DefaultRegistry, []imageprocessing.CommandConfig{
			{Name: imageprocessing.PngConverterCommandName, Params: map[string]any{
				"svgFallbackWidth":  faviconSize,
				"svgFallbackHeight": faviconSize,
			}},
			{Name: imageprocessing.PixelScaleCommandName, Params: map[string]any{
				"width":  faviconSize,
				"height": faviconSize,
			}},
		})
		if err != nil {
			f.err = err
			return
		}
		f.data, f.err = invoker.Execute(svg)
	})
	return f.data, f.err
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := viewsFS.ReadFile(iconFile)
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimeSVG, data)
}

func (service *FrontendService) faviconHandler(ctx echo.Context) error {
	data, err := service.favicon.render()
	if err != nil {
		slog.Error("faviconHandler: failed to render favicon", "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render favicon")
	}
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimePNG, data)
}

func (service *FrontendService) thumbnailHandler(ctx echo.Context) error {
	filename := ctx.Param("filename")
	thumbnail, err := service.store.GetImageThumbnail(filename)
	if errors.Is(err, core.ErrImageNotFound) {
		slog.Warn("thumbnailHandler: image not available", "status", http.StatusNotFound, "filename", filename)
		return echo.ErrNotFound
	}
	if err != nil || len(thumbnail) == 0 {
		slog.Error("thumbnailHandler: thumbnail not available",
			"status", http.StatusInternalServerError, "filename", filename, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Thumbnail not available")
	}

	ctx.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return ctx.Blob(http.StatusOK, mimePNG, thumbnail)
}
