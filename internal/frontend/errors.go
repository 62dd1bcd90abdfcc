package frontend

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

var errorDetails = map[int]string{
	http.StatusNotFound:            "The page you are looking for does not exist or has been moved.",
	http.StatusTooManyRequests:     "You are sending requests too quickly. Please wait a moment and try again.",
	http.StatusForbidden:           "Your request could not be verified. Please reload the page and try again.",
	http.StatusInternalServerError: "Something went wrong on our side. Please try again later.",
}

// httpErrorHandler renders every error returned by a handler or middleware as an HTML page.
// Flash messages are left for the next regular page.
func (service *FrontendService) httpErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var httpError *echo.HTTPError
	if errors.As(err, &httpError) {
		code = httpError.Code
	}

	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "status", code, "path", ctx.Request().URL.Path, "error", err)
	} else {
		slog.Debug("request rejected", "status", code, "path", ctx.Request().URL.Path, "error", err)
	}

	if ctx.Request().Method == http.MethodHead {
		if err := ctx.NoContent(code); err != nil {
			slog.Error("failed to send error response", "error", err)
		}
		return
	}

	detail, ok := errorDetails[code]
	if !ok {
		detail = "The request could not be completed."
	}
	heading := http.StatusText(code)
	if heading == "" {
		heading = "Error"
	}

	data := service.decorate(ctx, &PageData{
		Title:      heading,
		StatusCode: code,
		Heading:    heading,
		Detail:     detail,
	})
	if renderErr := ctx.Render(code, "error", data); renderErr != nil {
		slog.Error("failed to render error page", "error", renderErr)
		if err := ctx.String(code, heading); err != nil {
			slog.Error("failed to send error response", "error", err)
		}
	}
}
