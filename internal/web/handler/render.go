package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/studentdesk/internal/web/middleware"
	"github.com/mcoot/studentdesk/internal/web/templates/layout"
	"github.com/mcoot/studentdesk/internal/web/templates/pages"
)

// pageData builds the shared page fields from the request context
func pageData(r *http.Request, title string) layout.PageData {
	data := layout.PageData{
		Title:     title,
		Flash:     middleware.GetFlash(r.Context()),
		CSRFToken: middleware.GetCSRFToken(r.Context()),
	}
	if session := middleware.GetSession(r.Context()); session != nil {
		data.Username = session.Username
	}
	return data
}

// render buffers the page so a failed render never sends a partial document
func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		logger.Error("render failed",
			slog.String("request_id", middleware.RequestIDFrom(r.Context())),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func renderNotFound(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	render(w, r, logger, http.StatusNotFound, pages.NotFound(pageData(r, "")))
}

// renderServerError logs err and shows the generic failure page
func renderServerError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Error("request failed",
		slog.String("request_id", middleware.RequestIDFrom(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	render(w, r, logger, http.StatusInternalServerError, pages.ServerError(pageData(r, "")))
}

// NotFound returns a handler for unmatched routes
func NotFound(logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderNotFound(w, r, logger)
	})
}
