package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/studentdesk/internal/middleware"
	"github.com/mcoot/studentdesk/internal/web/templates/layout"
	"github.com/mcoot/studentdesk/internal/web/templates/pages"
)

// Recovery creates panic recovery middleware for the web interface
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	if rw, ok := w.(*middleware.ResponseWriter); ok && rw.WroteHeader() {
		// Too late for an error page
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = pages.ServerError(layout.PageData{}).Render(r.Context(), w)
}
