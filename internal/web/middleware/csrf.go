package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/mcoot/studentdesk/internal/dependencies/random"
	"github.com/mcoot/studentdesk/internal/web/templates/layout"
	"github.com/mcoot/studentdesk/internal/web/templates/pages"
)

const (
	// CSRFCookieName is the double-submit cookie
	CSRFCookieName = "csrf_token"
	// CSRFFieldName is the hidden form field every POST must carry
	CSRFFieldName = "csrf_token"

	csrfContextKey  = contextKey("csrf")
	csrfTokenLength = 32
)

// GetCSRFToken returns the token forms on this request must embed
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey).(string)
	return token
}

// CSRF returns double-submit cookie middleware. Safe methods get a token
// issued if the browser has none; unsafe methods are rejected with 403
// unless the form field matches the cookie.
func CSRF(rnd random.Random, secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(CSRFCookieName); err == nil {
				token = cookie.Value
			}

			if !isSafeMethod(r.Method) {
				submitted := r.PostFormValue(CSRFFieldName)
				if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
					logger.Warn("csrf check failed",
						slog.String("request_id", RequestIDFrom(r.Context())),
						slog.String("path", r.URL.Path),
					)
					renderForbidden(w, r)
					return
				}
			}

			if token == "" {
				token = rnd.String(csrfTokenLength, random.TokenAlphabet)
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), csrfContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func renderForbidden(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = pages.Forbidden(layout.PageData{}).Render(r.Context(), w)
}
