package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/studentdesk/internal/services/auth"
	"github.com/mcoot/studentdesk/internal/services/password"
	"github.com/mcoot/studentdesk/internal/services/validation"
	"github.com/mcoot/studentdesk/internal/web/middleware"
	"github.com/mcoot/studentdesk/internal/web/templates/layout"
	"github.com/mcoot/studentdesk/internal/web/templates/pages"
)

// Flash messages for the auth flow
const (
	MsgRegistered         = "Registration successful! Please log in."
	MsgLoggedIn           = "Login successful!"
	MsgInvalidCredentials = "Invalid username or password."
	MsgLoggedOut          = "You have logged out."
	MsgUsernameExists     = "Username already exists. Please choose another."
)

// CookieConfig controls attributes of cookies the handlers set
type CookieConfig struct {
	Secure bool
}

// AuthHandler handles authentication pages and actions
type AuthHandler struct {
	authService *auth.Service
	cookies     CookieConfig
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, cookies CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		// Already logged in
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	render(w, r, h.logger, http.StatusOK, pages.Login(pages.LoginData{
		PageData: pageData(r, "Login"),
	}))
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, "", nil, nil)
		return
	}

	form, err := validation.ValidateLogin(r.PostForm)
	if err != nil {
		errs, _ := validation.AsErrors(err)
		h.renderLogin(w, r, r.PostForm.Get("username"), errs, nil)
		return
	}

	session, err := h.authService.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			renderServerError(w, r, h.logger, err)
			return
		}
		h.renderLogin(w, r, form.Username, nil, &layout.FlashMessage{
			Type:    layout.FlashDanger,
			Message: MsgInvalidCredentials,
		})
		return
	}

	h.setSessionCookie(w, session.Token)
	middleware.SetFlash(w, layout.FlashSuccess, MsgLoggedIn)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage renders the registration page
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	render(w, r, h.logger, http.StatusOK, pages.Register(pages.RegisterData{
		PageData: pageData(r, "Register"),
	}))
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegister(w, r, "", nil, nil)
		return
	}

	form, err := validation.ValidateRegister(r.PostForm)
	if err != nil {
		errs, _ := validation.AsErrors(err)
		h.renderRegister(w, r, r.PostForm.Get("username"), errs, nil)
		return
	}

	if _, err := h.authService.Register(r.Context(), form.Username, form.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameExists):
			h.renderRegister(w, r, form.Username, nil, &layout.FlashMessage{
				Type:    layout.FlashDanger,
				Message: MsgUsernameExists,
			})
		case errors.Is(err, password.ErrPasswordTooLong):
			errs := validation.Errors{}
			errs.Add("password", "Field cannot be longer than 72 bytes.")
			h.renderRegister(w, r, form.Username, errs, nil)
		default:
			renderServerError(w, r, h.logger, err)
		}
		return
	}

	middleware.SetFlash(w, layout.FlashSuccess, MsgRegistered)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout ends the session, if any, and always returns to the login page
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.authService.InvalidateSession(cookie.Value)
	}

	// Clear session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, layout.FlashInfo, MsgLoggedOut)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authService.SessionDuration().Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, username string, errs validation.Errors, flash *layout.FlashMessage) {
	data := pages.LoginData{
		PageData: pageData(r, "Login"),
		Username: username,
		Errors:   errs,
	}
	if flash != nil {
		data.Flash = flash
	}
	render(w, r, h.logger, http.StatusOK, pages.Login(data))
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, username string, errs validation.Errors, flash *layout.FlashMessage) {
	data := pages.RegisterData{
		PageData: pageData(r, "Register"),
		Username: username,
		Errors:   errs,
	}
	if flash != nil {
		data.Flash = flash
	}
	render(w, r, h.logger, http.StatusOK, pages.Register(data))
}
