package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/validator"
)

type AuthHandler interface {
	LoginPage(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	ChangePasswordPage(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
}

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandlerImpl struct {
	authService auth.AuthService
	cookie      CookieConfig
	renderer    *Renderer
}

func NewAuthHandler(authService auth.AuthService, cookie CookieConfig, rd *Renderer) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
		cookie:      cookie,
		renderer:    rd,
	}
}

func (a *AuthHandlerImpl) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     a.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// fetchErrorText turns a failure into inline page text
func fetchErrorText(err error) string {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return validationErrs.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, apiclient.ErrUnavailable):
		return "The timesheet service is unavailable. Try again shortly."
	case errors.Is(err, apiclient.ErrUnauthorized):
		return "Your session has expired. Sign in again."
	case errors.Is(err, apiclient.ErrForbidden):
		return "You are not allowed to see this."
	default:
		return "Something went wrong while loading this data."
	}
}

// LoginPage implements AuthHandler.
func (a *AuthHandlerImpl) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := newPageData("Sign in", nil)
	if next := r.URL.Query().Get("next"); validator.IsSafeRedirect(next) {
		data.Next = next
	}
	a.renderer.render(w, http.StatusOK, "login.html", data)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	req := auth.LoginRequest{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
		Next:     r.PostForm.Get("next"),
	}

	sess, err := a.authService.Login(r.Context(), req)
	if err != nil {
		status := http.StatusUnauthorized
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			status = http.StatusUnprocessableEntity
		} else if !errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Error("login failed", "error", err)
			status = http.StatusBadGateway
		}

		data := newPageData("Sign in", nil)
		data.Error = fetchErrorText(err)
		data.Email = req.Email
		if validator.IsSafeRedirect(req.Next) {
			data.Next = req.Next
		}
		a.renderer.render(w, status, "login.html", data)
		return
	}

	http.SetCookie(w, a.sessionCookie(sess.ID, int(a.cookie.TTL.Seconds())))

	target := "/"
	switch {
	case sess.User.MustChangePassword:
		target = "/change-password"
	case req.Next != "":
		target = req.Next
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(a.cookie.Name); err == nil && cookie.Value != "" {
		if err := a.authService.Logout(r.Context(), cookie.Value); err != nil {
			slog.Error("logout failed", "error", err)
		}
	}

	http.SetCookie(w, a.sessionCookie("", -1))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ChangePasswordPage implements AuthHandler.
func (a *AuthHandlerImpl) ChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	a.renderer.render(w, http.StatusOK, "change_password.html", newPageData("Change password", sess))
}

// ChangePassword implements AuthHandler.
func (a *AuthHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	req := auth.ChangePasswordRequest{
		CurrentPassword: r.PostForm.Get("currentPassword"),
		NewPassword:     r.PostForm.Get("newPassword"),
		ConfirmPassword: r.PostForm.Get("confirmPassword"),
	}

	if err := a.authService.ChangePassword(r.Context(), sess, req); err != nil {
		status := http.StatusUnprocessableEntity
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) && !errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Error("change password failed", "user_id", sess.User.ID, "error", err)
			status = http.StatusBadGateway
		}
		data := newPageData("Change password", sess)
		data.Error = fetchErrorText(err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			data.Error = "Current password is incorrect."
		}
		a.renderer.render(w, status, "change_password.html", data)
		return
	}

	slog.Info("password changed", "user_id", sess.User.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
