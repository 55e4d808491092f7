package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/hearthside/homesite/internal/site/domain"
	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/pkg/httpx"
	"github.com/hearthside/homesite/pkg/jwtx"
	"github.com/hearthside/homesite/pkg/slogx"
)

type AuthHandler struct {
	AuthService  *service.AuthService
	SecureCookie bool
}

type registerRequest struct {
	Email           string `json:"email"`
	FirstName       string `json:"firstname"`
	LastName        string `json:"lastname"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Birthday        string `json:"birthday"`
	BirthdayOptIn   bool   `json:"birthdayOptIn"`
}

type sessionResponse struct {
	Success bool              `json:"success"`
	User    domain.PublicUser `json:"user"`
}

// HandleRegister creates an account and establishes a session for it.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.AuthService.Register(ctx, service.RegisterInput{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Birthday:        req.Birthday,
		BirthdayOptIn:   req.BirthdayOptIn,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields),
			errors.Is(err, service.ErrPasswordMismatch),
			errors.Is(err, service.ErrInvalidBirthday),
			errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error("registration failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "An error occurred during registration")
		}
		return
	}

	setSessionCookie(w, token, h.SecureCookie)
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{Success: true, User: user.Public()})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and sets the session cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	setSessionCookie(w, token, h.SecureCookie)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Success: true, User: user.Public()})
}

// HandleLogout clears the session cookie. There is no server-side state to
// destroy; the token simply stops being presented.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.SecureCookie)
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func setSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(jwtx.DefaultSessionTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
