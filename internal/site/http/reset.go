package http

import (
	"errors"
	"net/http"

	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/pkg/httpx"
	"github.com/hearthside/homesite/pkg/slogx"
)

type ResetHandler struct {
	ResetService *service.ResetService
	SecureCookie bool
}

type resetRequestBody struct {
	Email string `json:"email"`
}

// HandleRequest starts the reset flow for a known email.
func (h *ResetHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resetRequestBody
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.ResetService.RequestReset(ctx, req.Email); err != nil {
		if errors.Is(err, service.ErrUnknownEmail) {
			httpx.WriteError(w, http.StatusNotFound, "No account found with that email address.")
			return
		}
		log.Error("reset request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "An error occurred. Please try again later.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "A password reset link has been sent to your email.",
	})
}

type resetCompleteBody struct {
	Password string `json:"password"`
}

// HandleComplete consumes a reset token and auto-logs the user in.
func (h *ResetHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resetCompleteBody
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.ResetService.CompleteReset(ctx, r.PathValue("token"), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpired):
			httpx.WriteError(w, http.StatusBadRequest, "Invalid or expired reset token.")
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteError(w, http.StatusBadRequest, "Password is required.")
		default:
			log.Error("reset completion failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "An error occurred. Please try again later.")
		}
		return
	}

	setSessionCookie(w, token, h.SecureCookie)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Success: true, User: user.Public()})
}
