package http

import (
	"errors"
	"net/http"

	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/pkg/httpx"
	"github.com/hearthside/homesite/pkg/slogx"
)

// ProfileHandler lets a logged-in user edit their own row.
type ProfileHandler struct {
	ProfileService *service.ProfileService
}

type profileRequest struct {
	FirstName       string `json:"firstname"`
	LastName        string `json:"lastname"`
	Email           string `json:"email"`
	Birthday        string `json:"birthday"`
	BirthdayOptIn   bool   `json:"birthdayOptIn"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req profileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.ProfileService.Update(ctx, httpx.UserIDFromContext(ctx), service.ProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Birthday:        req.Birthday,
		BirthdayOptIn:   req.BirthdayOptIn,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			httpx.WriteError(w, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, service.ErrMissingFields),
			errors.Is(err, service.ErrInvalidBirthday),
			errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "User not found")
		default:
			log.Error("profile update failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Error updating profile")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}
