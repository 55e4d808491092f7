package http

import (
	"errors"
	"net/http"

	"github.com/hearthside/homesite/internal/site/domain"
	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/pkg/httpx"
	"github.com/hearthside/homesite/pkg/slogx"
)

// UsersHandler serves the admin user-management CRUD routes. Every route is
// behind RequireSession + requireAdmin.
type UsersHandler struct {
	UserService *service.UserService
}

func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list users", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	projected := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		projected = append(projected, u.Public())
	}
	httpx.WriteJSON(w, http.StatusOK, projected)
}

type adminUserRequest struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstname"`
	LastName      string `json:"lastname"`
	Password      string `json:"password"`
	Birthday      string `json:"birthday"`
	BirthdayOptIn bool   `json:"birthdayOptIn"`
	IsAdmin       bool   `json:"isadmin"`
}

func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req adminUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.UserService.Create(ctx, service.AdminCreateInput{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Password:      req.Password,
		Birthday:      req.Birthday,
		BirthdayOptIn: req.BirthdayOptIn,
		IsAdmin:       req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteError(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, service.ErrInvalidBirthday),
			errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error("failed to add user", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Error adding new user")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{
		"id":      id,
		"message": "User added successfully",
	})
}

func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req adminUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.UserService.Update(ctx, r.PathValue("id"), service.AdminUpdateInput{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Birthday:      req.Birthday,
		BirthdayOptIn: req.BirthdayOptIn,
		IsAdmin:       req.IsAdmin,
		Password:      req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteError(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, service.ErrInvalidBirthday),
			errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "User not found")
		default:
			log.Error("failed to update user", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Error updating user")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "User updated successfully"})
}

func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.UserService.Delete(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error("failed to delete user", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error deleting user")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

type capabilitiesRequest struct {
	Capabilities []string `json:"capabilities"`
}

// HandleCapabilities replaces a user's capability set. This is the
// per-identity override mechanism; there is no privileged-email branch
// anywhere in the request path.
func (h *UsersHandler) HandleCapabilities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req capabilitiesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.UserService.SetCapabilities(ctx, r.PathValue("id"), req.Capabilities); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error("failed to update capabilities", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error updating capabilities")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Capabilities updated successfully"})
}
