package http

import (
	"errors"
	"net/http"

	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/pkg/httpx"
	"github.com/hearthside/homesite/pkg/slogx"
)

// APIKeyHandler mints programmatic credentials for the calling user. The raw
// secret appears only in this response; afterwards only its hash exists.
type APIKeyHandler struct {
	APIKeyService *service.APIKeyService
}

func (h *APIKeyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apiKey, apiSecret, err := h.APIKeyService.Generate(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		slogx.FromContext(ctx).Error("api key generation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error generating API key")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message":   "API key generated successfully",
		"apiKey":    apiKey,
		"apiSecret": apiSecret,
	})
}
