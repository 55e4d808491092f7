package http

import (
	"net/http"

	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/pkg/httpx"
	"github.com/hearthside/homesite/pkg/slogx"
)

// BirthdaysHandler serves the public opt-in birthday list.
type BirthdaysHandler struct {
	BirthdayService *service.BirthdayService
}

func (h *BirthdaysHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.BirthdayService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list birthdays", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error fetching birthdays")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, entries)
}
