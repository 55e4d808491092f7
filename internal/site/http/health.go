package http

import (
	"net/http"
	"time"

	"github.com/hearthside/homesite/internal/site/store"
	"github.com/hearthside/homesite/pkg/httpx"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// LivezHandler reports process liveness.
func LivezHandler(startTime time.Time, buildVersion string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Version: buildVersion,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	})
}

// ReadyzHandler reports readiness, which for this service means the database
// answers a ping.
func ReadyzHandler(startTime time.Time, buildVersion string, st store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:  "unavailable",
				Version: buildVersion,
				Uptime:  time.Since(startTime).Round(time.Second).String(),
			})
			return
		}

		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Version: buildVersion,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	})
}
