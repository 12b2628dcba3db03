package handler

import (
	"net/http"

	"github.com/mcoot/cyberstore/internal/api/apierr"
	"github.com/mcoot/cyberstore/internal/api/response"
	"github.com/mcoot/cyberstore/internal/services/auth"
	"github.com/mcoot/cyberstore/internal/services/catalog"
	"github.com/mcoot/cyberstore/internal/services/stats"
)

// StatsHandler serves the dashboard summary
type StatsHandler struct {
	catalog     *catalog.Service
	authService *auth.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(catalog *catalog.Service, authService *auth.Service) *StatsHandler {
	return &StatsHandler{
		catalog:     catalog,
		authService: authService,
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.GetAll(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var summary response.Stats = stats.Summarize(games, h.authService.OnlineCount())
	response.JSON(w, http.StatusOK, summary)
}
