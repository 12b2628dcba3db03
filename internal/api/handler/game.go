package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/cyberstore/internal/api/apierr"
	"github.com/mcoot/cyberstore/internal/api/request"
	"github.com/mcoot/cyberstore/internal/api/response"
	"github.com/mcoot/cyberstore/internal/model"
	"github.com/mcoot/cyberstore/internal/services/catalog"
	"github.com/mcoot/cyberstore/internal/services/export"
	"github.com/mcoot/cyberstore/internal/services/query"
)

// NextQueryHeader carries the list state to show after a delete
const NextQueryHeader = "X-Next-Query"

// GameHandler handles catalog endpoints
type GameHandler struct {
	catalog     *catalog.Service
	exporter    *export.Exporter
	catalogSize prometheus.Gauge
	logger      *slog.Logger
}

// NewGameHandler creates a new game handler.
// catalogSize may be nil when metrics are disabled.
func NewGameHandler(
	catalog *catalog.Service,
	exporter *export.Exporter,
	catalogSize prometheus.Gauge,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		catalog:     catalog,
		exporter:    exporter,
		catalogSize: catalogSize,
		logger:      logger,
	}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.GetAll(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if h.catalogSize != nil {
		h.catalogSize.Set(float64(len(games)))
	}

	st := query.Decode(r.URL.Query())
	view := query.Apply(games, st)

	response.JSON(w, http.StatusOK, response.GameListFromView(view, st))
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := request.Decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	game, err := h.catalog.Add(r.Context(), req.ToModel())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(game))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Update handles PATCH /api/v1/games/{id}.
// Patching an unknown id succeeds without content and changes nothing.
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	var req request.UpdateGameRequest
	if err := request.Decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	game, ok, err := h.catalog.Update(r.Context(), id, req.ToPatch())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if !ok {
		response.NoContent(w)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Delete handles DELETE /api/v1/games/{id}.
// When the request carries the list state, the state to show next is
// returned in the X-Next-Query header.
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])
	params := r.URL.Query()
	hasState := query.HasState(params)

	var (
		st      query.State
		visible int
	)
	if hasState {
		games, err := h.catalog.GetAll(r.Context())
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		st = query.Decode(params)
		visible = len(query.Apply(games, st).Items)
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if hasState {
		next := query.AfterDelete(st, visible)
		w.Header().Set(NextQueryHeader, next.Encode().Encode())
	}
	response.NoContent(w)
}

// Export handles GET /api/v1/games/export.
// The whole filtered set is exported regardless of the page requested.
func (h *GameHandler) Export(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	format, err := export.ParseFormat(params.Get("format"))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	games, err := h.catalog.GetAll(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	filtered := query.Filter(games, query.Decode(params))

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, filtered, format); err != nil {
		h.logger.Error("export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()),
		)
		apierr.WriteError(w, err)
		return
	}

	filename := h.exporter.Filename(format)
	h.logger.Info("catalog exported",
		slog.String("filename", filename),
		slog.Int("game_count", len(filtered)),
	)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
