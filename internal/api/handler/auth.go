package handler

import (
	"net/http"

	"github.com/mcoot/cyberstore/internal/api/apierr"
	"github.com/mcoot/cyberstore/internal/api/middleware"
	"github.com/mcoot/cyberstore/internal/api/request"
	"github.com/mcoot/cyberstore/internal/api/response"
	"github.com/mcoot/cyberstore/internal/services/auth"
)

// AuthHandler handles account and session endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.UserFromModel(user))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := request.Decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Session{
		User:        response.UserFromModel(user),
		OnlineCount: h.authService.OnlineCount(),
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.Session{
		User:        response.UserFromModel(user),
		OnlineCount: h.authService.OnlineCount(),
	})
}
