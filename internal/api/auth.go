package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/garancija/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	JWTSecret    string
	PasswordHash string
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Password == "" {
		jsonError(w, http.StatusBadRequest, "password required")
		return
	}

	if !auth.CheckPassword(h.PasswordHash, req.Password) {
		slog.Warn("api login failed", "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	jsonResponse(w, http.StatusOK, loginResponse{Token: token})
}
