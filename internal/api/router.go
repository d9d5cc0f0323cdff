package api

import (
	"net/http"

	"github.com/erazemk/garancija/internal/inventory"
	"github.com/erazemk/garancija/internal/webhook"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(manager *inventory.Manager, jwtSecret, passwordHash string, sender *webhook.Sender) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{JWTSecret: jwtSecret, PasswordHash: passwordHash}
	itemsHandler := &ItemsHandler{Manager: manager}
	remindersHandler := &RemindersHandler{Manager: manager, Webhook: sender}

	authMW := AuthMiddleware(jwtSecret)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Warranty records.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/items/{index}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{index}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	// Reminders.
	mux.Handle("GET /api/reminders/digest", authMW(http.HandlerFunc(remindersHandler.Digest)))
	mux.Handle("POST /api/reminders", authMW(http.HandlerFunc(remindersHandler.Send)))

	return mux
}
