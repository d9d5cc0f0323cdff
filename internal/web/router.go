package web

import (
	"net/http"

	webembed "github.com/erazemk/garancija/web"
)

// NewRouter creates the web page router with all page routes registered.
// The server's Templates field is populated here.
func NewRouter(s *Server) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	s.Templates = templates

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(s.JWTSecret)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", cookieAuth(http.HandlerFunc(s.ItemsPage)))
	mux.Handle("POST /items", cookieAuth(http.HandlerFunc(s.ItemCreateSubmit)))
	mux.Handle("POST /items/{index}", cookieAuth(http.HandlerFunc(s.ItemUpdateSubmit)))
	mux.Handle("POST /items/{index}/delete", cookieAuth(http.HandlerFunc(s.ItemDeleteSubmit)))
	mux.Handle("POST /reminders", cookieAuth(http.HandlerFunc(s.RemindersSubmit)))
	mux.Handle("GET /images/{id}", cookieAuth(http.HandlerFunc(s.ImageGet)))

	return mux, nil
}
