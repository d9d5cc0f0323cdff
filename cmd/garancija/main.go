package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/garancija/internal/api"
	"github.com/erazemk/garancija/internal/auth"
	"github.com/erazemk/garancija/internal/config"
	"github.com/erazemk/garancija/internal/db"
	"github.com/erazemk/garancija/internal/imagehost"
	"github.com/erazemk/garancija/internal/inventory"
	"github.com/erazemk/garancija/internal/sheet"
	"github.com/erazemk/garancija/internal/web"
	"github.com/erazemk/garancija/internal/webhook"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	fs := flag.NewFlagSet("garancija", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", "", "")
	fs.StringVar(&dbPath, "d", "", "")

	var addr string
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: garancija [flags]

Flags override their GARANCIJA_* environment variables; see .env.example
for the full list of settings.

Flags:
  -d, -db <path>          SQLite database path (default: garancija.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	cfg := config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if logPath != "" {
		cfg.LogPath = logPath
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	// The local database backs the sheet and photo hosting unless both are
	// pointed at remote services.
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", cfg.DBPath)

	// Pick the record sheet: remote service when configured, local otherwise.
	var recordSheet sheet.Sheet
	if cfg.SheetURL != "" {
		recordSheet = sheet.NewHTTPSheet(cfg.SheetURL, cfg.SheetToken)
		slog.Info("using remote sheet", "url", cfg.SheetURL)
	} else {
		recordSheet = sheet.NewSQLiteSheet(database)
	}

	manager := inventory.NewManager(recordSheet)
	if err := manager.Load(context.Background()); err != nil {
		// Start with an empty collection rather than refusing to serve;
		// the sheet may come back before the next save.
		slog.Error("failed to load records, starting empty", "error", err)
	} else {
		slog.Info("records loaded", "count", manager.Len())
	}

	// The shared family password. Auto-generated and printed when not
	// configured, so a fresh install is immediately usable.
	password := cfg.Password
	if password == "" {
		password, err = generatePassword(16)
		if err != nil {
			slog.Error("failed to generate password", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Generated family password: %s\n", password)
		fmt.Println("Set GARANCIJA_PASSWORD to keep it across restarts.")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	// Sessions reset on restart when no fixed secret is configured.
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret, err = generateSecret()
		if err != nil {
			slog.Error("failed to generate JWT secret", "error", err)
			os.Exit(1)
		}
	}

	// Pick the photo host: remote service when configured, local otherwise.
	var uploader imagehost.Uploader
	var localImages *imagehost.LocalUploader
	if cfg.ImageHostURL != "" {
		uploader = imagehost.NewHTTPUploader(cfg.ImageHostURL, cfg.ImageHostToken)
		slog.Info("using remote image host", "url", cfg.ImageHostURL)
	} else {
		localImages = imagehost.NewLocalUploader(database, cfg.BaseURL)
		uploader = localImages
	}

	sender := webhook.NewSender(cfg.WebhookURL)
	if sender.Enabled() {
		slog.Info("reminder webhook configured")
	}

	// Set up routers.
	apiRouter := api.NewRouter(manager, jwtSecret, passwordHash, sender)

	webServer := &web.Server{
		Manager:      manager,
		JWTSecret:    jwtSecret,
		PasswordHash: passwordHash,
		Uploader:     uploader,
		Images:       localImages,
		Webhook:      sender,
	}
	webRouter, err := web.NewRouter(webServer)
	if err != nil {
		slog.Error("failed to set up web router", "error", err)
		os.Exit(1)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	handler := api.LoggingMiddleware(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

// generateSecret creates a random hex-encoded signing secret.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
