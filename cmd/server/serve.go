package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/together/internal/admin"
	"github.com/mmynk/together/internal/auth"
	"github.com/mmynk/together/internal/config"
	"github.com/mmynk/together/internal/metrics"
	"github.com/mmynk/together/internal/middleware"
	"github.com/mmynk/together/internal/service"
	"github.com/mmynk/together/internal/storage"
	"github.com/mmynk/together/internal/storage/sqlite"
	"github.com/mmynk/together/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin console, the Connect API and metrics",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (http.addr)")
	if err := v.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	handler, err := newHandler(cfg, store, slog.Default())
	if err != nil {
		return err
	}

	// h2c gives HTTP/2 without TLS, which gRPC clients of the Connect API need.
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Admin server starting", "address", cfg.HTTP.Addr, "console", "/admin/")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newHandler wires the admin site, the HTML console, the Connect service and
// the metrics endpoint into one handler.
func newHandler(cfg *config.Config, store storage.Store, logger *slog.Logger) (http.Handler, error) {
	site := admin.NewSite(store, cfg.Admin.PerPage)
	if err := admin.RegisterDefaults(site); err != nil {
		return nil, err
	}

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	mux := http.NewServeMux()

	console, err := web.NewConsole(site, authenticator, jwtManager, logger)
	if err != nil {
		return nil, err
	}
	console.WithSecureCookies(cfg.HTTP.SecureCookies).Register(mux)

	svc := service.NewAdminService(site, authenticator, jwtManager, logger)
	path, svcHandler := service.NewAdminServiceHandler(svc)
	mux.Handle(path, middleware.CORS(svcHandler))

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/", http.StatusFound)
	})

	return middleware.Logging(metrics.Instrument(mux)), nil
}
