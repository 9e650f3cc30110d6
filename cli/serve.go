package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/config"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/database"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/ledger"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/middlewares"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/routes"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Run schema migration before listening")
}

// NewServer builds the echo instance with the full route table.
func NewServer(cfg *config.Config, deps routes.Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(corsConfig(cfg.CORSOrigins)))
	routes.Register(e, deps)
	return e
}

// corsConfig allows credentials only for an explicit origin list; browsers
// refuse a credentialed response that carries a wildcard origin.
func corsConfig(origins []string) middleware.CORSConfig {
	c := middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowCredentials = false
		}
	}
	return c
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := open()
	if err != nil {
		return err
	}
	if serveMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}
	if !cfg.IsProduction() && cfg.JWTSecret == "dev-secret" {
		log.Printf("serve: using the development JWT secret")
	}

	e := NewServer(cfg, routes.Deps{
		DB: db,
		Auth: middlewares.AuthConfig{
			Secret:     cfg.JWTSecret,
			CookieName: cfg.AuthCookie,
			TTL:        cfg.JWTTTL,
		},
		SecureCookie: cfg.IsProduction(),
		Ledger: []ledger.Option{
			ledger.WithLocation(cfg.Location()),
			ledger.WithLateHour(cfg.LateHour),
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return listen(ctx, e, ":"+cfg.AppPort)
}

// listen serves until ctx is done, then shuts down gracefully. A listener
// that fails to start is returned as the command's error.
func listen(ctx context.Context, e *echo.Echo, addr string) error {
	startErr := make(chan error, 1)
	go func() {
		log.Printf("server listening at %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			startErr <- err
		}
	}()

	select {
	case err := <-startErr:
		return errors.Wrap(err, "start server")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Wrap(e.Shutdown(shutdownCtx), "shutdown")
}
