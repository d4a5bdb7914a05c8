package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/decentland/tribus/filter"
	"github.com/decentland/tribus/filter/countstore"
	"github.com/decentland/tribus/filter/statestore"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

type Server struct {
	echo   *echo.Echo
	httpd  *http.Server
	logger *slog.Logger

	engine *filter.Engine
	states statestore.StateStore
	counts countstore.CountStore

	genesisPath string

	// guards state and height; actions are applied strictly one at a time
	mu     sync.Mutex
	state  *filter.State
	height int64
}

type Config struct {
	Logger     *slog.Logger
	Bind       string
	Engine     *filter.Engine
	StateStore statestore.StateStore
	CountStore countstore.CountStore
	// used only when the state store has no snapshot yet
	GenesisPath string
}

func NewServer(ctx context.Context, config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	srv := &Server{
		logger:      logger,
		engine:      config.Engine,
		states:      config.StateStore,
		counts:      config.CountStore,
		genesisPath: config.GenesisPath,
	}
	if err := srv.loadState(ctx, config.GenesisPath); err != nil {
		return nil, err
	}

	e := echo.New()

	// httpd
	var (
		httpTimeout        = 1 * time.Minute
		httpMaxHeaderBytes = 1 * (1024 * 1024)
	)

	srv.echo = e
	srv.httpd = &http.Server{
		Handler:        srv,
		Addr:           config.Bind,
		WriteTimeout:   httpTimeout,
		ReadTimeout:    httpTimeout,
		MaxHeaderBytes: httpMaxHeaderBytes,
	}

	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("filterd"))
	e.Use(middleware.BodyLimit("64K"))
	e.HTTPErrorHandler = srv.errorHandler
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         31536000, // 365 days
	}))

	e.GET("/_health", srv.HandleHealthCheck)
	e.POST("/actions", srv.HandleAction)
	e.GET("/state", srv.HandleState)
	e.GET("/feed/:pid", srv.HandleContent)
	e.GET("/users/:address", srv.HandleUser)
	e.GET("/reports/:id", srv.HandleReport)
	e.GET("/stats/:caller", srv.HandleStats)

	return srv, nil
}

// Resumes from the latest snapshot, or starts over from the genesis file.
func (srv *Server) loadState(ctx context.Context, genesisPath string) error {
	snap, err := srv.states.Load(ctx)
	if err == nil {
		srv.logger.Info("resuming from state snapshot", "height", snap.Height)
		srv.state = snap.State
		srv.height = snap.Height
		lastHeight.Set(float64(snap.Height))
		return nil
	}
	if !errors.Is(err, statestore.ErrNoSnapshot) {
		return fmt.Errorf("loading state snapshot: %w", err)
	}

	st, err := filter.LoadStateFile(genesisPath)
	if err != nil {
		return fmt.Errorf("loading genesis state: %w", err)
	}
	srv.logger.Info("starting from genesis state", "path", genesisPath)
	srv.state = st
	srv.height = 0
	return nil
}

func (srv *Server) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	srv.echo.ServeHTTP(rw, req)
}

func (srv *Server) RunAPI() error {
	srv.logger.Info("starting server", "bind", srv.httpd.Addr)
	go func() {
		if err := srv.httpd.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				srv.logger.Error("HTTP server shutting down unexpectedly", "err", err)
			}
		}
	}()

	// Wait for a signal to exit.
	srv.logger.Info("registering OS exit signal handler")
	quit := make(chan struct{})
	exitSignals := make(chan os.Signal, 1)
	signal.Notify(exitSignals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-exitSignals
		srv.logger.Info("received OS exit signal", "signal", sig)

		// Shut down the HTTP server
		if err := srv.Shutdown(); err != nil {
			srv.logger.Error("HTTP server shutdown error", "err", err)
		}

		// Trigger the return that causes an exit.
		close(quit)
	}()
	<-quit
	srv.logger.Info("graceful shutdown complete")
	return nil
}

func (srv *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

func (srv *Server) Shutdown() error {
	srv.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.httpd.Shutdown(ctx)
}
