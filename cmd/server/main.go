package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zaqqye/exam_backend/internal/config"
	"github.com/zaqqye/exam_backend/internal/database"
	"github.com/zaqqye/exam_backend/internal/logger"
	"github.com/zaqqye/exam_backend/internal/metrics"
	"github.com/zaqqye/exam_backend/internal/routes"
	"github.com/zaqqye/exam_backend/internal/tracing"
	"github.com/zaqqye/exam_backend/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.WaitForDB(ctx, db, cfg.DB.WaitTimeout, cfg.DB.WaitInterval, logg); err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.SeedAdmin(ctx, db, cfg, logg); err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := m.RegisterDB(sqlDB, "exam"); err != nil {
			return err
		}
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.Init(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logg.Error("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	var hub *ws.Hub
	if m != nil {
		hub = ws.NewHub(logg, m)
	} else {
		hub = ws.NewHub(logg, nil)
	}
	go hub.Run(ctx)

	router, err := routes.NewRouter(ctx, routes.Deps{
		DB:      db,
		Config:  cfg,
		Log:     logg,
		Metrics: m,
		Hub:     hub,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	serveErr := make(chan error, 1)
	go func() {
		logg.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logg.Info("server exited")
	return nil
}
