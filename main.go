package main

import (
	"context"
	"time"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/routes"
	"github.com/cppla/portfolio/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	shutdownTracing, err := utils.SetupTracing(context.Background(), cfg)
	if err != nil {
		utils.Sugar.Warnf("tracing disabled: %v", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	db := config.InitDatabase(models.All()...)

	r := routes.SetupRouter(db)

	// Orphaned uploads are swept hourly
	utils.StartUploadCleaner(db, cfg.UploadDir, time.Hour)

	srv := utils.NewServer(":"+cfg.AppPort, r)
	srv.OnShutdown(shutdownTracing)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := srv.ListenAndServe(); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
