package main

import (
	"context"
	"log"
	"net"

	"github.com/interntrack/backend/config"
	"github.com/interntrack/backend/ingest"
	"github.com/interntrack/backend/models"
	"github.com/interntrack/backend/routes"
	"github.com/interntrack/backend/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(
		&models.User{},
		&models.Internship{},
		&models.WatchlistItem{},
		&models.CheckIn{},
		&models.ApplicationLog{},
		&models.Badge{},
		&models.PointEvent{},
	)

	if cfg.FeedFetchOnBoot {
		if err := ingest.FetchOnce(context.Background(), db, cfg.FeedURL); err != nil {
			utils.Sugar.Errorw("initial feed fetch failed", "err", err)
		}
	}
	ingest.StartScheduler(db)

	router := routes.SetupRouter(db)

	addr := net.JoinHostPort("", cfg.AppPort)
	utils.Sugar.Infow("server starting", "addr", addr)
	if err := utils.GraceServer(addr, router); err != nil {
		utils.Sugar.Fatalw("server exited", "err", err)
	}
}
