package main

import (
	"context"
	"log"
	"os"
	"time"

	"moodmix/internal/api"
	"moodmix/internal/config"
	"moodmix/internal/mood"
	"moodmix/internal/redis"
	"moodmix/internal/service/chat"
	"moodmix/internal/service/oracle"
	"moodmix/internal/service/spotify"
	"moodmix/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("MOODMIX_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("MOODMIX_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Create necessary tables: sessions, messages
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// The context cache is best effort: run without it when redis is down.
	rdb, err := redis.NewClient(cfg)
	if err != nil {
		log.Printf("redis unavailable, context cache disabled: %v", err)
		rdb = nil
	}
	defer rdb.Close()

	chatService, err := chat.NewService(db, rdb)
	if err != nil {
		log.Fatalf("init chat service: %v", err)
	}

	provider := cfg.Mood.Provider
	if provider == "" {
		provider = "openai"
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	oracleService, err := oracle.NewService(ctx, cfg, provider)
	if err != nil {
		log.Fatalf("init oracle service: %v", err)
	}
	spotifyClient := spotify.NewClient()
	analyzer := mood.NewAnalyzer(oracleService, spotifyClient, cfg.Mood.KeepOnAmbiguous)

	retention := time.Duration(cfg.BasicConfig.SessionRetentionDays) * 24 * time.Hour
	sweepInterval := time.Duration(cfg.BasicConfig.SweepIntervalMinutes) * time.Minute
	chatService.StartRetentionSweeper(ctx, sweepInterval, retention)

	handlers := api.NewHandler(chatService, analyzer, spotifyClient)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
