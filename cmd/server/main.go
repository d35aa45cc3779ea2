package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/giftpropaganda/newsfeed/app_config"
	"github.com/giftpropaganda/newsfeed/bot"
	"github.com/giftpropaganda/newsfeed/collector"
	"github.com/giftpropaganda/newsfeed/ingestion"
	"github.com/giftpropaganda/newsfeed/server"
	"github.com/giftpropaganda/newsfeed/server/middlewares"
	"github.com/giftpropaganda/newsfeed/utils"
	"github.com/giftpropaganda/newsfeed/utils/dotenv"
	Logger "github.com/giftpropaganda/newsfeed/utils/log"
)

const channelCacheTTL = 5 * time.Minute

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	cfg, err := app_config.Load()
	if err != nil {
		Logger.Log.Errorf("failed to load config: %v", err)
		return
	}

	db, err := utils.GetDBConnection(cfg)
	if err != nil {
		Logger.Log.Errorf("failed to connect to database: %v", err)
		return
	}
	utils.DatabaseSetupAndMigration(db)

	cache, err := utils.GetRedisCache(cfg, channelCacheTTL)
	if err != nil {
		// The channel cache is an optimization, run without it.
		Logger.Log.Warnf("redis unavailable, live channel caching disabled: %v", err)
	}

	telegram := collector.NewTelegramCollector()
	pipeline := ingestion.NewPipeline(
		db,
		telegram,
		collector.NewRssCollector(),
		cfg.TelegramChannels,
		cfg.RssFeeds,
		cfg.FetchBatchSize,
	)
	scheduler := ingestion.NewScheduler(pipeline, cfg.FetchInterval)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := scheduler.Start(ctx); err != nil && err != context.Canceled {
			Logger.Log.Errorf("scheduler stopped: %v", err)
		}
	}()

	if cfg.TelegramBotToken != "" && cfg.WebhookURL != "" {
		if err := bot.RegisterWebhook(cfg.TelegramBotToken, cfg.WebhookURL); err != nil {
			Logger.Log.Errorf("webhook registration failed: %v", err)
		}
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middlewares.RequestLogger())

	newsServer := server.NewNewsServer(db, telegram, cfg.TelegramChannels, cache)
	newsServer.RegisterRoutes(router)

	Logger.Log.Infof("api server starts up on %s", cfg.ListenAddr)
	router.Run(cfg.ListenAddr)
}
