package app_config

import (
	"fmt"
	"time"

	"github.com/cristalhq/aconfig"
)

// Config holds every runtime setting of the newsfeed service. It is loaded
// once in main and passed by reference to the components that need it, there
// is no package level mutable state. All credentials come from environment
// variables, none of them has an embedded default.
type Config struct {
	// Postgres connection settings.
	DBHost        string `env:"DB_HOST" default:"localhost"`
	DBPort        string `env:"DB_PORT" default:"5432"`
	DBUser        string `env:"DB_USER" default:"postgres"`
	DBPass        string `env:"DB_PASS"`
	DBName        string `env:"DB_NAME" default:"newsfeed"`
	DefaultDBName string `env:"DEFAULT_DB_NAME" default:"postgres"`

	// Redis settings for the live channel response cache. Leaving RedisHost
	// empty disables caching entirely.
	RedisHost string `env:"REDIS_HOST"`
	RedisPort string `env:"REDIS_PORT" default:"6379"`
	RedisPass string `env:"REDIS_PASSWD"`

	// Telegram settings. Bot token and webhook URL are optional, when both are
	// set the webhook is registered once at startup.
	TelegramBotToken string   `env:"TELEGRAM_BOT_TOKEN"`
	WebhookURL       string   `env:"WEBHOOK_URL"`
	TelegramChannels []string `env:"TELEGRAM_CHANNELS" default:"giftnews,meduzanews,tass_agency"`
	RssFeeds         []string `env:"RSS_FEEDS"`

	// Ingestion settings.
	FetchInterval  time.Duration `env:"FETCH_INTERVAL" default:"30m"`
	FetchBatchSize int           `env:"FETCH_BATCH_SIZE" default:"50"`

	ListenAddr string `env:"LISTEN_ADDR" default:":8080"`
	Debug      bool   `env:"DEBUG"`
	LogLevel   string `env:"LOG_LEVEL" default:"info"`
}

// DSN builds the Postgres connection string for the given database name.
func (c *Config) DSN(dbName string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, dbName, c.DBPort)
}

// Load reads the config from environment variables only. Files are handled
// separately by utils/dotenv before Load is called.
func Load() (*Config, error) {
	cfg := &Config{}
	loader := aconfig.LoaderFor(cfg, aconfig.Config{
		SkipFlags: true,
		SkipFiles: true,
	})
	if err := loader.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}
