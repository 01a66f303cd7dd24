package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию бинарников.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"UTC"`

	API struct {
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:5000/api"`
		Token   string        `envconfig:"API_TOKEN"`
		UserID  string        `envconfig:"API_USER_ID"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
		RPS     float64       `envconfig:"API_RPS" default:"5"`
	} `envconfig:""`

	Storage struct {
		Backend    string `envconfig:"KV_BACKEND" default:"sqlite"`
		RedisAddr  string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		PGDSN      string `envconfig:"PG_DSN"`
		Namespace  string `envconfig:"KV_NAMESPACE" default:"bidboard"`
		SQLitePath string `envconfig:"KV_PATH"` // пусто: файл в каталоге конфигурации пользователя
	} `envconfig:""`

	Watcher struct {
		PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`
		WindowDays   int           `envconfig:"WATCH_WINDOW_DAYS" default:"1"`
		MetricsAddr  string        `envconfig:"METRICS_ADDR" default:":9090"`
	} `envconfig:""`

	Queues struct {
		Backend string `envconfig:"QUEUE_BACKEND" default:"redis"`
		Notify  string `envconfig:"NOTIFY_QUEUE_KEY" default:"bidboard_notifications"`
		AMQPURL string `envconfig:"AMQP_URL"`
	} `envconfig:""`

	Telegram struct {
		Token       string `envconfig:"TG_BOT_TOKEN"`
		ChatID      int64  `envconfig:"TG_CHAT_ID"`
		MetricsAddr string `envconfig:"NOTIFIER_METRICS_ADDR" default:":9091"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
