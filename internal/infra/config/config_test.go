package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Storage.Backend != "sqlite" || cfg.Queues.Backend != "redis" {
		t.Fatalf("неожиданные значения по умолчанию: %+v", cfg)
	}
	if cfg.Watcher.PollInterval != 30*time.Second {
		t.Fatalf("ожидали 30s, получили %v", cfg.Watcher.PollInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://bids.example/api")
	t.Setenv("API_RPS", "2.5")
	t.Setenv("KV_BACKEND", "postgres")
	t.Setenv("POLL_INTERVAL", "45s")
	t.Setenv("TG_CHAT_ID", "-1001")

	cfg := Load()
	if cfg.API.BaseURL != "https://bids.example/api" || cfg.API.RPS != 2.5 {
		t.Fatalf("API не прочитан: %+v", cfg.API)
	}
	if cfg.Storage.Backend != "postgres" || cfg.Watcher.PollInterval != 45*time.Second {
		t.Fatalf("неожиданная конфигурация: %+v", cfg)
	}
	if cfg.Telegram.ChatID != -1001 {
		t.Fatalf("ожидали chat id -1001, получили %d", cfg.Telegram.ChatID)
	}
}
