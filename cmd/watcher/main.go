package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"bidboard/internal/adapters/gateway"
	"bidboard/internal/infra/config"
	httpserver "bidboard/internal/infra/http"
	applog "bidboard/internal/infra/log"
	"bidboard/internal/infra/metrics"
	"bidboard/internal/infra/poll"
	"bidboard/internal/infra/wiring"
	"bidboard/internal/usecase/bidlinks"
	"bidboard/internal/usecase/ledger"
	"bidboard/internal/usecase/notify"
	"bidboard/internal/usecase/prefs"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv).With().Str("component", "watcher").Logger()
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := wiring.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("watcher: нет хранилища")
	}
	defer storage.Close()

	jobs, err := wiring.OpenQueue(ctx, cfg, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("watcher: нет очереди")
	}
	defer jobs.Close()

	store := prefs.New(storage.KV, logger)
	session := gateway.Session{Token: cfg.API.Token, UserID: cfg.API.UserID}
	if session.Token == "" {
		session.Token, session.UserID = store.Session(ctx)
	}
	if !session.Valid(time.Now()) {
		log.Fatal().Msg("watcher: нет действующей сессии, задайте API_TOKEN или выполните bidctl login")
	}
	api, err := wiring.NewGateway(cfg, session, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("watcher: клиент API")
	}

	links := bidlinks.NewService(api, logger)
	watcher := notify.NewWatcher(links, api, store, ledger.New(storage.KV, logger), storage.Cache, jobs,
		notify.WatcherConfig{ChatID: cfg.Telegram.ChatID, UserID: session.UserID, WindowDays: cfg.Watcher.WindowDays}, logger)

	srv := httpserver.NewServer(logger, cfg.Watcher.MetricsAddr, func(context.Context) error {
		if !session.Valid(time.Now()) {
			return errors.New("сессия истекла")
		}
		return nil
	})
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("watcher: HTTP сервер остановлен")
		}
	}()

	interval := poll.Clamp(cfg.Watcher.PollInterval)
	logger.Info().Dur("interval", interval).Msg("watcher: запущен")
	err = poll.Every(ctx, interval, func(ctx context.Context) error {
		n, err := watcher.Tick(ctx)
		metrics.ObservePollTick("watcher", err)
		if err != nil {
			logger.Error().Err(err).Msg("watcher: итерация не удалась")
			return nil
		}
		if n > 0 {
			logger.Info().Int("queued", n).Msg("watcher: уведомления поставлены в очередь")
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("watcher: цикл остановлен")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(fmt.Errorf("shutdown: %w", err)).Msg("watcher: остановка сервера")
	}
	logger.Info().Msg("watcher: остановлен")
}
