package main

import (
	"context"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"bidboard/internal/adapters/telegram"
	"bidboard/internal/infra/config"
	applog "bidboard/internal/infra/log"
	"bidboard/internal/infra/metrics"
	"bidboard/internal/infra/wiring"
	"bidboard/internal/usecase/notify"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv).With().Str("component", "notifier").Logger()
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("notifier: не удалось создать бота")
	}

	jobs, err := wiring.OpenQueue(ctx, cfg, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("notifier: нет очереди")
	}
	defer jobs.Close()

	metrics.StartServer(ctx, logger, cfg.Telegram.MetricsAddr, nil)

	deliverer := notify.NewDeliverer(jobs, telegram.NewNotifier(botAPI), logger)
	logger.Info().Str("bot", botAPI.Self.UserName).Msg("notifier: запущен")
	if err := deliverer.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("notifier: остановлен с ошибкой")
		return
	}
	logger.Info().Msg("notifier: остановлен")
}
