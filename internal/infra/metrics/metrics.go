package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30, 60},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	VisibleLinks = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bid_links_visible",
		Help: "Количество ссылок после фильтрации",
	})

	StaleResponsesDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stale_responses_dropped_total",
		Help: "Ответы, отброшенные из-за более нового запроса",
	}, []string{"slot"})

	OptimisticRollbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimistic_rollbacks_total",
		Help: "Откаты оптимистичных изменений",
	}, []string{"operation"})

	LedgerPurged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "opened_ledger_purged_total",
		Help: "Записи журнала открытых ссылок, удалённые по сроку",
	})

	NotificationsEnqueued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_enqueued_total",
		Help: "Уведомления, поставленные в очередь",
	}, []string{"cause"})

	NotificationsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Доставленные уведомления",
	})

	NotificationErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_errors_total",
		Help: "Ошибки доставки уведомлений",
	})

	PollTicks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poll_ticks_total",
		Help: "Итерации опроса",
	}, []string{"loop", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		NetworkRequestDuration,
		NetworkRequestTotal,
		VisibleLinks,
		StaleResponsesDropped,
		OptimisticRollbacks,
		LedgerPurged,
		NotificationsEnqueued,
		NotificationsSent,
		NotificationErrors,
		PollTicks,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string, handler http.Handler) {
	if handler == nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		handler = mux
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObservePollTick учитывает итерацию цикла опроса.
func ObservePollTick(loop string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	PollTicks.WithLabelValues(loop, status).Inc()
}
