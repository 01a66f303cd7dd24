package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
)

// Deliverer читает задачи из очереди и отправляет их получателю.
type Deliverer struct {
	queue    domain.NotificationQueue
	notifier domain.Notifier
	log      zerolog.Logger
}

func NewDeliverer(queue domain.NotificationQueue, notifier domain.Notifier, log zerolog.Logger) *Deliverer {
	return &Deliverer{queue: queue, notifier: notifier, log: log}
}

// Run обрабатывает задачи до отмены контекста.
func (d *Deliverer) Run(ctx context.Context) error {
	for {
		job, ack, err := d.queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			d.log.Error().Err(err).Msg("notifier: чтение очереди")
			return err
		}
		d.Handle(ctx, job, ack)
	}
}

// Handle доставляет одну задачу и подтверждает её.
func (d *Deliverer) Handle(ctx context.Context, job domain.NotificationJob, ack domain.AckFunc) {
	err := d.notifier.Send(ctx, job.ChatID, FormatNotification(job))
	if err != nil {
		metrics.NotificationErrors.Inc()
		d.log.Error().Err(err).Str("job_id", job.ID).Msg("notifier: отправка не удалась")
	} else {
		metrics.NotificationsSent.Inc()
		d.log.Info().Str("job_id", job.ID).Str("cause", string(job.Cause)).Msg("notifier: уведомление отправлено")
	}
	if ack == nil {
		return
	}
	if ackErr := ack(err == nil); ackErr != nil {
		d.log.Error().Err(ackErr).Str("job_id", job.ID).Msg("notifier: подтверждение не удалось")
	}
}
