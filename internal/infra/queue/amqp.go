package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
)

// AMQPNotificationQueue реализует очередь уведомлений на RabbitMQ.
type AMQPNotificationQueue struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   zerolog.Logger

	mu         sync.Mutex
	deliveries <-chan amqp.Delivery
}

var _ domain.NotificationQueue = (*AMQPNotificationQueue)(nil)

// NewAMQPNotificationQueue подключается к брокеру и объявляет durable-очередь.
func NewAMQPNotificationQueue(amqpURL, queue string, log zerolog.Logger) (*AMQPNotificationQueue, error) {
	if amqpURL == "" {
		return nil, errors.New("amqp url is empty")
	}
	if queue == "" {
		return nil, errors.New("queue name is empty")
	}
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return &AMQPNotificationQueue{conn: conn, ch: ch, queue: queue, log: log}, nil
}

// Close закрывает канал и соединение.
func (q *AMQPNotificationQueue) Close() error {
	_ = q.ch.Close()
	return q.conn.Close()
}

// Enqueue публикует задачу в очередь.
func (q *AMQPNotificationQueue) Enqueue(ctx context.Context, job domain.NotificationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	start := time.Now()
	err = q.ch.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    job.ID,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	metrics.ObserveNetworkRequest("rabbitmq", "publish", q.queue, start, err)
	if err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}

// Receive блокирующе читает задачу.
func (q *AMQPNotificationQueue) Receive(ctx context.Context) (domain.NotificationJob, domain.AckFunc, error) {
	deliveries, err := q.consume()
	if err != nil {
		return domain.NotificationJob{}, nil, err
	}
	for {
		select {
		case <-ctx.Done():
			return domain.NotificationJob{}, nil, ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return domain.NotificationJob{}, nil, errors.New("amqp: канал доставки закрыт")
			}
			var job domain.NotificationJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				q.log.Error().Err(err).Msg("queue: повреждённая задача отброшена")
				_ = d.Reject(false)
				continue
			}
			return job, q.ackFunc(d, job), nil
		}
	}
}

func (q *AMQPNotificationQueue) consume() (<-chan amqp.Delivery, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.deliveries != nil {
		return q.deliveries, nil
	}
	deliveries, err := q.ch.Consume(q.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}
	q.deliveries = deliveries
	return deliveries, nil
}

// ackFunc подтверждает доставку; при неудаче задача публикуется заново
// с увеличенным счётчиком попыток.
func (q *AMQPNotificationQueue) ackFunc(d amqp.Delivery, job domain.NotificationJob) domain.AckFunc {
	return func(success bool) error {
		if success {
			return d.Ack(false)
		}
		job.Attempts++
		if job.Attempts >= domain.MaxNotificationAttempts {
			q.log.Warn().Str("job_id", job.ID).Int("attempts", job.Attempts).Msg("queue: попытки исчерпаны")
			return d.Ack(false)
		}
		if err := q.Enqueue(context.Background(), job); err != nil {
			return d.Nack(false, true)
		}
		return d.Ack(false)
	}
}
