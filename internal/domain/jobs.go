package domain

import (
	"context"
	"time"
)

// NotificationCause описывает источник уведомления.
type NotificationCause string

const (
	// NotificationCauseNewLink — появилась новая подходящая ссылка.
	NotificationCauseNewLink NotificationCause = "new_link"
	// NotificationCauseSearchDone — завершился запланированный поиск.
	NotificationCauseSearchDone NotificationCause = "search_done"
)

// NotificationJob содержит информацию об одном уведомлении.
type NotificationJob struct {
	ID          string            `json:"job_id"`
	ChatID      int64             `json:"chat_id"`
	Cause       NotificationCause `json:"cause"`
	LinkID      string            `json:"link_id,omitempty"`
	Title       string            `json:"title"`
	URL         string            `json:"url,omitempty"`
	Company     string            `json:"company,omitempty"`
	Tag         string            `json:"tag,omitempty"`
	Confidence  float64           `json:"confidence,omitempty"`
	JobsFound   int               `json:"jobs_found,omitempty"`
	RequestedAt time.Time         `json:"requested_at"`
	Attempts    int               `json:"attempts,omitempty"`
}

// MaxNotificationAttempts — после стольких неудачных попыток задача отбрасывается.
const MaxNotificationAttempts = 5

// NotificationQueue описывает очередь уведомлений.
type NotificationQueue interface {
	Enqueue(ctx context.Context, job NotificationJob) error
	Receive(ctx context.Context) (NotificationJob, AckFunc, error)
}

// AckFunc подтверждает успешную обработку или запрашивает повтор доставки задачи.
type AckFunc func(success bool) error
