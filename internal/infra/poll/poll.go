// Package poll запускает функции с фиксированным интервалом.
package poll

import (
	"context"
	"errors"
	"time"
)

const (
	MinInterval = 15 * time.Second
	MaxInterval = 60 * time.Second
)

// ErrStop завершает цикл без ошибки.
var ErrStop = errors.New("poll: stop")

// Every вызывает fn сразу и затем каждые interval, пока fn не вернёт
// ошибку или не отменится ctx. ErrStop завершает цикл с nil.
// Таймер освобождается при любом выходе.
func Every(ctx context.Context, interval time.Duration, fn func(ctx context.Context) error) error {
	if interval <= 0 {
		return errors.New("poll: интервал должен быть положительным")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := fn(ctx); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Clamp приводит интервал к допустимому диапазону 15s..60s.
func Clamp(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}
