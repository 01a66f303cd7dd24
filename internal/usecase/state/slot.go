// Package state хранит клиентское состояние, которое обновляется ответами сервера.
package state

import (
	"context"
	"sync"
)

// Ticket — номер выданного запроса для слота.
type Ticket uint64

// Slot хранит значение и номер последнего выданного запроса. Применяется
// только ответ на последний выданный запрос; более ранние отбрасываются.
type Slot[T any] struct {
	mu     sync.Mutex
	value  T
	issued Ticket
}

// NewSlot создаёт слот с начальным значением.
func NewSlot[T any](initial T) *Slot[T] {
	return &Slot[T]{value: initial}
}

// Get возвращает текущее значение.
func (s *Slot[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set безусловно заменяет значение.
func (s *Slot[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}

// Begin выдаёт номер для нового запроса.
func (s *Slot[T]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// CommitIf применяет значение, только если ticket выдан последним.
func (s *Slot[T]) CommitIf(ticket Ticket, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.issued {
		return false
	}
	s.value = v
	return true
}

// Update применяет функцию к значению под блокировкой.
func (s *Slot[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	s.mu.Unlock()
}

// Optimistic сразу применяет mutate, затем вызывает remote. Изменение занимает
// новый номер, поэтому ответы на запросы, выданные раньше, уже не применятся.
// При ошибке remote слот возвращается к снимку, только если за время вызова
// не было выдано новых номеров; иначе более новое значение сохраняется.
func (s *Slot[T]) Optimistic(ctx context.Context, mutate func(T) T, remote func(ctx context.Context) error) error {
	s.mu.Lock()
	snapshot := s.value
	s.value = mutate(s.value)
	s.issued++
	ticket := s.issued
	s.mu.Unlock()

	if err := remote(ctx); err != nil {
		s.mu.Lock()
		if s.issued == ticket {
			s.value = snapshot
		}
		s.mu.Unlock()
		return err
	}
	return nil
}
