package state

import (
	"context"
	"errors"
	"testing"
)

func TestCommitIfDropsStaleResponse(t *testing.T) {
	slot := NewSlot([]string{})
	first := slot.Begin()
	second := slot.Begin()

	if !slot.CommitIf(second, []string{"new"}) {
		t.Fatalf("ожидали, что последний запрос применится")
	}
	if slot.CommitIf(first, []string{"old"}) {
		t.Fatalf("ожидали, что устаревший ответ будет отброшен")
	}
	if got := slot.Get(); len(got) != 1 || got[0] != "new" {
		t.Fatalf("ожидали значение последнего запроса, получили %v", got)
	}
}

func TestOptimisticRollsBackOnFailure(t *testing.T) {
	slot := NewSlot([]int{1, 2, 3})
	var seenDuringCall []int
	err := slot.Optimistic(context.Background(), func(v []int) []int {
		return v[:1]
	}, func(context.Context) error {
		seenDuringCall = slot.Get()
		return errors.New("boom")
	})
	if err == nil {
		t.Fatalf("ожидали ошибку remote")
	}
	if len(seenDuringCall) != 1 {
		t.Fatalf("ожидали оптимистичное состояние во время запроса, получили %v", seenDuringCall)
	}
	if got := slot.Get(); len(got) != 3 {
		t.Fatalf("ожидали откат к 3 элементам, получили %v", got)
	}
}

func TestOptimisticKeepsMutationOnSuccess(t *testing.T) {
	slot := NewSlot(10)
	err := slot.Optimistic(context.Background(), func(v int) int { return v + 1 }, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if slot.Get() != 11 {
		t.Fatalf("ожидали 11, получили %d", slot.Get())
	}
}

func TestOptimisticInvalidatesEarlierRequests(t *testing.T) {
	slot := NewSlot([]int{1, 2, 3})
	before := slot.Begin()
	err := slot.Optimistic(context.Background(), func(v []int) []int { return v[:1] }, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if slot.CommitIf(before, []int{1, 2, 3}) {
		t.Fatalf("ответ на запрос, выданный до изменения, не должен примениться")
	}
	if got := slot.Get(); len(got) != 1 {
		t.Fatalf("ожидали 1 элемент, получили %v", got)
	}
}

func TestOptimisticKeepsNewerCommitOnFailure(t *testing.T) {
	slot := NewSlot([]int{1, 2, 3})
	err := slot.Optimistic(context.Background(), func(v []int) []int { return v[:1] }, func(context.Context) error {
		ticket := slot.Begin()
		if !slot.CommitIf(ticket, []int{7, 8, 9, 10}) {
			t.Fatalf("новый запрос должен примениться")
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatalf("ожидали ошибку remote")
	}
	if got := slot.Get(); len(got) != 4 {
		t.Fatalf("откат не должен затирать более новое значение, получили %v", got)
	}
}
