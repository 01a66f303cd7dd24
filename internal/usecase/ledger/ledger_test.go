package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bidboard/internal/domain"
	"bidboard/internal/infra/cache"
)

func newTestLedger(t *testing.T, store domain.KVStore, now time.Time) *Ledger {
	t.Helper()
	l := New(store, zerolog.Nop())
	l.now = func() time.Time { return now }
	return l
}

func TestEntriesPurgesExpired(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	seed := []domain.OpenedLinkRecord{
		{URL: "https://fresh.example", Timestamp: now.Add(-24 * time.Hour).UnixMilli()},
		{URL: "https://stale.example", Timestamp: now.Add(-31 * 24 * time.Hour).UnixMilli()},
	}
	raw, _ := json.Marshal(seed)
	_ = store.Set(ctx, StorageKey, raw)

	l := newTestLedger(t, store, now)
	entries := l.Entries(ctx)
	if len(entries) != 1 || entries[0].URL != "https://fresh.example" {
		t.Fatalf("ожидали одну свежую запись, получили %+v", entries)
	}
	if l.IsOpened(ctx, "https://stale.example") {
		t.Fatalf("просроченная ссылка не должна считаться открытой")
	}

	stored, err := store.Get(ctx, StorageKey)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	var persisted []domain.OpenedLinkRecord
	if err := json.Unmarshal(stored, &persisted); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(persisted) != 1 {
		t.Fatalf("ожидали перезапись журнала без просроченных записей, получили %d", len(persisted))
	}
}

func TestRecordOpenedOrderAndLookup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	l := newTestLedger(t, cache.NewMemory(), now)

	l.RecordOpened(ctx, []string{"a", "b"})
	l.RecordOpened(ctx, []string{"c"})

	entries := l.Entries(ctx)
	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.URL)
		if e.Timestamp != now.UnixMilli() {
			t.Fatalf("ожидали отметку времени в миллисекундах, получили %d", e.Timestamp)
		}
	}
	want := []string{"c", "b", "a"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("ожидали %v, получили %v", want, got)
	}
	set := l.OpenedSet(ctx)
	if _, ok := set["b"]; !ok || len(set) != 3 {
		t.Fatalf("ожидали множество из трёх адресов, получили %v", set)
	}
}

func TestRecordOpenedKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	l := newTestLedger(t, cache.NewMemory(), now)

	const total = 10050
	const batch = 150
	for start := 0; start < total; start += batch {
		urls := make([]string, 0, batch)
		for i := start; i < start+batch; i++ {
			urls = append(urls, fmt.Sprintf("https://jobs.example/%d", i))
		}
		l.RecordOpened(ctx, urls)
	}

	entries := l.Entries(ctx)
	if len(entries) != MaxEntries {
		t.Fatalf("ожидали %d записей, получили %d", MaxEntries, len(entries))
	}
	if entries[0].URL != "https://jobs.example/10049" {
		t.Fatalf("ожидали самую свежую запись первой, получили %s", entries[0].URL)
	}
	if l.IsOpened(ctx, "https://jobs.example/49") {
		t.Fatalf("самые старые записи должны вытесняться")
	}
	if !l.IsOpened(ctx, "https://jobs.example/50") {
		t.Fatalf("ожидали, что запись 50 сохранится")
	}
}

type failingStore struct{}

var errStore = errors.New("storage unavailable")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errStore }
func (failingStore) Set(context.Context, string, []byte) error   { return errStore }
func (failingStore) Delete(context.Context, string) error        { return errStore }

func TestLedgerDegradesOnStorageFailure(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, failingStore{}, time.Now())

	l.RecordOpened(ctx, []string{"https://jobs.example/1"})
	if entries := l.Entries(ctx); len(entries) != 0 {
		t.Fatalf("ожидали пустой журнал, получили %+v", entries)
	}
	if l.IsOpened(ctx, "https://jobs.example/1") {
		t.Fatalf("ожидали false при недоступном хранилище")
	}
}

func TestLedgerIgnoresCorruptValue(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	_ = store.Set(ctx, StorageKey, []byte("{not json"))
	l := newTestLedger(t, store, time.Now())

	if entries := l.Entries(ctx); len(entries) != 0 {
		t.Fatalf("ожидали пустой журнал, получили %+v", entries)
	}
	l.RecordOpened(ctx, []string{"x"})
	if !l.IsOpened(ctx, "x") {
		t.Fatalf("ожидали запись поверх повреждённого значения")
	}
}
