package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"bidboard/internal/domain"
	"bidboard/internal/infra/cache"
)

func TestDefaultsOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	s := New(cache.NewMemory(), zerolog.Nop())

	if s.Theme(ctx) != DefaultTheme {
		t.Fatalf("ожидали тему по умолчанию")
	}
	if s.RowsPerPage(ctx) != DefaultRowsPerPage {
		t.Fatalf("ожидали %d строк", DefaultRowsPerPage)
	}
	if limits := s.QueryDateLimits(ctx); len(limits) != 1 || limits[0] != domain.DateLimitAny {
		t.Fatalf("ожидали [-1], получили %v", limits)
	}
	tags := s.VisibleTags(ctx)
	if len(tags) != len(domain.StrictTags()) {
		t.Fatalf("ожидали все теги видимыми, получили %v", tags)
	}
	if s.NotificationConfig(ctx).Enabled {
		t.Fatalf("уведомления по умолчанию выключены")
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(cache.NewMemory(), zerolog.Nop())

	s.SetTheme(ctx, "dark")
	s.SetRowsPerPage(ctx, 100)
	s.SetHiddenCategories(ctx, []string{"design"})
	s.SetQueryDateLimits(ctx, []int{7, 0})
	s.SetStrictlyFiltered(ctx, true)
	s.SetVisibleTags(ctx, map[domain.Tag]bool{domain.TagExpired: false})
	s.SetNotificationConfig(ctx, domain.NotificationConfig{Enabled: true, MinConfidence: 0.7})

	if s.Theme(ctx) != "dark" || s.RowsPerPage(ctx) != 100 {
		t.Fatalf("настройки не сохранились")
	}
	nc := s.NotificationConfig(ctx)
	if !nc.Enabled || nc.MinConfidence != 0.7 || !s.NotificationsEnabled(ctx) {
		t.Fatalf("ожидали включённые уведомления, получили %+v", nc)
	}

	cfg := s.FilterConfig(ctx, domain.DefaultFilterConfig())
	if !cfg.StrictlyFiltered {
		t.Fatalf("ожидали строгий режим")
	}
	if len(cfg.HiddenCategories) != 1 || cfg.HiddenCategories[0] != "design" {
		t.Fatalf("ожидали скрытую категорию design, получили %v", cfg.HiddenCategories)
	}
	if len(cfg.QueryDateLimits) != 2 {
		t.Fatalf("ожидали два ограничения, получили %v", cfg.QueryDateLimits)
	}
	if cfg.VisibleTags[domain.TagExpired] || !cfg.VisibleTags[domain.TagEmailFound] {
		t.Fatalf("ожидали скрытый Expired и видимый Email Found, получили %v", cfg.VisibleTags)
	}
	if cfg.SortBy != domain.SortByConfidence {
		t.Fatalf("поля базовой конфигурации должны сохраняться")
	}
}

func TestLegacyHiddenLinksKey(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemory()
	_ = kv.Set(ctx, KeyHiddenLinks, []byte(`["web3"]`))
	s := New(kv, zerolog.Nop())

	if got := s.HiddenCategories(ctx); len(got) != 1 || got[0] != "web3" {
		t.Fatalf("ожидали чтение старого ключа, получили %v", got)
	}
	s.SetHiddenCategories(ctx, nil)
	if got := s.HiddenCategories(ctx); len(got) != 0 {
		t.Fatalf("новый ключ должен перекрывать старый, получили %v", got)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(cache.NewMemory(), zerolog.Nop())

	s.SetSession(ctx, "jwt", "u1")
	if token, user := s.Session(ctx); token != "jwt" || user != "u1" {
		t.Fatalf("ожидали сохранённую сессию, получили %q %q", token, user)
	}
	s.ClearSession(ctx)
	if token, _ := s.Session(ctx); token != "" {
		t.Fatalf("ожидали пустую сессию после выхода")
	}
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, error) { return nil, errors.New("down") }
func (brokenKV) Set(context.Context, string, []byte) error   { return errors.New("down") }
func (brokenKV) Delete(context.Context, string) error        { return errors.New("down") }

func TestStorageFailureFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	s := New(brokenKV{}, zerolog.Nop())

	s.SetTheme(ctx, "dark")
	if s.Theme(ctx) != DefaultTheme {
		t.Fatalf("ожидали тему по умолчанию")
	}
	if s.RowsPerPage(ctx) != DefaultRowsPerPage {
		t.Fatalf("ожидали размер страницы по умолчанию")
	}
}
