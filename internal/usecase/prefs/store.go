// Package prefs хранит пользовательские настройки дашборда в key-value хранилище.
package prefs

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"bidboard/internal/domain"
)

// Ключи настроек в хранилище.
const (
	KeyTheme                = "theme"
	KeyHiddenCategories     = "hiddenCategories"
	KeyHiddenLinks          = "hiddenLinks"
	KeyShowFilter           = "showFilter"
	KeySelectedFriends      = "selectedFriends"
	KeyShowBlacklisted      = "showBlacklisted"
	KeyRowsPerPage          = "rowsPerPage"
	KeyQueryDateLimit       = "queryDateLimit"
	KeyNotificationsEnabled = "notificationsEnabled"
	KeyNotificationConfig   = "notificationConfig"
	KeyVisibleTags          = "visibleTags"
	KeyStrictlyFiltered     = "strictlyFilteredJobs"
	KeyToken                = "token"
	KeyUserID               = "userid"
)

const (
	DefaultTheme       = "light"
	DefaultRowsPerPage = 25
)

// Store — типизированный доступ к настройкам. Значения хранятся в JSON;
// отсутствие ключа или ошибка хранилища дают значение по умолчанию.
type Store struct {
	kv  domain.KVStore
	log zerolog.Logger
}

// New создаёт хранилище настроек.
func New(kv domain.KVStore, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

func get[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Debug().Err(err).Str("key", key).Msg("prefs: чтение не удалось")
		}
		return def
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("prefs: некорректное значение")
		return def
	}
	return out
}

func set[T any](ctx context.Context, s *Store, key string, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("prefs: запись не удалась")
	}
}

func (s *Store) Theme(ctx context.Context) string {
	return get(ctx, s, KeyTheme, DefaultTheme)
}

func (s *Store) SetTheme(ctx context.Context, theme string) {
	set(ctx, s, KeyTheme, theme)
}

// HiddenCategories возвращает скрытые категории. Старый ключ hiddenLinks
// читается, если новый ещё не записан.
func (s *Store) HiddenCategories(ctx context.Context) []string {
	if out := get[[]string](ctx, s, KeyHiddenCategories, nil); out != nil {
		return out
	}
	return get[[]string](ctx, s, KeyHiddenLinks, nil)
}

func (s *Store) SetHiddenCategories(ctx context.Context, categories []string) {
	if categories == nil {
		categories = []string{}
	}
	set(ctx, s, KeyHiddenCategories, categories)
}

func (s *Store) ShowFilter(ctx context.Context) bool {
	return get(ctx, s, KeyShowFilter, true)
}

func (s *Store) SetShowFilter(ctx context.Context, v bool) {
	set(ctx, s, KeyShowFilter, v)
}

func (s *Store) SelectedFriends(ctx context.Context) []string {
	return get[[]string](ctx, s, KeySelectedFriends, nil)
}

func (s *Store) SetSelectedFriends(ctx context.Context, ids []string) {
	set(ctx, s, KeySelectedFriends, ids)
}

func (s *Store) ShowBlacklisted(ctx context.Context) bool {
	return get(ctx, s, KeyShowBlacklisted, false)
}

func (s *Store) SetShowBlacklisted(ctx context.Context, v bool) {
	set(ctx, s, KeyShowBlacklisted, v)
}

// RowsPerPage возвращает размер страницы; неположительные значения заменяются умолчанием.
func (s *Store) RowsPerPage(ctx context.Context) int {
	n := get(ctx, s, KeyRowsPerPage, DefaultRowsPerPage)
	if n <= 0 {
		return DefaultRowsPerPage
	}
	return n
}

func (s *Store) SetRowsPerPage(ctx context.Context, n int) {
	set(ctx, s, KeyRowsPerPage, n)
}

// QueryDateLimits возвращает выбранные ограничения давности.
func (s *Store) QueryDateLimits(ctx context.Context) []int {
	return get(ctx, s, KeyQueryDateLimit, []int{domain.DateLimitAny})
}

func (s *Store) SetQueryDateLimits(ctx context.Context, limits []int) {
	set(ctx, s, KeyQueryDateLimit, limits)
}

func (s *Store) NotificationsEnabled(ctx context.Context) bool {
	return get(ctx, s, KeyNotificationsEnabled, false)
}

func (s *Store) SetNotificationsEnabled(ctx context.Context, v bool) {
	set(ctx, s, KeyNotificationsEnabled, v)
}

// NotificationConfig возвращает настройки уведомлений. Поле Enabled
// берётся из отдельного ключа notificationsEnabled.
func (s *Store) NotificationConfig(ctx context.Context) domain.NotificationConfig {
	cfg := get(ctx, s, KeyNotificationConfig, domain.NotificationConfig{})
	cfg.Enabled = s.NotificationsEnabled(ctx)
	return cfg
}

func (s *Store) SetNotificationConfig(ctx context.Context, cfg domain.NotificationConfig) {
	set(ctx, s, KeyNotificationConfig, cfg)
	s.SetNotificationsEnabled(ctx, cfg.Enabled)
}

// VisibleTags возвращает карту видимости тегов. Неизвестные имена
// отбрасываются, отсутствующие теги считаются видимыми.
func (s *Store) VisibleTags(ctx context.Context) map[domain.Tag]bool {
	out := domain.DefaultVisibleTags()
	stored := get[map[string]bool](ctx, s, KeyVisibleTags, nil)
	for name, visible := range stored {
		if tag, ok := domain.ParseTag(name); ok {
			out[tag] = visible
		}
	}
	return out
}

func (s *Store) SetVisibleTags(ctx context.Context, tags map[domain.Tag]bool) {
	raw := make(map[string]bool, len(tags))
	for tag, visible := range tags {
		raw[string(tag)] = visible
	}
	set(ctx, s, KeyVisibleTags, raw)
}

func (s *Store) StrictlyFiltered(ctx context.Context) bool {
	return get(ctx, s, KeyStrictlyFiltered, false)
}

func (s *Store) SetStrictlyFiltered(ctx context.Context, v bool) {
	set(ctx, s, KeyStrictlyFiltered, v)
}

// FilterConfig накладывает сохранённые настройки на базовую конфигурацию.
func (s *Store) FilterConfig(ctx context.Context, base domain.FilterConfig) domain.FilterConfig {
	cfg := base
	cfg.HiddenCategories = s.HiddenCategories(ctx)
	cfg.QueryDateLimits = s.QueryDateLimits(ctx)
	cfg.VisibleTags = s.VisibleTags(ctx)
	cfg.StrictlyFiltered = s.StrictlyFiltered(ctx)
	return cfg
}

// Session возвращает сохранённые токен и идентификатор пользователя.
func (s *Store) Session(ctx context.Context) (token, userID string) {
	return get(ctx, s, KeyToken, ""), get(ctx, s, KeyUserID, "")
}

// SetSession сохраняет сессию после входа.
func (s *Store) SetSession(ctx context.Context, token, userID string) {
	set(ctx, s, KeyToken, token)
	set(ctx, s, KeyUserID, userID)
}

// ClearSession удаляет сессию.
func (s *Store) ClearSession(ctx context.Context) {
	for _, key := range []string{KeyToken, KeyUserID} {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.log.Debug().Err(err).Str("key", key).Msg("prefs: удаление не удалось")
		}
	}
}
