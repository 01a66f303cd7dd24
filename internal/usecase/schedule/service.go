package schedule

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"bidboard/internal/domain"
)

// ErrInvalidTimezone возвращается, если указан некорректный часовой пояс.
var ErrInvalidTimezone = errors.New("invalid timezone")

// CategorySource отдаёт список категорий сервера.
type CategorySource interface {
	Categories(ctx context.Context) ([]string, error)
}

// Service управляет запланированными поисками команды.
type Service struct {
	api        domain.ScheduleAPI
	categories CategorySource
	log        zerolog.Logger
	now        func() time.Time
}

// NewService создаёт сервис. categories может быть nil: тогда выбранные
// категории не сверяются со списком сервера.
func NewService(api domain.ScheduleAPI, categories CategorySource, log zerolog.Logger) *Service {
	return &Service{api: api, categories: categories, log: log, now: time.Now}
}

// List возвращает запланированные поиски.
func (s *Service) List(ctx context.Context) ([]domain.ScheduledSearch, error) {
	items, err := s.api.ListScheduledSearches(ctx)
	if err != nil {
		return nil, fmt.Errorf("загрузка расписаний: %w", err)
	}
	return items, nil
}

// Create проверяет расписание, подставляет время по умолчанию из названия
// команды и сохраняет поиск.
func (s *Service) Create(ctx context.Context, ss domain.ScheduledSearch) (domain.ScheduledSearch, error) {
	ss = withDefaults(ss)
	if err := s.validate(ctx, ss); err != nil {
		return domain.ScheduledSearch{}, err
	}
	created, err := s.api.CreateScheduledSearch(ctx, ss)
	if err != nil {
		return domain.ScheduledSearch{}, fmt.Errorf("создание расписания: %w", err)
	}
	s.log.Info().Str("id", created.ID).Str("frequency", string(created.Schedule.Frequency)).Msg("schedule: расписание создано")
	return created, nil
}

// Update сохраняет изменённое расписание и возвращает актуальную версию с сервера.
func (s *Service) Update(ctx context.Context, ss domain.ScheduledSearch) (domain.ScheduledSearch, error) {
	if strings.TrimSpace(ss.ID) == "" {
		return domain.ScheduledSearch{}, fmt.Errorf("%w: не указан id", domain.ErrInvalidSchedule)
	}
	ss = withDefaults(ss)
	if err := s.validate(ctx, ss); err != nil {
		return domain.ScheduledSearch{}, err
	}
	if _, err := s.api.UpdateScheduledSearch(ctx, ss); err != nil {
		return domain.ScheduledSearch{}, fmt.Errorf("обновление расписания: %w", err)
	}
	fresh, err := s.api.GetScheduledSearch(ctx, ss.ID)
	if err != nil {
		return domain.ScheduledSearch{}, fmt.Errorf("перечитывание расписания: %w", err)
	}
	return fresh, nil
}

func (s *Service) validate(ctx context.Context, ss domain.ScheduledSearch) error {
	if err := Validate(ss.Schedule); err != nil {
		return err
	}
	var known []string
	if s.categories != nil && ss.Settings.CategoryType == domain.CategoryTypeSpecific {
		list, err := s.categories.Categories(ctx)
		if err != nil {
			return fmt.Errorf("загрузка категорий: %w", err)
		}
		known = list
	}
	return ValidateSettings(ss.Settings, known)
}

// Delete удаляет расписание.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteScheduledSearch(ctx, id); err != nil {
		return fmt.Errorf("удаление расписания: %w", err)
	}
	return nil
}

// Trigger запускает поиск немедленно и возвращает количество найденных вакансий.
func (s *Service) Trigger(ctx context.Context, id string) (int, error) {
	found, err := s.api.TriggerSearch(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("запуск поиска: %w", err)
	}
	return found, nil
}

// Describe формирует строку состояния для отображения. tz задаёт
// дополнительный часовой пояс пользователя; при пустом значении выводится только UTC.
func (s *Service) Describe(ss domain.ScheduledSearch, tz string) (string, error) {
	now := s.now()
	if ss.Running() && ss.StartTime != nil {
		line := "выполняется " + FormatElapsed(*ss.StartTime, now)
		if ss.Progress != nil {
			line += fmt.Sprintf(" (%d/%d, %.0f%%)", ss.Progress.Current, ss.Progress.Total, ss.Progress.Percentage)
		}
		return line, nil
	}
	next, ok := Preview(ss, now)
	if !ok {
		return "следующий запуск неизвестен", nil
	}
	line := "следующий запуск " + FormatUTC(next)
	if strings.TrimSpace(tz) == "" {
		return line, nil
	}
	local, err := FormatIn(next, tz)
	if err != nil {
		return "", err
	}
	return line + " (" + local + ")", nil
}

// FormatIn форматирует момент в часовом поясе пользователя.
func FormatIn(t time.Time, tz string) (string, error) {
	loc, err := LoadTimezone(tz)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(displayLayout) + " " + loc.String(), nil
}

func withDefaults(ss domain.ScheduledSearch) domain.ScheduledSearch {
	if ss.Schedule.Frequency != domain.FrequencyHourly && strings.TrimSpace(ss.Schedule.Time) == "" {
		name := ss.TeamName
		if name == "" {
			name = ss.Name
		}
		ss.Schedule.Time = DefaultTime(name)
	}
	if ss.Settings.CategoryType == "" {
		ss.Settings.CategoryType = domain.CategoryTypeAll
	}
	if ss.Settings.CategoryType == domain.CategoryTypeAll {
		ss.Settings.Categories = []string{domain.AllCategories}
	}
	return ss
}

var offsetPattern = regexp.MustCompile(`^(?i)(?:utc|gmt)([+-])(\d{1,2})(?::?(\d{2}))?$`)

// LoadTimezone принимает IANA-имя без учёта регистра ("europe/berlin",
// "America/New York"), UTC или смещение вида UTC+3, GMT-05:30.
func LoadTimezone(raw string) (*time.Location, error) {
	name := strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")
	switch {
	case name == "":
		return nil, ErrInvalidTimezone
	case strings.EqualFold(name, "UTC"), strings.EqualFold(name, "GMT"):
		return time.UTC, nil
	}
	if m := offsetPattern.FindStringSubmatch(name); m != nil {
		return fixedOffset(m[1], m[2], m[3])
	}
	for _, candidate := range []string{name, titleZone(name)} {
		if loc, err := time.LoadLocation(candidate); err == nil {
			return loc, nil
		}
	}
	return nil, ErrInvalidTimezone
}

func fixedOffset(sign, hours, minutes string) (*time.Location, error) {
	h, _ := strconv.Atoi(hours)
	m := 0
	if minutes != "" {
		m, _ = strconv.Atoi(minutes)
	}
	if h > 14 || m > 59 {
		return nil, ErrInvalidTimezone
	}
	offset := h*3600 + m*60
	if sign == "-" {
		offset = -offset
	}
	return time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", sign, h, m), offset), nil
}

// titleZone приводит имя к виду базы tzdata: заглавная буква в начале
// каждого сегмента между "/", "_" и "-".
func titleZone(name string) string {
	out := []rune(strings.ToLower(name))
	upper := true
	for i, r := range out {
		if upper {
			out[i] = unicode.ToUpper(r)
		}
		upper = r == '/' || r == '_' || r == '-'
	}
	return string(out)
}
