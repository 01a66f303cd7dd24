package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/robfig/cron/v3"

	"bidboard/internal/domain"
)

// displayLayout — формат отображения времени следующего запуска.
const displayLayout = "Jan 2, 2006, 3:04 PM"

// NextRun вычисляет ближайший момент >= now, удовлетворяющий расписанию.
// Для hourly время запуска считает только сервер, возвращается ErrServerComputed.
func NextRun(s domain.Schedule, now time.Time) (time.Time, error) {
	if err := Validate(s); err != nil {
		return time.Time{}, err
	}
	now = now.UTC()
	switch s.Frequency {
	case domain.FrequencyHourly:
		return time.Time{}, domain.ErrServerComputed
	case domain.FrequencyMonthly:
		return nextMonthly(s, now), nil
	}
	spec, err := cronSpec(s)
	if err != nil {
		return time.Time{}, err
	}
	parsed, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidSchedule, err)
	}
	// cron ищет момент строго после аргумента, поэтому отступаем на наносекунду,
	// чтобы текущая минута тоже считалась.
	return parsed.Next(now.Add(-time.Nanosecond)).UTC(), nil
}

// Preview возвращает время следующего запуска для отображения: для hourly
// берётся значение сервера, для остальных частот вычисленное локально.
func Preview(ss domain.ScheduledSearch, now time.Time) (time.Time, bool) {
	if ss.Schedule.Frequency == domain.FrequencyHourly {
		if ss.NextRun == nil {
			return time.Time{}, false
		}
		return ss.NextRun.UTC(), true
	}
	next, err := NextRun(ss.Schedule, now)
	if err != nil {
		if ss.NextRun != nil {
			return ss.NextRun.UTC(), true
		}
		return time.Time{}, false
	}
	return next, true
}

func cronSpec(s domain.Schedule) (string, error) {
	hour, minute, err := parseClock(s.Time)
	if err != nil {
		return "", err
	}
	dow := "*"
	if s.Frequency == domain.FrequencyWeekly {
		days := append([]int(nil), s.DaysOfWeek...)
		sort.Ints(days)
		parts := make([]string, 0, len(days))
		for _, d := range days {
			parts = append(parts, strconv.Itoa(d))
		}
		dow = strings.Join(parts, ",")
	}
	return fmt.Sprintf("CRON_TZ=UTC %d %d * * %s", minute, hour, dow), nil
}

// nextMonthly: если в месяце меньше дней, чем dayOfMonth, запуск переносится
// на последний день месяца.
func nextMonthly(s domain.Schedule, now time.Time) time.Time {
	hour, minute, _ := parseClock(s.Time)
	day := clamp(s.DayOfMonth, 1, 31)
	year, month, _ := now.Date()
	candidate := monthlyAt(year, month, day, hour, minute)
	if candidate.Before(now) {
		candidate = monthlyAt(year, month+1, day, hour, minute)
	}
	return candidate
}

func monthlyAt(year int, month time.Month, day, hour, minute int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, minute, 0, 0, time.UTC)
}

// Validate проверяет поля, значимые для частоты расписания.
func Validate(s domain.Schedule) error {
	switch s.Frequency {
	case domain.FrequencyHourly:
		if s.HourInterval < 1 || s.HourInterval > 24 {
			return fmt.Errorf("%w: hourInterval должен быть от 1 до 24", domain.ErrInvalidSchedule)
		}
		return nil
	case domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly:
	default:
		return fmt.Errorf("%w: неизвестная частота %q", domain.ErrInvalidSchedule, s.Frequency)
	}
	if _, _, err := parseClock(s.Time); err != nil {
		return err
	}
	if s.Frequency == domain.FrequencyWeekly {
		if len(s.DaysOfWeek) == 0 {
			return fmt.Errorf("%w: не выбраны дни недели", domain.ErrInvalidSchedule)
		}
		for _, d := range s.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: день недели %d вне диапазона 0..6", domain.ErrInvalidSchedule, d)
			}
		}
	}
	if s.Frequency == domain.FrequencyMonthly && (s.DayOfMonth < 1 || s.DayOfMonth > 31) {
		return fmt.Errorf("%w: dayOfMonth должен быть от 1 до 31", domain.ErrInvalidSchedule)
	}
	return nil
}

// timeUnits — допустимые окна поиска; пустая строка снимает ограничение.
var timeUnits = map[string]bool{"d": true, "w": true, "m": true, "y": true, "": true}

// ValidateSettings проверяет параметры запуска. known — категории сервера;
// при nil состав категорий не сверяется.
func ValidateSettings(s domain.SearchSettings, known []string) error {
	for _, u := range s.TimeUnits {
		if !timeUnits[u] {
			return fmt.Errorf("%w: неизвестное окно поиска %q, допустимы d, w, m, y", domain.ErrInvalidSchedule, u)
		}
	}
	switch s.CategoryType {
	case domain.CategoryTypeAll:
		if len(s.Categories) != 1 || s.Categories[0] != domain.AllCategories {
			return fmt.Errorf("%w: для categoryType=all список категорий должен быть [all]", domain.ErrInvalidSchedule)
		}
		return nil
	case domain.CategoryTypeSpecific:
	default:
		return fmt.Errorf("%w: неизвестный categoryType %q", domain.ErrInvalidSchedule, s.CategoryType)
	}
	if len(s.Categories) == 0 {
		return fmt.Errorf("%w: не выбраны категории", domain.ErrInvalidSchedule)
	}
	for _, c := range s.Categories {
		if c == domain.AllCategories {
			return fmt.Errorf("%w: all нельзя смешивать с конкретными категориями", domain.ErrInvalidSchedule)
		}
		if known != nil && !containsFold(known, c) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, c)
		}
	}
	return nil
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func parseClock(raw string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: время %q не в формате HH:MM", domain.ErrInvalidSchedule, raw)
	}
	return t.Hour(), t.Minute(), nil
}

// DefaultTime выводит время запуска по умолчанию из названия команды:
// сумма UTF-16 кодов символов по модулю 24 даёт час.
func DefaultTime(teamName string) string {
	sum := 0
	for _, unit := range utf16.Encode([]rune(teamName)) {
		sum += int(unit)
	}
	return fmt.Sprintf("%02d:00", sum%24)
}

// FormatUTC форматирует момент в UTC с явной пометкой.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(displayLayout) + " UTC"
}

// Elapsed возвращает минуты и секунды, прошедшие с начала запуска.
func Elapsed(start, now time.Time) (minutes, seconds int) {
	d := now.Sub(start)
	if d < 0 {
		return 0, 0
	}
	total := int(d / time.Second)
	return total / 60, total % 60
}

// FormatElapsed форматирует прошедшее время как "Xm Ys".
func FormatElapsed(start, now time.Time) string {
	m, s := Elapsed(start, now)
	return fmt.Sprintf("%dm %ds", m, s)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
