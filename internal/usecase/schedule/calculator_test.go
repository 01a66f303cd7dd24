package schedule

import (
	"errors"
	"testing"
	"time"

	"bidboard/internal/domain"
)

func utc(y int, m time.Month, d, h, mi int) time.Time {
	return time.Date(y, m, d, h, mi, 0, 0, time.UTC)
}

func TestNextRun(t *testing.T) {
	// 2026-10-14 — среда.
	now := utc(2026, 10, 14, 10, 0)
	tests := []struct {
		name     string
		schedule domain.Schedule
		now      time.Time
		want     time.Time
	}{
		{
			name:     "daily later today",
			schedule: domain.Schedule{Frequency: domain.FrequencyDaily, Time: "14:30"},
			now:      now,
			want:     utc(2026, 10, 14, 14, 30),
		},
		{
			name:     "daily rolls to tomorrow",
			schedule: domain.Schedule{Frequency: domain.FrequencyDaily, Time: "09:00"},
			now:      now,
			want:     utc(2026, 10, 15, 9, 0),
		},
		{
			name:     "daily exact minute is inclusive",
			schedule: domain.Schedule{Frequency: domain.FrequencyDaily, Time: "10:00"},
			now:      now,
			want:     now,
		},
		{
			name:     "weekly today before time",
			schedule: domain.Schedule{Frequency: domain.FrequencyWeekly, Time: "12:00", DaysOfWeek: []int{3}},
			now:      now,
			want:     utc(2026, 10, 14, 12, 0),
		},
		{
			name:     "weekly next matching day",
			schedule: domain.Schedule{Frequency: domain.FrequencyWeekly, Time: "08:00", DaysOfWeek: []int{5, 1}},
			now:      now,
			want:     utc(2026, 10, 16, 8, 0),
		},
		{
			name:     "weekly wraps to next week",
			schedule: domain.Schedule{Frequency: domain.FrequencyWeekly, Time: "08:00", DaysOfWeek: []int{3}},
			now:      now,
			want:     utc(2026, 10, 21, 8, 0),
		},
		{
			name:     "monthly this month",
			schedule: domain.Schedule{Frequency: domain.FrequencyMonthly, Time: "06:00", DayOfMonth: 20},
			now:      now,
			want:     utc(2026, 10, 20, 6, 0),
		},
		{
			name:     "monthly rolls to next month",
			schedule: domain.Schedule{Frequency: domain.FrequencyMonthly, Time: "06:00", DayOfMonth: 1},
			now:      now,
			want:     utc(2026, 11, 1, 6, 0),
		},
		{
			name:     "monthly clamps to last day",
			schedule: domain.Schedule{Frequency: domain.FrequencyMonthly, Time: "06:00", DayOfMonth: 31},
			now:      utc(2026, 11, 5, 0, 0),
			want:     utc(2026, 11, 30, 6, 0),
		},
		{
			name:     "monthly across year boundary",
			schedule: domain.Schedule{Frequency: domain.FrequencyMonthly, Time: "06:00", DayOfMonth: 31},
			now:      utc(2026, 12, 31, 7, 0),
			want:     utc(2027, 1, 31, 6, 0),
		},
		{
			name:     "monthly february",
			schedule: domain.Schedule{Frequency: domain.FrequencyMonthly, Time: "00:00", DayOfMonth: 30},
			now:      utc(2027, 2, 1, 0, 0),
			want:     utc(2027, 2, 28, 0, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(tt.schedule, tt.now)
			if err != nil {
				t.Fatalf("не ожидали ошибку: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("NextRun() = %s, want %s", got, tt.want)
			}
			if got.Before(tt.now) {
				t.Fatalf("следующий запуск раньше now")
			}
		})
	}
}

func TestNextRunHourlyIsServerComputed(t *testing.T) {
	_, err := NextRun(domain.Schedule{Frequency: domain.FrequencyHourly, HourInterval: 4}, time.Now())
	if !errors.Is(err, domain.ErrServerComputed) {
		t.Fatalf("ожидали ErrServerComputed, получили %v", err)
	}
}

func TestPreviewUsesServerValueForHourly(t *testing.T) {
	server := utc(2026, 10, 14, 16, 0)
	ss := domain.ScheduledSearch{
		Schedule: domain.Schedule{Frequency: domain.FrequencyHourly, HourInterval: 4},
		NextRun:  &server,
	}
	got, ok := Preview(ss, utc(2026, 10, 14, 10, 0))
	if !ok || !got.Equal(server) {
		t.Fatalf("ожидали значение сервера, получили %s", got)
	}
}

func TestValidate(t *testing.T) {
	invalid := []domain.Schedule{
		{Frequency: "yearly", Time: "10:00"},
		{Frequency: domain.FrequencyDaily, Time: "25:00"},
		{Frequency: domain.FrequencyDaily, Time: "10-00"},
		{Frequency: domain.FrequencyWeekly, Time: "10:00"},
		{Frequency: domain.FrequencyWeekly, Time: "10:00", DaysOfWeek: []int{7}},
		{Frequency: domain.FrequencyMonthly, Time: "10:00", DayOfMonth: 0},
		{Frequency: domain.FrequencyHourly, HourInterval: 0},
		{Frequency: domain.FrequencyHourly, HourInterval: 25},
	}
	for _, s := range invalid {
		if err := Validate(s); !errors.Is(err, domain.ErrInvalidSchedule) {
			t.Fatalf("ожидали ErrInvalidSchedule для %+v, получили %v", s, err)
		}
	}
}

func TestValidateSettings(t *testing.T) {
	known := []string{"Golang", "Rust"}
	all := []string{domain.AllCategories}
	cases := []struct {
		name     string
		settings domain.SearchSettings
		want     error
	}{
		{"все окна", domain.SearchSettings{TimeUnits: []string{"d", "w", "m", "y", ""}, CategoryType: domain.CategoryTypeAll, Categories: all}, nil},
		{"конкретные категории", domain.SearchSettings{TimeUnits: []string{"d"}, CategoryType: domain.CategoryTypeSpecific, Categories: []string{"golang"}}, nil},
		{"полное имя окна", domain.SearchSettings{TimeUnits: []string{"day"}, CategoryType: domain.CategoryTypeAll, Categories: all}, domain.ErrInvalidSchedule},
		{"all с лишним", domain.SearchSettings{CategoryType: domain.CategoryTypeAll, Categories: []string{"all", "Rust"}}, domain.ErrInvalidSchedule},
		{"пустой specific", domain.SearchSettings{CategoryType: domain.CategoryTypeSpecific}, domain.ErrInvalidSchedule},
		{"all внутри specific", domain.SearchSettings{CategoryType: domain.CategoryTypeSpecific, Categories: []string{"all"}}, domain.ErrInvalidSchedule},
		{"неизвестный тип", domain.SearchSettings{CategoryType: "some", Categories: all}, domain.ErrInvalidSchedule},
		{"неизвестная категория", domain.SearchSettings{CategoryType: domain.CategoryTypeSpecific, Categories: []string{"Cobol"}}, domain.ErrUnknownCategory},
	}
	for _, tc := range cases {
		err := ValidateSettings(tc.settings, known)
		if tc.want == nil && err != nil {
			t.Fatalf("%s: не ожидали ошибку: %v", tc.name, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("%s: ожидали %v, получили %v", tc.name, tc.want, err)
		}
	}

	if err := ValidateSettings(domain.SearchSettings{CategoryType: domain.CategoryTypeSpecific, Categories: []string{"Cobol"}}, nil); err != nil {
		t.Fatalf("без списка сервера категории не сверяются: %v", err)
	}
}

func TestDefaultTime(t *testing.T) {
	first := DefaultTime("teamA")
	if first != DefaultTime("teamA") {
		t.Fatalf("время по умолчанию должно быть детерминированным")
	}
	// 't'+'e'+'a'+'m' = 116+101+97+109 = 423; +'A'(65) = 488 -> 8, +'B'(66) = 489 -> 9.
	if first != "08:00" {
		t.Fatalf("ожидали 08:00, получили %s", first)
	}
	if got := DefaultTime("teamB"); got != "09:00" {
		t.Fatalf("ожидали 09:00, получили %s", got)
	}
	if got := DefaultTime(""); got != "00:00" {
		t.Fatalf("ожидали 00:00 для пустого имени, получили %s", got)
	}
}

func TestFormatUTCAndElapsed(t *testing.T) {
	if got := FormatUTC(utc(2026, 10, 14, 14, 5)); got != "Oct 14, 2026, 2:05 PM UTC" {
		t.Fatalf("неожиданный формат: %s", got)
	}
	start := utc(2026, 10, 14, 10, 0)
	m, s := Elapsed(start, start.Add(3*time.Minute+7*time.Second))
	if m != 3 || s != 7 {
		t.Fatalf("ожидали 3m 7s, получили %dm %ds", m, s)
	}
	if got := FormatElapsed(start, start.Add(-time.Second)); got != "0m 0s" {
		t.Fatalf("отрицательное время должно давать 0m 0s, получили %s", got)
	}
}
