// Package analytics перестраивает агрегаты сервера в таблицы для отображения.
// Сама агрегация остаётся на сервере.
package analytics

import (
	"sort"

	"bidboard/internal/domain"
)

// Table — широкая таблица: строка на дату, столбец на ряд.
type Table struct {
	Dates  []string
	Series []string
	// Values[i][j] — значение ряда Series[j] на дату Dates[i].
	Values [][]float64
}

// Pivot группирует строки по дате. Даты и ряды отсортированы, пропуски
// заполняются нулём, повторы суммируются.
func Pivot(rows []domain.AnalyticsRow) Table {
	dateIdx := make(map[string]int)
	seriesIdx := make(map[string]int)
	var dates, series []string
	for _, r := range rows {
		if _, ok := dateIdx[r.Date]; !ok {
			dateIdx[r.Date] = 0
			dates = append(dates, r.Date)
		}
		if _, ok := seriesIdx[r.Series]; !ok {
			seriesIdx[r.Series] = 0
			series = append(series, r.Series)
		}
	}
	sort.Strings(dates)
	sort.Strings(series)
	for i, d := range dates {
		dateIdx[d] = i
	}
	for j, s := range series {
		seriesIdx[s] = j
	}

	values := make([][]float64, len(dates))
	for i := range values {
		values[i] = make([]float64, len(series))
	}
	for _, r := range rows {
		values[dateIdx[r.Date]][seriesIdx[r.Series]] += r.Value
	}
	return Table{Dates: dates, Series: series, Values: values}
}

// Totals возвращает сумму по каждому ряду.
func (t Table) Totals() []float64 {
	out := make([]float64, len(t.Series))
	for _, row := range t.Values {
		for j, v := range row {
			out[j] += v
		}
	}
	return out
}
