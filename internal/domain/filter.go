package domain

// SortKey — поле сортировки списка ссылок.
type SortKey string

const (
	SortByConfidence SortKey = "confidence"
	SortByDate       SortKey = "date"
)

// SortOrder — направление сортировки.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Ownership — фильтр по автору ссылки.
type Ownership string

const (
	OwnershipAll  Ownership = "all"
	OwnershipMine Ownership = "mine"
)

// AllCategories выбирает ссылки всех категорий.
const AllCategories = "all"

const (
	// DateLimitAny совпадает с любым ограничением давности.
	DateLimitAny = -1
	// DateLimitUnset совпадает только со ссылками без ограничения.
	DateLimitUnset = 0
)

// ConfidenceRange — закрытый интервал уверенности.
type ConfidenceRange struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Contains проверяет попадание значения в интервал включительно.
func (r ConfidenceRange) Contains(v float64) bool {
	return v >= r.Lo && v <= r.Hi
}

// FilterConfig — всё, что влияет на видимый список ссылок.
type FilterConfig struct {
	SelectedDate     string
	SelectedCategory string
	SelectedQueries  []string
	QueryDateLimits  []int
	ConfidenceRange  ConfidenceRange
	SortBy           SortKey
	SortOrder        SortOrder
	StrictlyFiltered bool
	VisibleTags      map[Tag]bool
	HiddenCategories []string
	Ownership        Ownership
	CurrentUserID    string
}

// DefaultFilterConfig возвращает конфигурацию, которая ничего не скрывает.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		SelectedCategory: AllCategories,
		QueryDateLimits:  []int{DateLimitAny},
		ConfidenceRange:  ConfidenceRange{Lo: 0, Hi: 1},
		SortBy:           SortByConfidence,
		SortOrder:        SortDesc,
		VisibleTags:      DefaultVisibleTags(),
		Ownership:        OwnershipAll,
	}
}

// NotificationConfig задаёт, о каких новых ссылках сообщать.
type NotificationConfig struct {
	Enabled       bool     `json:"enabled"`
	MinConfidence float64  `json:"minConfidence"`
	Tags          []string `json:"tags,omitempty"`
	Categories    []string `json:"categories,omitempty"`
}
