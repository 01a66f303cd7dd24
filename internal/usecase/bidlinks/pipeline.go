package bidlinks

import (
	"sort"

	"bidboard/internal/domain"
)

// FilterAndSort возвращает видимое упорядоченное подмножество ссылок.
// Функция чистая: вход не изменяется, порядок входа на результат не влияет,
// кроме порядка равных элементов.
func FilterAndSort(links []domain.BidLink, cfg domain.FilterConfig) []domain.BidLink {
	if len(links) == 0 {
		return []domain.BidLink{}
	}
	m := newMatcher(cfg)
	out := make([]domain.BidLink, 0, len(links))
	for _, l := range links {
		if m.keep(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], cfg)
	})
	return out
}

type matcher struct {
	cfg     domain.FilterConfig
	hidden  map[string]struct{}
	queries map[string]struct{}
}

func newMatcher(cfg domain.FilterConfig) matcher {
	m := matcher{cfg: cfg, hidden: make(map[string]struct{}, len(cfg.HiddenCategories))}
	for _, c := range cfg.HiddenCategories {
		m.hidden[c] = struct{}{}
	}
	if len(cfg.SelectedQueries) > 0 {
		m.queries = make(map[string]struct{}, len(cfg.SelectedQueries))
		for _, q := range cfg.SelectedQueries {
			m.queries[q] = struct{}{}
		}
	}
	return m
}

func (m matcher) keep(l domain.BidLink) bool {
	category := l.Category()
	if _, hidden := m.hidden[category]; hidden {
		return false
	}
	if !matchDateLimit(l.QueryDateLimit, m.cfg.QueryDateLimits) {
		return false
	}
	if m.cfg.SelectedCategory != "" && m.cfg.SelectedCategory != domain.AllCategories && category != m.cfg.SelectedCategory {
		return false
	}
	if m.queries != nil {
		if _, ok := m.queries[l.QueryLink()]; !ok {
			return false
		}
	}
	if !m.cfg.ConfidenceRange.Contains(l.ConfidenceOrZero()) {
		return false
	}
	if m.cfg.Ownership == domain.OwnershipMine && l.CreatedBy != m.cfg.CurrentUserID {
		return false
	}
	if m.cfg.StrictlyFiltered {
		tag, ok := l.Tag()
		if !ok || !tag.Strict() || !m.cfg.VisibleTags[tag] {
			return false
		}
	}
	return true
}

// matchDateLimit: -1 совпадает с чем угодно, 0 только с отсутствующим
// ограничением, остальные значения требуют точного совпадения. Пустой выбор не
// ограничивает выборку.
func matchDateLimit(limit *int, selected []int) bool {
	if len(selected) == 0 {
		return true
	}
	for _, want := range selected {
		switch {
		case want == domain.DateLimitAny:
			return true
		case want == domain.DateLimitUnset:
			if limit == nil {
				return true
			}
		case limit != nil && *limit == want:
			return true
		}
	}
	return false
}

func less(a, b domain.BidLink, cfg domain.FilterConfig) bool {
	if cfg.StrictlyFiltered {
		pa, pb := tagPriority(a), tagPriority(b)
		if pa != pb {
			return pa < pb
		}
	}
	var cmp int
	switch cfg.SortBy {
	case domain.SortByDate:
		cmp = a.CreatedAt.Compare(b.CreatedAt)
	default:
		ca, cb := a.ConfidenceOrZero(), b.ConfidenceOrZero()
		switch {
		case ca < cb:
			cmp = -1
		case ca > cb:
			cmp = 1
		}
	}
	if cfg.SortOrder == domain.SortAsc {
		return cmp < 0
	}
	return cmp > 0
}

func tagPriority(l domain.BidLink) int {
	tag, ok := l.Tag()
	if !ok {
		return domain.UnknownTagPriority
	}
	return tag.Priority()
}

// DeduplicateByURL удаляет ссылки с одинаковым адресом, сохраняя первую.
func DeduplicateByURL(links []domain.BidLink) []domain.BidLink {
	seen := make(map[string]struct{}, len(links))
	out := make([]domain.BidLink, 0, len(links))
	for _, l := range links {
		key := l.URL
		if key == "" {
			key = l.ID
		}
		if key == "" {
			out = append(out, l)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}
