package bidlinks

import (
	"testing"
	"time"

	"bidboard/internal/domain"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func link(id string, confidence float64) domain.BidLink {
	return domain.BidLink{
		ID:         id,
		URL:        "https://jobs.example.com/" + id,
		Confidence: ptrFloat(confidence),
		Query:      &domain.QueryRef{Link: "linkedin", Category: "backend"},
		CreatedAt:  time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func tagged(id string, tag domain.Tag, confidence float64) domain.BidLink {
	l := link(id, confidence)
	l.FinalDetails = &domain.FinalDetails{Tag: string(tag)}
	return l
}

func ids(links []domain.BidLink) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterAndSortConfidenceDesc(t *testing.T) {
	links := []domain.BidLink{link("a", 0.9), link("b", 0.4), link("c", 0.7)}
	cfg := domain.DefaultFilterConfig()
	cfg.ConfidenceRange = domain.ConfidenceRange{Lo: 0.3, Hi: 1}

	got := FilterAndSort(links, cfg)
	if want := []string{"a", "c", "b"}; !equalIDs(ids(got), want) {
		t.Fatalf("ожидали порядок %v, получили %v", want, ids(got))
	}
}

func TestFilterAndSortEmptyInput(t *testing.T) {
	got := FilterAndSort(nil, domain.DefaultFilterConfig())
	if got == nil || len(got) != 0 {
		t.Fatalf("ожидали пустой срез, получили %v", got)
	}
}

func TestFilterAndSortDateLimit(t *testing.T) {
	l := link("a", 0.5)
	l.QueryDateLimit = nil

	tests := []struct {
		name     string
		selected []int
		limit    *int
		want     bool
	}{
		{name: "unset matches zero", selected: []int{0}, limit: nil, want: true},
		{name: "unset does not match exact", selected: []int{1}, limit: nil, want: false},
		{name: "any matches unset", selected: []int{-1}, limit: nil, want: true},
		{name: "any matches value", selected: []int{-1}, limit: ptrInt(7), want: true},
		{name: "exact value", selected: []int{1, 7}, limit: ptrInt(7), want: true},
		{name: "zero does not match value", selected: []int{0}, limit: ptrInt(7), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := l
			in.QueryDateLimit = tt.limit
			cfg := domain.DefaultFilterConfig()
			cfg.QueryDateLimits = tt.selected
			got := len(FilterAndSort([]domain.BidLink{in}, cfg)) == 1
			if got != tt.want {
				t.Fatalf("ожидали %v, получили %v", tt.want, got)
			}
		})
	}
}

func TestFilterAndSortCategories(t *testing.T) {
	orphan := link("orphan", 0.5)
	orphan.Query = nil
	frontend := link("front", 0.6)
	frontend.Query = &domain.QueryRef{Link: "indeed", Category: "frontend"}
	links := []domain.BidLink{link("back", 0.7), frontend, orphan}

	cfg := domain.DefaultFilterConfig()
	cfg.HiddenCategories = []string{"frontend"}
	if got := ids(FilterAndSort(links, cfg)); !equalIDs(got, []string{"back", "orphan"}) {
		t.Fatalf("скрытая категория должна отфильтроваться, получили %v", got)
	}

	cfg = domain.DefaultFilterConfig()
	cfg.HiddenCategories = []string{domain.UncategorizedCategory}
	if got := ids(FilterAndSort(links, cfg)); !equalIDs(got, []string{"back", "front"}) {
		t.Fatalf("ссылки без категории должны скрываться как uncategorized, получили %v", got)
	}

	cfg = domain.DefaultFilterConfig()
	cfg.SelectedCategory = "frontend"
	if got := ids(FilterAndSort(links, cfg)); !equalIDs(got, []string{"front"}) {
		t.Fatalf("ожидали только frontend, получили %v", got)
	}

	cfg = domain.DefaultFilterConfig()
	cfg.SelectedQueries = []string{"indeed"}
	if got := ids(FilterAndSort(links, cfg)); !equalIDs(got, []string{"front"}) {
		t.Fatalf("ожидали только запрос indeed, получили %v", got)
	}
}

func TestFilterAndSortOwnership(t *testing.T) {
	mine := link("mine", 0.2)
	mine.CreatedBy = "u1"
	theirs := link("theirs", 0.9)
	theirs.CreatedBy = "u2"

	cfg := domain.DefaultFilterConfig()
	cfg.Ownership = domain.OwnershipMine
	cfg.CurrentUserID = "u1"
	if got := ids(FilterAndSort([]domain.BidLink{mine, theirs}, cfg)); !equalIDs(got, []string{"mine"}) {
		t.Fatalf("ожидали только свои ссылки, получили %v", got)
	}
}

func TestFilterAndSortStrictMode(t *testing.T) {
	links := []domain.BidLink{
		tagged("remote", domain.TagRemoteJob, 0.9),
		tagged("email-low", domain.TagEmailFound, 0.2),
		tagged("email-high", domain.TagEmailFound, 0.8),
		tagged("weird", domain.Tag("Something Else"), 1),
		tagged("expired", domain.TagExpired, 0.99),
		link("untagged", 1),
	}
	cfg := domain.DefaultFilterConfig()
	cfg.StrictlyFiltered = true
	cfg.VisibleTags[domain.TagExpired] = false

	got := FilterAndSort(links, cfg)
	want := []string{"email-high", "email-low", "remote"}
	if !equalIDs(ids(got), want) {
		t.Fatalf("ожидали %v, получили %v", want, ids(got))
	}
	for _, l := range got {
		tag, ok := l.Tag()
		if !ok || !tag.Strict() || !cfg.VisibleTags[tag] {
			t.Fatalf("в строгом режиме прошла ссылка %s с тегом %q", l.ID, tag)
		}
	}
}

func TestFilterAndSortByDateAsc(t *testing.T) {
	older := link("older", 0.1)
	older.CreatedAt = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	newer := link("newer", 0.9)
	newer.CreatedAt = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	cfg := domain.DefaultFilterConfig()
	cfg.SortBy = domain.SortByDate
	cfg.SortOrder = domain.SortAsc
	if got := ids(FilterAndSort([]domain.BidLink{newer, older}, cfg)); !equalIDs(got, []string{"older", "newer"}) {
		t.Fatalf("ожидали сортировку по дате, получили %v", got)
	}
}

func TestFilterAndSortProperties(t *testing.T) {
	var links []domain.BidLink
	tags := domain.StrictTags()
	for i := 0; i < 40; i++ {
		l := tagged(string(rune('a'+i%26))+string(rune('a'+i/26)), tags[i%len(tags)], float64(i%10)/10)
		if i%7 == 0 {
			l.Confidence = nil
		}
		if i%5 == 0 {
			l.FinalDetails = nil
		}
		links = append(links, l)
	}

	configs := map[string]domain.FilterConfig{}
	plain := domain.DefaultFilterConfig()
	plain.ConfidenceRange = domain.ConfidenceRange{Lo: 0.2, Hi: 0.8}
	configs["plain"] = plain
	strict := domain.DefaultFilterConfig()
	strict.StrictlyFiltered = true
	strict.VisibleTags[domain.TagIrrelevant] = false
	configs["strict"] = strict

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			once := FilterAndSort(links, cfg)
			twice := FilterAndSort(once, cfg)
			if !equalIDs(ids(once), ids(twice)) {
				t.Fatalf("повторная фильтрация изменила результат")
			}
			for i, l := range once {
				if c := l.ConfidenceOrZero(); c < cfg.ConfidenceRange.Lo || c > cfg.ConfidenceRange.Hi {
					t.Fatalf("уверенность %v вне диапазона", c)
				}
				if i == 0 || cfg.StrictlyFiltered {
					continue
				}
				if once[i-1].ConfidenceOrZero() < l.ConfidenceOrZero() {
					t.Fatalf("нарушен порядок по убыванию на позиции %d", i)
				}
			}
		})
	}
}

func TestDeduplicateByURL(t *testing.T) {
	links := []domain.BidLink{
		{ID: "1", URL: "https://a"},
		{ID: "2", URL: "https://a"},
		{ID: "3", URL: "https://b"},
		{ID: "4"},
	}
	if got := DeduplicateByURL(links); len(got) != 3 {
		t.Fatalf("ожидали 3 ссылки, получили %d", len(got))
	}
}
