package domain

import "strings"

// Tag — результат классификации вакансии.
type Tag string

const (
	TagEmailFound           Tag = "Email Found"
	TagRemoteJob            Tag = "Remote Job"
	TagNonRemoteJob         Tag = "Non Remote Job"
	TagOtherRelevant        Tag = "Other Relevant"
	TagLoginRequired        Tag = "Login Required"
	TagVerificationRequired Tag = "Verification Required"
	TagExpired              Tag = "Expired"
	TagIrrelevant           Tag = "Irrelevant"
)

// UnknownTagPriority получают теги вне фиксированного набора.
const UnknownTagPriority = 999

// strictTags перечисляет теги в порядке приоритета; позиция задаёт приоритет.
var strictTags = [...]Tag{
	TagEmailFound,
	TagRemoteJob,
	TagNonRemoteJob,
	TagOtherRelevant,
	TagLoginRequired,
	TagVerificationRequired,
	TagExpired,
	TagIrrelevant,
}

// StrictTags возвращает теги строгого режима в порядке приоритета.
func StrictTags() []Tag {
	out := make([]Tag, len(strictTags))
	copy(out, strictTags[:])
	return out
}

// Priority возвращает приоритет тега: меньше — выше в списке.
func (t Tag) Priority() int {
	for i, known := range strictTags {
		if known == t {
			return i + 1
		}
	}
	return UnknownTagPriority
}

// Strict сообщает, входит ли тег в фиксированный набор.
func (t Tag) Strict() bool {
	return t.Priority() != UnknownTagPriority
}

// ParseTag находит тег без учёта регистра и лишних пробелов.
func ParseTag(raw string) (Tag, bool) {
	candidate := strings.TrimSpace(raw)
	for _, known := range strictTags {
		if strings.EqualFold(string(known), candidate) {
			return known, true
		}
	}
	return "", false
}

// DefaultVisibleTags возвращает карту видимости, в которой включены все теги.
func DefaultVisibleTags() map[Tag]bool {
	out := make(map[Tag]bool, len(strictTags))
	for _, t := range strictTags {
		out[t] = true
	}
	return out
}
