package notify

import (
	"fmt"
	"html"
	"strings"

	"bidboard/internal/domain"
)

// FormatNotification формирует HTML-текст уведомления для Telegram.
func FormatNotification(job domain.NotificationJob) string {
	switch job.Cause {
	case domain.NotificationCauseSearchDone:
		return formatSearchDone(job)
	default:
		return formatNewLink(job)
	}
}

func formatNewLink(job domain.NotificationJob) string {
	var b strings.Builder
	b.WriteString("🆕 <b>Новая вакансия</b>\n")

	title := escapeHTML(strings.TrimSpace(job.Title))
	if title == "" {
		title = "Без названия"
	}
	if url := strings.TrimSpace(job.URL); url != "" {
		title = fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(url), title)
	}
	b.WriteString(title)

	company := strings.TrimSpace(job.Company)
	if company == "" {
		company = "N/A"
	}
	b.WriteString("\n🏢 " + escapeHTML(company))
	if tag := strings.TrimSpace(job.Tag); tag != "" {
		b.WriteString("\n🏷 " + escapeHTML(tag))
	}
	b.WriteString(fmt.Sprintf("\n📈 Уверенность: %.0f%%", job.Confidence*100))
	return b.String()
}

func formatSearchDone(job domain.NotificationJob) string {
	name := escapeHTML(strings.TrimSpace(job.Title))
	if name == "" {
		name = "Поиск по расписанию"
	}
	return fmt.Sprintf("✅ <b>%s</b> завершён\nВыполнено шагов: %d", name, job.JobsFound)
}

func escapeHTML(s string) string {
	return html.EscapeString(s)
}
