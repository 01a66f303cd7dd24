package domain

import (
	"strings"
	"time"
)

// UncategorizedCategory используется для ссылок без поискового запроса.
const UncategorizedCategory = "uncategorized"

// SentinelQueryLink помечает служебный запрос, который не показывается в списках.
const SentinelQueryLink = "web3Jobsites"

// BidLink описывает найденную вакансию, на которую можно откликнуться.
type BidLink struct {
	ID             string        `json:"_id"`
	Title          string        `json:"title"`
	URL            string        `json:"url"`
	Description    string        `json:"description,omitempty"`
	Company        string        `json:"company,omitempty"`
	Date           string        `json:"date,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	CreatedBy      string        `json:"created_by,omitempty"`
	Confidence     *float64      `json:"confidence,omitempty"`
	Query          *QueryRef     `json:"queryId,omitempty"`
	QueryDateLimit *int          `json:"queryDateLimit"`
	FinalDetails   *FinalDetails `json:"final_details,omitempty"`
}

// QueryRef — развёрнутая ссылка на поисковый запрос, породивший вакансию.
type QueryRef struct {
	ID       string `json:"_id,omitempty"`
	Link     string `json:"link"`
	Category string `json:"category"`
}

// FinalDetails содержит результат классификации вакансии.
type FinalDetails struct {
	Tag                string             `json:"tag,omitempty"`
	FinalURL           string             `json:"finalUrl,omitempty"`
	ApplicationMethods ApplicationMethods `json:"applicationMethods"`
}

// ApplicationMethods описывает способы отклика.
type ApplicationMethods struct {
	ApplicationEmail string `json:"applicationEmail,omitempty"`
}

// ConfidenceOrZero возвращает уверенность ранжирования или 0.
func (l BidLink) ConfidenceOrZero() float64 {
	if l.Confidence == nil {
		return 0
	}
	return *l.Confidence
}

// CompanyOrNA возвращает компанию или "N/A".
func (l BidLink) CompanyOrNA() string {
	if c := strings.TrimSpace(l.Company); c != "" {
		return c
	}
	return "N/A"
}

// Category возвращает категорию запроса; ссылки без запроса попадают в UncategorizedCategory.
func (l BidLink) Category() string {
	if l.Query == nil || strings.TrimSpace(l.Query.Category) == "" {
		return UncategorizedCategory
	}
	return l.Query.Category
}

// QueryLink возвращает ссылку поискового запроса или пустую строку.
func (l BidLink) QueryLink() string {
	if l.Query == nil {
		return ""
	}
	return l.Query.Link
}

// Tag возвращает тег классификации, если он есть.
func (l BidLink) Tag() (Tag, bool) {
	if l.FinalDetails == nil || l.FinalDetails.Tag == "" {
		return "", false
	}
	return Tag(l.FinalDetails.Tag), true
}

// SearchRun описывает одно выполнение поискового запроса.
type SearchRun struct {
	Date       time.Time `json:"date"`
	Count      int       `json:"count"`
	SearchedBy string    `json:"searchedBy,omitempty"`
	DayRange   string    `json:"dayRange,omitempty"`
}

// SearchQuery — сохранённый поисковый запрос, привязанный к категории.
type SearchQuery struct {
	ID             string      `json:"_id,omitempty"`
	Query          string      `json:"query"`
	Link           string      `json:"link"`
	Category       string      `json:"category"`
	LastSearchInfo []SearchRun `json:"last_search_info,omitempty"`
}

// Frequency задаёт периодичность расписания.
type Frequency string

const (
	FrequencyHourly  Frequency = "hourly"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Schedule описывает расписание автоматического поиска. Значимы только поля,
// относящиеся к Frequency.
type Schedule struct {
	Frequency    Frequency `json:"frequency"`
	Time         string    `json:"time"`
	DaysOfWeek   []int     `json:"daysOfWeek,omitempty"`
	DayOfMonth   int       `json:"dayOfMonth,omitempty"`
	HourInterval int       `json:"hourInterval,omitempty"`
}

// CategoryType определяет, ищем ли по всем категориям или по выбранным.
type CategoryType string

const (
	CategoryTypeAll      CategoryType = "all"
	CategoryTypeSpecific CategoryType = "specific"
)

// SearchSettings — параметры запуска запланированного поиска.
type SearchSettings struct {
	TimeUnits    []string     `json:"timeUnits"`
	FilterClosed bool         `json:"filterClosed"`
	Categories   []string     `json:"categories"`
	CategoryType CategoryType `json:"categoryType"`
}

// ScheduleState — состояние запланированного поиска.
type ScheduleState string

const (
	ScheduleStateScheduled ScheduleState = "scheduled"
	ScheduleStateRunning   ScheduleState = "running"
)

// Progress описывает ход выполнения запущенного поиска.
type Progress struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ScheduledSearch — периодический поиск, который выполняется на сервере.
type ScheduledSearch struct {
	ID        string         `json:"_id,omitempty"`
	Name      string         `json:"name,omitempty"`
	TeamID    string         `json:"teamId,omitempty"`
	TeamName  string         `json:"teamName,omitempty"`
	Schedule  Schedule       `json:"schedule"`
	Settings  SearchSettings `json:"settings"`
	State     ScheduleState  `json:"state,omitempty"`
	NextRun   *time.Time     `json:"nextRun,omitempty"`
	StartTime *time.Time     `json:"startTime,omitempty"`
	Progress  *Progress      `json:"progress,omitempty"`
}

// Running сообщает, выполняется ли поиск сейчас.
func (s ScheduledSearch) Running() bool {
	return s.State == ScheduleStateRunning
}

// OpenedLinkRecord — запись журнала открытых ссылок. Timestamp в миллисекундах Unix.
type OpenedLinkRecord struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// User — пользователь дашборда.
type User struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	TeamID string `json:"teamId,omitempty"`
}

// Team — команда пользователей.
type Team struct {
	ID      string       `json:"_id,omitempty"`
	Name    string       `json:"name"`
	Members []TeamMember `json:"members,omitempty"`
}

// TeamMember — участник команды.
type TeamMember struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Application — отклик пользователя на вакансию.
type Application struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	BidLinkID string    `json:"bidLinkId,omitempty"`
	URL       string    `json:"url,omitempty"`
	Title     string    `json:"title,omitempty"`
	Company   string    `json:"company,omitempty"`
	Credits   float64   `json:"credits,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Resume — резюме пользователя.
type Resume struct {
	ID        string    `json:"_id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// CustomizedResume — вариант резюме, адаптированный под вакансию.
type CustomizedResume struct {
	ID        string    `json:"_id"`
	ResumeID  string    `json:"resumeId"`
	BidLinkID string    `json:"bidLinkId,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyCount — количество ссылок за день.
type DailyCount struct {
	Date  string `json:"_id"`
	Count int    `json:"count"`
}

// AnalyticsRow — строка агрегированной аналитики от сервера.
type AnalyticsRow struct {
	Date   string  `json:"date"`
	Series string  `json:"series"`
	Value  float64 `json:"value"`
}

// Credentials — данные для входа или регистрации.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult — ответ сервера на вход.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
