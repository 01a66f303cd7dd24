package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bidboard/internal/adapters/export"
	"bidboard/internal/domain"
)

type listFlags struct {
	days            int
	date            string
	category        string
	queries         []string
	dateLimits      []int
	minConfidence   float64
	maxConfidence   float64
	sortBy          string
	order           string
	strict          bool
	mine            bool
	showBlacklisted bool
	page            int
}

func newLinksCommand(d *deps) *cobra.Command {
	cmd := &cobra.Command{Use: "links", Short: "Найденные вакансии"}
	cmd.AddCommand(
		newLinksListCommand(d),
		newLinksSearchCommand(d),
		newLinksOpenCommand(d),
		newLinksExportCommand(d),
		newLinksDailyCommand(d),
	)
	return cmd
}

func bindListFlags(cmd *cobra.Command, f *listFlags) {
	cmd.Flags().IntVar(&f.days, "days", 1, "окно выборки в днях")
	cmd.Flags().StringVar(&f.date, "date", "", "день выборки YYYY-MM-DD")
	cmd.Flags().StringVar(&f.category, "category", domain.AllCategories, "категория или all")
	cmd.Flags().StringSliceVar(&f.queries, "query", nil, "ссылки поисковых запросов")
	cmd.Flags().IntSliceVar(&f.dateLimits, "date-limit", nil, "ограничения давности: -1 любое, 0 без ограничения")
	cmd.Flags().Float64Var(&f.minConfidence, "min", 0, "минимальная уверенность")
	cmd.Flags().Float64Var(&f.maxConfidence, "max", 1, "максимальная уверенность")
	cmd.Flags().StringVar(&f.sortBy, "sort", string(domain.SortByConfidence), "confidence или date")
	cmd.Flags().StringVar(&f.order, "order", string(domain.SortDesc), "asc или desc")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "строгий режим по тегам")
	cmd.Flags().BoolVar(&f.mine, "mine", false, "только мои ссылки")
	cmd.Flags().BoolVar(&f.showBlacklisted, "show-blacklisted", false, "показывать ссылки из чёрного списка")
	cmd.Flags().IntVar(&f.page, "page", 1, "номер страницы")
}

// window возвращает окно выборки: день из --date или последние --days дней.
func (f listFlags) window(now time.Time) (domain.BidLinkWindow, error) {
	w := domain.BidLinkWindow{ShowBlacklisted: f.showBlacklisted}
	if f.date != "" {
		day, err := time.Parse("2006-01-02", f.date)
		if err != nil {
			return w, fmt.Errorf("некорректная дата %q", f.date)
		}
		w.From, w.To = day, day.AddDate(0, 0, 1)
		return w, nil
	}
	days := f.days
	if days <= 0 {
		days = 1
	}
	w.From, w.To = now.AddDate(0, 0, -days), now
	return w, nil
}

func (d *deps) filterConfig(cmd *cobra.Command, f listFlags) domain.FilterConfig {
	base := domain.DefaultFilterConfig()
	base.CurrentUserID = d.api.Session().UserID
	cfg := d.prefs.FilterConfig(cmd.Context(), base)
	cfg.SelectedDate = f.date
	cfg.SelectedCategory = f.category
	cfg.SelectedQueries = f.queries
	cfg.ConfidenceRange = domain.ConfidenceRange{Lo: f.minConfidence, Hi: f.maxConfidence}
	cfg.SortBy = domain.SortKey(f.sortBy)
	cfg.SortOrder = domain.SortOrder(f.order)
	if cmd.Flags().Changed("date-limit") {
		cfg.QueryDateLimits = f.dateLimits
	}
	if cmd.Flags().Changed("strict") {
		cfg.StrictlyFiltered = f.strict
	}
	if f.mine {
		cfg.Ownership = domain.OwnershipMine
	}
	return cfg
}

func (d *deps) loadVisible(cmd *cobra.Command, f listFlags) ([]domain.BidLink, error) {
	if !cmd.Flags().Changed("show-blacklisted") {
		f.showBlacklisted = d.prefs.ShowBlacklisted(cmd.Context())
	}
	w, err := f.window(time.Now())
	if err != nil {
		return nil, err
	}
	if _, err := d.links.Refresh(cmd.Context(), w); err != nil {
		return nil, err
	}
	return d.links.Visible(d.filterConfig(cmd, f)), nil
}

func newLinksListCommand(d *deps) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Показать отфильтрованные ссылки",
		RunE: func(cmd *cobra.Command, args []string) error {
			visible, err := d.loadVisible(cmd, f)
			if err != nil {
				return err
			}
			perPage := d.prefs.RowsPerPage(cmd.Context())
			page := paginate(visible, f.page, perPage)
			renderLinks(cmd, page, d.ledger.OpenedSet(cmd.Context()))
			fmt.Fprintf(cmd.OutOrStdout(), "показано %d из %d, страница %d\n", len(page), len(visible), max(f.page, 1))
			return nil
		},
	}
	bindListFlags(cmd, &f)
	return cmd
}

func paginate(links []domain.BidLink, page, perPage int) []domain.BidLink {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(links) {
		return nil
	}
	end := min(start+perPage, len(links))
	return links[start:end]
}

func renderLinks(cmd *cobra.Command, links []domain.BidLink, opened map[string]struct{}) {
	t := newTable(cmd.OutOrStdout(), table.Row{"", "Title", "Company", "Category", "Conf", "Tag", "Created", "URL"})
	for _, l := range links {
		mark := ""
		if _, ok := opened[l.URL]; ok {
			mark = "✓"
		}
		tag, _ := l.Tag()
		t.AppendRow(table.Row{
			mark,
			truncate(l.Title, 48),
			truncate(l.CompanyOrNA(), 24),
			l.Category(),
			fmt.Sprintf("%.2f", l.ConfidenceOrZero()),
			string(tag),
			l.CreatedAt.UTC().Format("2006-01-02 15:04"),
			l.URL,
		})
	}
	t.Render()
}

func newLinksSearchCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "search TERM",
		Short: "Глобальный поиск по ссылкам",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, applied, err := d.links.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if !applied {
				return errors.New("поиск прерван более новым запросом")
			}
			renderLinks(cmd, results, d.ledger.OpenedSet(cmd.Context()))
			return nil
		},
	}
}

func newLinksOpenCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "open URL...",
		Short: "Отметить ссылки как открытые",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.ledger.RecordOpened(cmd.Context(), args)
			fmt.Fprintf(cmd.OutOrStdout(), "отмечено: %d\n", len(args))
			return nil
		},
	}
}

func newLinksExportCommand(d *deps) *cobra.Command {
	var f listFlags
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Выгрузить отфильтрованные ссылки в XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("нужен --out")
			}
			visible, err := d.loadVisible(cmd, f)
			if err != nil {
				return err
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			defer file.Close()
			if err := export.WriteBidLinksXLSX(file, visible, d.ledger.OpenedSet(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "выгружено %d ссылок в %s\n", len(visible), out)
			return nil
		},
	}
	bindListFlags(cmd, &f)
	cmd.Flags().StringVar(&out, "out", "", "путь к файлу .xlsx")
	return cmd
}

func newLinksDailyCommand(d *deps) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Количество ссылок по дням",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			counts, err := d.links.DailyCounts(cmd.Context(), now.AddDate(0, 0, -days), now)
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), table.Row{"Date", "Count"})
			for _, c := range counts {
				t.AppendRow(table.Row{c.Date, c.Count})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 14, "период в днях")
	return cmd
}
