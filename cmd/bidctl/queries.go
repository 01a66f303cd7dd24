package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bidboard/internal/domain"
	"bidboard/internal/usecase/queries"
)

func newQueriesCommand(d *deps) *cobra.Command {
	cmd := &cobra.Command{Use: "queries", Short: "Поисковые запросы"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Запросы по категориям",
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := d.queries.List(cmd.Context())
				if err != nil {
					return err
				}
				renderQueries(cmd, list)
				return nil
			},
		},
		&cobra.Command{
			Use:   "history",
			Short: "История запусков запросов",
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := d.queries.History(cmd.Context())
				if err != nil {
					return err
				}
				renderQueries(cmd, list)
				return nil
			},
		},
		newQueriesAddCommand(d),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Удалить запрос",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return d.queries.Delete(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}

func newQueriesAddCommand(d *deps) *cobra.Command {
	var q domain.SearchQuery
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Добавить запрос",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := d.queries.Create(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "создано: %s\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Query, "query", "", "текст запроса")
	cmd.Flags().StringVar(&q.Link, "link", "", "ссылка запроса")
	cmd.Flags().StringVar(&q.Category, "category", "", "категория")
	return cmd
}

func renderQueries(cmd *cobra.Command, list []domain.SearchQuery) {
	categories, grouped := queries.ByCategory(list)
	t := newTable(cmd.OutOrStdout(), table.Row{"Category", "ID", "Query", "Last run", "Found"})
	for _, c := range categories {
		for _, q := range grouped[c] {
			last, found := "-", "-"
			if run, ok := queries.LastRun(q); ok {
				last = run.Date.UTC().Format("2006-01-02 15:04")
				found = fmt.Sprint(run.Count)
			}
			t.AppendRow(table.Row{c, q.ID, truncate(q.Query, 48), last, found})
		}
	}
	t.Render()
}
