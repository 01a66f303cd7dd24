package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bidboard/internal/usecase/analytics"
)

func newAnalyticsCommand(d *deps) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:       "analytics REPORT",
		Short:     "Отчёты: team-credits, service-breakdown, trends",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(analytics.ReportTeamCredits), string(analytics.ReportServiceBreakdown), string(analytics.ReportTrends)},
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			tbl, err := d.analytics.Table(cmd.Context(), analytics.Report(args[0]), now.AddDate(0, 0, -days), now)
			if err != nil {
				return err
			}
			renderPivot(cmd, tbl)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "период в днях")
	cmd.AddCommand(&cobra.Command{
		Use:   "bids [USER_ID]",
		Short: "История откликов пользователя",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := d.api.Session().UserID
			if len(args) == 1 {
				userID = args[0]
			}
			tbl, err := d.analytics.BidHistory(cmd.Context(), userID)
			if err != nil {
				return err
			}
			renderPivot(cmd, tbl)
			return nil
		},
	})
	return cmd
}

func renderPivot(cmd *cobra.Command, tbl analytics.Table) {
	header := table.Row{"Date"}
	for _, s := range tbl.Series {
		header = append(header, s)
	}
	t := newTable(cmd.OutOrStdout(), header)
	for i, date := range tbl.Dates {
		row := table.Row{date}
		for _, v := range tbl.Values[i] {
			row = append(row, fmt.Sprintf("%.2f", v))
		}
		t.AppendRow(row)
	}
	footer := table.Row{"Total"}
	for _, v := range tbl.Totals() {
		footer = append(footer, fmt.Sprintf("%.2f", v))
	}
	t.AppendFooter(footer)
	t.Render()
}
