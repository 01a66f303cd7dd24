package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bidboard/internal/domain"
	"bidboard/internal/usecase/schedule"
)

type scheduleFlags struct {
	name         string
	teamID       string
	teamName     string
	frequency    string
	at           string
	days         []int
	dayOfMonth   int
	hours        int
	categories   []string
	timeUnits    []string
	filterClosed bool
}

func bindScheduleFlags(cmd *cobra.Command, f *scheduleFlags) {
	cmd.Flags().StringVar(&f.name, "name", "", "название")
	cmd.Flags().StringVar(&f.teamID, "team", "", "id команды")
	cmd.Flags().StringVar(&f.teamName, "team-name", "", "название команды")
	cmd.Flags().StringVar(&f.frequency, "frequency", string(domain.FrequencyDaily), "hourly, daily, weekly или monthly")
	cmd.Flags().StringVar(&f.at, "time", "", "время запуска HH:MM в UTC")
	cmd.Flags().IntSliceVar(&f.days, "days", nil, "дни недели 0-6 для weekly")
	cmd.Flags().IntVar(&f.dayOfMonth, "day-of-month", 0, "день месяца для monthly")
	cmd.Flags().IntVar(&f.hours, "hours", 0, "интервал в часах для hourly")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "категории; по умолчанию все")
	cmd.Flags().StringSliceVar(&f.timeUnits, "time-unit", []string{"d"}, "окна поиска: d, w, m, y или пусто")
	cmd.Flags().BoolVar(&f.filterClosed, "filter-closed", true, "отбрасывать закрытые вакансии")
}

func (f scheduleFlags) build(id string) domain.ScheduledSearch {
	settings := domain.SearchSettings{
		TimeUnits:    f.timeUnits,
		FilterClosed: f.filterClosed,
		Categories:   f.categories,
		CategoryType: domain.CategoryTypeAll,
	}
	if len(f.categories) > 0 {
		settings.CategoryType = domain.CategoryTypeSpecific
	}
	return domain.ScheduledSearch{
		ID:       id,
		Name:     f.name,
		TeamID:   f.teamID,
		TeamName: f.teamName,
		Schedule: domain.Schedule{
			Frequency:    domain.Frequency(strings.ToLower(f.frequency)),
			Time:         f.at,
			DaysOfWeek:   f.days,
			DayOfMonth:   f.dayOfMonth,
			HourInterval: f.hours,
		},
		Settings: settings,
	}
}

func newSchedulesCommand(d *deps) *cobra.Command {
	cmd := &cobra.Command{Use: "schedules", Short: "Запланированные поиски"}
	cmd.AddCommand(
		newSchedulesListCommand(d),
		newSchedulesPreviewCommand(),
		newSchedulesCreateCommand(d),
		newSchedulesUpdateCommand(d),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Удалить расписание",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return d.schedules.Delete(cmd.Context(), args[0])
			},
		},
		newSchedulesRunCommand(d),
		&cobra.Command{
			Use:   "autobid",
			Short: "Запустить автоотклик",
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := d.search.AutoBid(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "откликов отправлено: %d\n", n)
				return nil
			},
		},
	)
	return cmd
}

func newSchedulesListCommand(d *deps) *cobra.Command {
	var tz string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Показать расписания",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := d.schedules.List(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), table.Row{"ID", "Name", "Team", "Frequency", "Status"})
			for _, ss := range items {
				status, err := d.schedules.Describe(ss, tz)
				if err != nil {
					return err
				}
				t.AppendRow(table.Row{ss.ID, ss.Name, ss.TeamName, ss.Schedule.Frequency, status})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "", "часовой пояс для отображения, например Europe/Moscow или UTC+3")
	return cmd
}

func newSchedulesPreviewCommand() *cobra.Command {
	var f scheduleFlags
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Показать ближайший запуск без сохранения",
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := schedule.NextRun(f.build("").Schedule, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), schedule.FormatUTC(next))
			return nil
		},
	}
	bindScheduleFlags(cmd, &f)
	return cmd
}

func newSchedulesCreateCommand(d *deps) *cobra.Command {
	var f scheduleFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать расписание",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := d.schedules.Create(cmd.Context(), f.build(""))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "создано: %s\n", created.ID)
			return nil
		},
	}
	bindScheduleFlags(cmd, &f)
	return cmd
}

func newSchedulesUpdateCommand(d *deps) *cobra.Command {
	var f scheduleFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Изменить расписание",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fresh, err := d.schedules.Update(cmd.Context(), f.build(args[0]))
			if err != nil {
				return err
			}
			status, _ := d.schedules.Describe(fresh, "")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", fresh.ID, status)
			return nil
		},
	}
	bindScheduleFlags(cmd, &f)
	return cmd
}

func newSchedulesRunCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "run ID",
		Short: "Запустить поиск сейчас и дождаться завершения",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			res, err := d.search.Run(cmd.Context(), args[0], func(ss domain.ScheduledSearch) {
				if status, err := d.schedules.Describe(ss, ""); err == nil {
					fmt.Fprintln(out, status)
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "найдено вакансий: %d\n", res.JobsFound)
			return nil
		},
	}
}
