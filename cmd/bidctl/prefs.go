package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bidboard/internal/domain"
	"bidboard/internal/usecase/prefs"
)

func newPrefsCommand(d *deps) *cobra.Command {
	cmd := &cobra.Command{Use: "prefs", Short: "Настройки клиента"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Показать настройки",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				nc := d.prefs.NotificationConfig(ctx)
				t := newTable(cmd.OutOrStdout(), table.Row{"Key", "Value"})
				t.AppendRows([]table.Row{
					{prefs.KeyTheme, d.prefs.Theme(ctx)},
					{prefs.KeyHiddenCategories, strings.Join(d.prefs.HiddenCategories(ctx), ",")},
					{prefs.KeyShowFilter, d.prefs.ShowFilter(ctx)},
					{prefs.KeySelectedFriends, strings.Join(d.prefs.SelectedFriends(ctx), ",")},
					{prefs.KeyShowBlacklisted, d.prefs.ShowBlacklisted(ctx)},
					{prefs.KeyRowsPerPage, d.prefs.RowsPerPage(ctx)},
					{prefs.KeyQueryDateLimit, fmt.Sprint(d.prefs.QueryDateLimits(ctx))},
					{prefs.KeyStrictlyFiltered, d.prefs.StrictlyFiltered(ctx)},
					{prefs.KeyVisibleTags, formatTags(d.prefs.VisibleTags(ctx))},
					{prefs.KeyNotificationsEnabled, d.prefs.NotificationsEnabled(ctx)},
					{prefs.KeyNotificationConfig, fmt.Sprintf("min=%.2f tags=%s categories=%s",
						nc.MinConfidence, strings.Join(nc.Tags, ","), strings.Join(nc.Categories, ","))},
				})
				t.Render()
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Изменить настройку",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return d.setPref(cmd, args[0], args[1])
			},
		},
	)
	return cmd
}

func formatTags(visible map[domain.Tag]bool) string {
	var on []string
	for _, tag := range domain.StrictTags() {
		if visible[tag] {
			on = append(on, string(tag))
		}
	}
	return strings.Join(on, ", ")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (d *deps) setPref(cmd *cobra.Command, key, value string) error {
	ctx := cmd.Context()
	switch key {
	case prefs.KeyTheme:
		d.prefs.SetTheme(ctx, value)
	case prefs.KeyHiddenCategories:
		d.prefs.SetHiddenCategories(ctx, splitList(value))
	case prefs.KeySelectedFriends:
		d.prefs.SetSelectedFriends(ctx, splitList(value))
	case prefs.KeyShowFilter, prefs.KeyShowBlacklisted, prefs.KeyStrictlyFiltered, prefs.KeyNotificationsEnabled:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: ожидается true или false", key)
		}
		switch key {
		case prefs.KeyShowFilter:
			d.prefs.SetShowFilter(ctx, v)
		case prefs.KeyShowBlacklisted:
			d.prefs.SetShowBlacklisted(ctx, v)
		case prefs.KeyStrictlyFiltered:
			d.prefs.SetStrictlyFiltered(ctx, v)
		default:
			d.prefs.SetNotificationsEnabled(ctx, v)
		}
	case prefs.KeyRowsPerPage:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: ожидается положительное число", key)
		}
		d.prefs.SetRowsPerPage(ctx, n)
	case prefs.KeyQueryDateLimit:
		var limits []int
		for _, part := range splitList(value) {
			n, err := strconv.Atoi(part)
			if err != nil || n < domain.DateLimitAny {
				return fmt.Errorf("%s: некорректное значение %q", key, part)
			}
			limits = append(limits, n)
		}
		d.prefs.SetQueryDateLimits(ctx, limits)
	case prefs.KeyVisibleTags:
		visible := make(map[domain.Tag]bool)
		for _, tag := range domain.StrictTags() {
			visible[tag] = false
		}
		for _, raw := range splitList(value) {
			tag, ok := domain.ParseTag(raw)
			if !ok {
				return fmt.Errorf("%s: неизвестный тег %q", key, raw)
			}
			visible[tag] = true
		}
		d.prefs.SetVisibleTags(ctx, visible)
	case prefs.KeyNotificationConfig:
		nc := d.prefs.NotificationConfig(ctx)
		for _, part := range splitList(value) {
			name, v, _ := strings.Cut(part, "=")
			switch name {
			case "min":
				f, err := strconv.ParseFloat(v, 64)
				if err != nil || f < 0 || f > 1 {
					return fmt.Errorf("%s: min должен быть от 0 до 1", key)
				}
				nc.MinConfidence = f
			case "tags":
				nc.Tags = strings.Split(v, "|")
			case "categories":
				nc.Categories = strings.Split(v, "|")
			default:
				return fmt.Errorf("%s: неизвестное поле %q", key, name)
			}
		}
		d.prefs.SetNotificationConfig(ctx, nc)
	default:
		return fmt.Errorf("неизвестная настройка %q", key)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s обновлено\n", key)
	return nil
}
