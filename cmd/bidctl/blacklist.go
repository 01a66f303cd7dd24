package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBlacklistCommand(d *deps) *cobra.Command {
	cmd := &cobra.Command{Use: "blacklist", Short: "Чёрный список компаний и доменов"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Показать чёрный список",
			RunE: func(cmd *cobra.Command, args []string) error {
				entries, err := d.links.LoadBlacklist(cmd.Context())
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Fprintln(cmd.OutOrStdout(), e)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add ENTRY",
			Short: "Добавить компанию или домен",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := d.links.LoadBlacklist(cmd.Context()); err != nil {
					return err
				}
				if err := d.links.BlacklistCompany(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "добавлено: %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove ENTRY",
			Short: "Удалить запись",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				left, err := d.links.RemoveBlacklist(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "удалено, осталось записей: %d\n", len(left))
				return nil
			},
		},
	)
	return cmd
}
