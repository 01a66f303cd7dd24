package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bidboard/internal/domain"
)

func newLoginCommand(d *deps) *cobra.Command {
	var creds domain.Credentials
	var register bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Войти и сохранить сессию",
		RunE: func(cmd *cobra.Command, args []string) error {
			if creds.Email == "" || creds.Password == "" {
				return errors.New("нужны --email и --password")
			}
			login := d.api.Login
			if register {
				login = d.api.Register
			}
			res, err := login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			d.prefs.SetSession(cmd.Context(), res.Token, res.User.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "вход выполнен: %s <%s>\n", res.User.Name, res.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "пароль")
	cmd.Flags().StringVar(&creds.Name, "name", "", "имя для регистрации")
	cmd.Flags().BoolVar(&register, "register", false, "зарегистрировать новый аккаунт")
	return cmd
}

func newLogoutCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Удалить сохранённую сессию",
		RunE: func(cmd *cobra.Command, args []string) error {
			d.prefs.ClearSession(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "сессия удалена")
			return nil
		},
	}
}

func newWhoamiCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Показать текущего пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			session := d.api.Session()
			if !session.Valid(time.Now()) {
				return domain.ErrUnauthorized
			}
			user, err := d.api.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s> id=%s\n", user.Name, user.Email, user.ID)
			if exp, ok := session.ExpiresAt(); ok {
				fmt.Fprintf(out, "сессия действует до %s\n", exp.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}
}
