package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bidboard/internal/adapters/gateway"
	"bidboard/internal/infra/config"
	applog "bidboard/internal/infra/log"
	"bidboard/internal/infra/wiring"
	"bidboard/internal/usecase/analytics"
	"bidboard/internal/usecase/autosearch"
	"bidboard/internal/usecase/bidlinks"
	"bidboard/internal/usecase/ledger"
	"bidboard/internal/usecase/prefs"
	"bidboard/internal/usecase/queries"
	"bidboard/internal/usecase/schedule"
)

// deps — зависимости команд, собираются один раз перед запуском.
type deps struct {
	cfg       config.AppConfig
	log       zerolog.Logger
	storage   *wiring.Storage
	prefs     *prefs.Store
	ledger    *ledger.Ledger
	api       *gateway.Client
	links     *bidlinks.Service
	schedules *schedule.Service
	search    *autosearch.Service
	queries   *queries.Service
	analytics *analytics.Service
}

func newRootCommand() *cobra.Command {
	d := &deps{}
	root := &cobra.Command{
		Use:           "bidctl",
		Short:         "Дашборд найденных вакансий",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return d.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if d.storage != nil {
				d.storage.Close()
			}
		},
	}
	root.AddCommand(
		newLoginCommand(d),
		newLogoutCommand(d),
		newWhoamiCommand(d),
		newLinksCommand(d),
		newBlacklistCommand(d),
		newSchedulesCommand(d),
		newQueriesCommand(d),
		newAnalyticsCommand(d),
		newPrefsCommand(d),
	)
	return root
}

func (d *deps) init(cmd *cobra.Command) error {
	ctx := cmd.Context()
	d.cfg = config.Load()
	d.log = applog.NewConsoleLogger(d.cfg.AppEnv).With().Str("component", "bidctl").Logger()

	storage, err := wiring.OpenStorage(ctx, d.cfg)
	if err != nil {
		return err
	}
	d.storage = storage
	d.prefs = prefs.New(storage.KV, d.log)
	d.ledger = ledger.New(storage.KV, d.log)

	session := gateway.Session{Token: d.cfg.API.Token, UserID: d.cfg.API.UserID}
	if session.Token == "" {
		session.Token, session.UserID = d.prefs.Session(ctx)
	}
	api, err := wiring.NewGateway(d.cfg, session, d.log)
	if err != nil {
		return err
	}
	d.api = api
	d.links = bidlinks.NewService(api, d.log)
	d.schedules = schedule.NewService(api, api, d.log)
	d.search = autosearch.NewService(api, d.log, d.cfg.Watcher.PollInterval)
	d.queries = queries.NewService(api, d.log)
	d.analytics = analytics.NewService(api)
	return nil
}
