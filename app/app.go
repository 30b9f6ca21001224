// Package app assembles the FormRunner processes: the authoring bot, the
// filling bot and the landing-page server, all sharing one database and one
// outbound sender.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/formrunner/formrunner/bots/admin"
	"github.com/formrunner/formrunner/bots/user"
	"github.com/formrunner/formrunner/core/bootstrap"
	corecmd "github.com/formrunner/formrunner/core/cmd"
	coreconfig "github.com/formrunner/formrunner/core/config"
	coredatabase "github.com/formrunner/formrunner/core/database"
	"github.com/formrunner/formrunner/core/logger"
	coretelegram "github.com/formrunner/formrunner/core/telegram"
	tghelpers "github.com/formrunner/formrunner/core/telegram/helpers"
	tgsender "github.com/formrunner/formrunner/core/telegram/sender"
	"github.com/formrunner/formrunner/links"
	"github.com/formrunner/formrunner/storage"
	"github.com/formrunner/formrunner/web"
)

// Config wraps the core configuration for the cmd runner.
type Config struct {
	Core *coreconfig.Config
}

// CoreConfig implements corecmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config { return c.Core }

// LoadConfig reads and validates the configuration file.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{Core: cfg}, nil
}

// App is the assembled application.
type App struct {
	cfg        *coreconfig.Config
	db         *sqlx.DB
	dispatcher *tgsender.Dispatcher
	adminBot   *admin.Bot
	userBot    *user.Bot
	server     *web.Server
}

// databaseConfig maps the loaded configuration onto the database package's
// own settings type. core/config cannot import core/database directly, the
// logger sits between them.
func databaseConfig(d coreconfig.DatabaseConfig) coredatabase.Config {
	return coredatabase.Config{
		Host:           d.Host,
		Port:           d.Port,
		User:           d.User,
		Password:       d.Password,
		Name:           d.Name,
		SSLMode:        d.SSLMode,
		MaxConnections: d.MaxConnections,
	}
}

// Bootstrap initializes infrastructure and wires the application components.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.App, error) {
	cfg := carrier.CoreConfig()

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg,
		Database: databaseConfig(cfg.Database),
	})
	if err != nil {
		return nil, err
	}

	store := storage.NewPostgresStore(res.DB)
	lb := links.NewBuilder(cfg.UserBot.Username, cfg.Server.PublicURL)

	return &App{
		cfg:        cfg,
		db:         res.DB,
		dispatcher: tgsender.NewDispatcher(tgsender.Options{}),
		adminBot:   admin.New(store, lb),
		userBot:    user.New(store),
		server:     web.NewServer(store, lb, cfg.Server.Listen),
	}, nil
}

// Run starts every component and blocks until ctx is cancelled or the first
// component fails. The remaining components are then stopped via cancel.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tghelpers.SetDispatcher(a.dispatcher)
	defer func() {
		tghelpers.SetDispatcher(nil)
		a.dispatcher.Close()
		if err := a.db.Close(); err != nil {
			logger.DB.Warn("db close failed",
				slog.String("event", "close"),
				slog.String("err", err.Error()),
			)
		}
	}()

	type result struct {
		name string
		err  error
	}
	results := make(chan result, 3)

	run := func(name string, fn func(context.Context) error) {
		go func() {
			results <- result{name: name, err: fn(ctx)}
		}()
	}

	run("bot.admin", func(ctx context.Context) error {
		return a.runBot(ctx, "admin", a.cfg.AdminBot, a.adminBot.Routes(), a.adminBot.Menu(), a.adminBot.SessionCount)
	})
	run("bot.user", func(ctx context.Context) error {
		return a.runBot(ctx, "user", a.cfg.UserBot, a.userBot.Routes(), a.userBot.Menu(), a.userBot.SessionCount)
	})
	run("web", a.server.Run)

	var firstErr error
	for i := 0; i < cap(results); i++ {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", r.name, r.err)
		}
		// Any component exiting, cleanly or not, takes the rest down.
		cancel()
	}
	return firstErr
}

func (a *App) runBot(ctx context.Context, name string, botCfg coreconfig.BotConfig, routes []coretelegram.Route, menu []tele.Command, sessions func() int) error {
	return coretelegram.RunBot(ctx, coretelegram.RunOptions{
		Name:                    name,
		Bot:                     botCfg,
		Dispatcher:              a.dispatcher,
		DisableHelperDispatcher: true,
		Middlewares:             coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:                  routes,
		Commands:                menu,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.L.With("component", "bot."+name).Info("bot stopped",
				slog.String("event", "stop"),
				slog.Int("active_sessions", sessions()),
			)
			return nil
		},
	})
}
