package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/Makepad-fr/debts/internal/api"
	"github.com/Makepad-fr/debts/internal/app"
	"github.com/Makepad-fr/debts/internal/cli"
	"github.com/Makepad-fr/debts/internal/config"
	"github.com/Makepad-fr/debts/internal/logging"
	"github.com/Makepad-fr/debts/internal/store/tokenstore"
	"github.com/Makepad-fr/debts/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	apiURL := flag.String("api", "", "backend base URL (overrides DEBTS_API_URL)")
	group := flag.Bool("group", false, "group ls output by status")
	theme := flag.String("theme", "classic", "color theme: classic, neon or mono")
	noColor := flag.Bool("no-color", os.Getenv("NO_COLOR") != "", "disable colors")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	ui.SetTheme(*theme)
	ui.SetColor(false, *noColor)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stdout)
		os.Exit(2)
	}

	code := run(args, *apiURL, *group)
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

func run(args []string, apiURL string, group bool) int {
	p := ui.NewPrinter(nil, nil)

	cfg, err := config.NewLoader().Load()
	if err != nil {
		p.Fail("config: " + err.Error())
		return 1
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		if err := cfg.Validate(); err != nil {
			p.Fail("config: " + err.Error())
			return 2
		}
	}

	logFile := cfg.Log.File
	if !filepath.IsAbs(logFile) {
		logFile = filepath.Join(cfg.Home, logFile)
	}
	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Path: logFile})
	if err != nil {
		p.Fail("log: " + err.Error())
		return 1
	}
	defer log.Close()

	store, err := tokenstore.New(tokenstore.Config{
		Driver: cfg.Store.Driver,
		Dir:    cfg.Home,
		SQLite: &tokenstore.SQLiteConfig{DSN: cfg.Store.SQLiteDSN},
		Redis: &tokenstore.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		},
	}, tokenstore.Dependencies{})
	if err != nil {
		p.Fail("token store: " + err.Error())
		return 1
	}
	store = tokenstore.WithOverride(store, cfg.Token)
	defer store.Close()

	client := api.New(cfg.APIURL,
		api.WithTimeout(cfg.HTTP.Timeout),
		api.WithLogger(log.WithField("component", "api").Logger),
	)
	a := app.New(client, store, log.WithField("component", "app").Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Debug().Strs("args", args).Str("api", cfg.APIURL).Str("store", store.Source()).Msg("start")
	return cli.Run(ctx, args, cli.Options{App: a, Group: group})
}
