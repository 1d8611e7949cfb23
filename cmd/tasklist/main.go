package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/projection"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/store"
	"github.com/sandeepkv93/tasklist/internal/update"
	"github.com/urfave/cli/v3"
)

// session is everything a command needs once configuration is resolved.
type session struct {
	cfg       config.RuntimeConfig
	logger    *log.Logger
	repo      storage.Repository
	store     *store.Store
	projector *projection.Projector
	closeLog  io.Closer
}

func (s *session) Close() {
	if err := s.repo.Close(); err != nil {
		s.logger.Error("close storage", "err", err)
	}
	_ = s.closeLog.Close()
}

func resolveConfig(cmd *cli.Command) (config.RuntimeConfig, error) {
	cfg, err := config.Load(cmd.String("config"), cmd.IsSet("config"))
	if err != nil {
		return config.RuntimeConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if v := cmd.String("storage"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := cmd.String("db"); v != "" {
		cfg.Storage.Path = v
	}
	if v := cmd.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return config.RuntimeConfig{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// openSession resolves config, opens storage and loads the store. With
// interactive set, logs go to the configured file instead of stderr.
func openSession(ctx context.Context, cmd *cli.Command, interactive bool) (*session, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	var (
		logger   *log.Logger
		closeLog io.Closer
	)
	if interactive {
		logger, closeLog, err = logging.OpenFile(cfg.Log)
	} else {
		logger, closeLog, err = logging.Open(cmd.Root().ErrWriter, cfg.Log)
	}
	if err != nil {
		return nil, err
	}

	repo, err := storage.Open(ctx, storage.Driver(cfg.Storage.Driver), cfg.Storage.Path, storage.WithLogger(logger))
	if err != nil {
		_ = closeLog.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	st := store.New(repo, store.WithLogger(logger))
	st.Subscribe(func(snap store.Snapshot) {
		logger.Debug("store changed", "version", snap.Version, "tasks", len(snap.Tasks), "dark", snap.DarkMode)
	})
	st.Load(ctx)
	projector := projection.NewProjectorForLocale(cfg.UI.Locale)
	logger.Debug("store loaded", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path, "tasks", st.Len(), "locale", projector.Locale())

	return &session{
		cfg:       cfg,
		logger:    logger,
		repo:      repo,
		store:     st,
		projector: projector,
		closeLog:  closeLog,
	}, nil
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	m := update.NewModel(ctx, s.store, s.projector, s.logger)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

func newApp(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "tasklist",
		Usage:     "Keep a small to-do list in the terminal",
		Writer:    out,
		ErrWriter: errOut,
		Action:    runTUI,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to a YAML or TOML config file",
				DefaultText: config.DefaultConfigFile,
				Value:       config.DefaultConfigFile,
				Sources:     cli.EnvVars("TASKLIST_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "storage",
				Usage: "Storage driver: sqlite, file or memory",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path of the sqlite database or JSON file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Commands: taskCommands(),
	}
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Error("tasklist failed", "err", err)
		os.Exit(1)
	}
}
