package cli

import (
	"log/slog"
	"os"

	"mada_server_go/config"

	"github.com/spf13/cobra"
)

// RootOptions - глобальные флаги всех команд.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand создает корневую команду сервера.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mada",
		Short: "mada - календарь, D-day и to-do",
		Long:  "REST API сервер: календарь с D-day, категории и задачи, профиль пользователя.",
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "path to YAML config")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug log level)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))

	return cmd
}

// loadConfig читает конфигурацию и настраивает slog по log_level (или --verbose).
func loadConfig(opts *RootOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
