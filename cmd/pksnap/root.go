package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"pksnap/internal/config"
	"pksnap/internal/ctxlog"
)

// rootOptions are the persistent flags. Flags that are set override the
// config file.
type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
	logFormat  string
	textfile   string

	app *app
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "pksnap",
		Short:        "Convert, snapshot and qualify PBPK projects",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd, cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: search "+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG and /etc)")
	flags.StringVar(&opts.dbPath, "db", "", "lookup database path (default: embedded)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text, json")
	flags.StringVar(&opts.textfile, "metrics-textfile", "", "write metrics to this file on exit")

	cmd.AddCommand(
		newConvertCmd(opts),
		newSnapshotCmd(opts),
		newQualifyCmd(opts),
	)
	return cmd, opts
}

// close releases what setup created. It is called after the command ran,
// whether it failed or not.
func (o *rootOptions) close() error {
	if o.app == nil {
		return nil
	}
	return o.app.Close()
}

func (o *rootOptions) setup(cmd *cobra.Command, logOut io.Writer) error {
	cfg, path, err := o.loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database.Path = o.dbPath
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = o.logFormat
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = o.textfile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg.Logging.Level, cfg.Logging.Format, logOut)
	slog.SetDefault(log)
	if path != "" {
		log.Debug("config loaded", "path", path, "summary", cfg.Summary())
	}

	ctx := ctxlog.WithLogger(cmd.Context(), log)
	cmd.SetContext(ctx)

	o.app, err = newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	o.app.subscribe(ctx)
	return nil
}

func (o *rootOptions) loadConfig() (*config.Config, string, error) {
	if o.configPath != "" {
		cfg, path, err := config.LoadFromPath(o.configPath)
		if err != nil {
			return nil, path, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, path, nil
	}
	return config.Load()
}
