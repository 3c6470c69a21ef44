// Package cli provides the command-line interface for the alerts application.
package cli

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"telegram-alerts/internal/config"
	"telegram-alerts/internal/logging"
	"telegram-alerts/internal/metrics"
	"telegram-alerts/internal/notify"
	"telegram-alerts/internal/schedule"
	"telegram-alerts/internal/spinny"
)

// skipValidation marks commands that load the config file without
// validating it.
const skipValidation = "skip-validation"

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-19"
)

// App holds the application dependencies. Fields left nil are built from
// Config when a command runs.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	RunID      string
	HTTPClient *http.Client
	Fetcher    spinny.Fetcher
	Notifier   notify.Notifier
	Metrics    *metrics.Collector
	Schedule   *schedule.Schedule
	Now        func() time.Time
}

// NewRootCmd creates the root command for the CLI. Configuration is loaded
// from --config before any subcommand runs.
func NewRootCmd(logger zerolog.Logger) *cobra.Command {
	return NewRootCmdWithApp(&App{Logger: logger})
}

// NewRootCmdWithApp creates the root command around a prepared App.
func NewRootCmdWithApp(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Car listing and reminder alerts for Telegram",
		Long: `alerts polls the Spinny marketplace for tracked listings and model searches,
formats the results and posts one combined message to a Telegram chat.

It also sends the daily hair-care schedule reminders.
Run it from cron or a systemd timer; every invocation runs to completion and exits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config")
			debug, _ := cmd.Flags().GetBool("debug")
			if cmd.Annotations[skipValidation] == "true" {
				return app.loadConfig(configDir, debug, config.Read)
			}
			return app.setup(configDir, debug)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/telegram-alerts)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newRemindCmd(app))
	rootCmd.AddCommand(newPlanCmd(app))

	return rootCmd
}

func (a *App) setup(configDir string, debug bool) error {
	if err := a.loadConfig(configDir, debug, config.Load); err != nil {
		return err
	}

	if a.HTTPClient == nil {
		a.HTTPClient = &http.Client{}
	}
	if a.Fetcher == nil {
		a.Fetcher = spinny.NewClient(a.Config.SpinnyClientConfig(), a.HTTPClient, a.Logger)
	}
	if a.Notifier == nil {
		a.Notifier = notify.NewTelegramNotifier(a.Config.TelegramNotifierConfig(), a.HTTPClient, a.Logger)
	}
	if a.Metrics == nil {
		a.Metrics = metrics.NewCollector()
	}
	if a.Schedule == nil {
		s, err := a.Config.ScheduleWithOverrides()
		if err != nil {
			return err
		}
		a.Schedule = s
	}
	if a.Now == nil {
		a.Now = time.Now
	}

	a.Logger.Debug().Str("config", a.Config.Path).Msg("Application initialized")
	return nil
}

// loadConfig fills Config with load when unset and prepares the logger.
func (a *App) loadConfig(configDir string, debug bool, load func(string) (*config.Config, error)) error {
	if a.Config == nil {
		cfg, err := load(configDir)
		if err != nil {
			return err
		}
		a.Config = cfg
		a.Logger = logging.NewLoggerWithConfig(cfg.LogConfig())
	}
	if debug {
		logging.SetDebugLevel()
		a.Logger = a.Logger.Level(zerolog.DebugLevel)
	}

	if a.RunID == "" {
		a.RunID = uuid.NewString()
	}
	a.Logger = logging.WithRunID(a.Logger, a.RunID)
	return nil
}

// writeMetrics flushes the run metrics when a textfile path is configured.
func (a *App) writeMetrics() {
	path := a.Config.Metrics.Textfile
	if path == "" {
		return
	}
	if err := a.Metrics.WriteTextfile(path, a.Now()); err != nil {
		a.Logger.Warn().Err(err).Str("path", path).Msg("Failed to write metrics textfile")
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// version needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
				return
			}
			output.Printf("Telegram Alerts v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
		},
	}
}
