package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"telegram-alerts/internal/config"
	apperrors "telegram-alerts/internal/errors"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate the application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			redacted := app.Config.Redacted()
			if output.IsJSON() {
				return output.JSON(redacted)
			}
			showConfig(output, &redacted)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			path := app.Config.Path
			if path == "" {
				path = filepath.Join(config.DefaultConfigDir(), config.FileName+".toml")
			}
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
				return
			}
			output.Println(path)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "validate",
		Short:       "Validate the configuration file",
		Annotations: map[string]string{skipValidation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				var verr *apperrors.ValidationError
				if apperrors.As(err, &verr) {
					output.Error("✗ Invalid %s: %s", verr.Field, verr.Message)
				} else {
					output.Error("Configuration validation failed: %v", err)
				}
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			if app.Config.Telegram.BotToken == "" || app.Config.Telegram.ChatID == "" {
				output.Warning("⚠️ Telegram credentials are not set; runs will fail to send")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Spinny")
	output.Printf("  Base URL:       %s\n", cfg.Spinny.BaseURL)
	output.Printf("  Detail timeout: %s\n", cfg.Spinny.DetailTimeout)
	output.Printf("  Search timeout: %s\n", cfg.Spinny.SearchTimeout)
	output.Println()

	output.Bold("Listings")
	table := NewTable(output, "ID", "Label")
	for _, l := range cfg.Listings {
		table.AddRow(l.ID, l.Label)
	}
	table.Render()
	output.Println()

	output.Bold("Search")
	output.Printf("  Enabled: %v\n", cfg.Search.Enabled)
	output.Printf("  Title:   %s\n", cfg.Search.Title)
	output.Printf("  Models:  %s\n", strings.Join(cfg.Search.Models, ", "))
	output.Printf("  Cities:  %d\n", len(cfg.Search.Cities))
	output.Println()

	output.Bold("Telegram")
	output.Printf("  Bot token: %s\n", orUnset(cfg.Telegram.BotToken))
	output.Printf("  Chat ID:   %s\n", orUnset(cfg.Telegram.ChatID))
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level: %s\n", cfg.Logging.Level)
	output.Printf("  File:  %v\n", cfg.Logging.File)
	if cfg.Metrics.Textfile != "" {
		output.Printf("  Metrics textfile: %s\n", cfg.Metrics.Textfile)
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
