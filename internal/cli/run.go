package cli

import (
	"github.com/spf13/cobra"

	apperrors "telegram-alerts/internal/errors"
	"telegram-alerts/internal/notify"
	"telegram-alerts/internal/tracker"
)

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check every tracker and send one combined message",
		Long: `Fetch every configured listing and city search in order, format the results
and post them to Telegram as a single message.

Entities that cannot be fetched show up as a warning line in the message.
Exits non-zero only when the message could not be sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			defer app.writeMetrics()

			runner := tracker.NewRunner(
				app.Fetcher,
				app.Config.FormatOptions(),
				app.Logger,
				tracker.WithRecorder(app.Metrics),
				tracker.WithClock(app.Now),
			)

			text, err := runner.RunAll(cmd.Context(), app.Config.Trackers())
			if err != nil {
				if apperrors.Is(err, apperrors.ErrNothingToSend) {
					app.Logger.Info().Msg("Nothing to send")
					NewOutput(cmd).Dim("Nothing to send")
					return nil
				}
				return err
			}
			return app.deliver(cmd, text, dryRun)
		},
	}

	cmd.Flags().Bool("dry-run", false, "print the message instead of sending it")
	return cmd
}

// deliver sends text through the configured notifier, or prints it on a dry run.
func (a *App) deliver(cmd *cobra.Command, text string, dryRun bool) error {
	output := NewOutput(cmd)

	var n notify.Notifier = a.Notifier
	if dryRun {
		n = notify.NewTerminalNotifier(cmd.OutOrStdout())
	}

	err := n.Send(cmd.Context(), text)
	a.Metrics.RecordNotification(n.Name(), err == nil)
	if err != nil {
		if output.IsJSON() {
			output.JSON(map[string]interface{}{"sent": false, "channel": n.Name(), "error": err.Error()})
		} else {
			output.Error("✗ Failed to send via %s: %v", n.Name(), err)
		}
		return apperrors.Wrapf(err, "delivering via %s", n.Name())
	}

	if dryRun {
		return nil
	}
	if output.IsJSON() {
		return output.JSON(map[string]interface{}{"sent": true, "channel": n.Name(), "length": len(text)})
	}
	output.Success("✓ Sent via %s", n.Name())
	return nil
}
