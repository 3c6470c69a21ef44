package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "telegram-alerts/internal/errors"
	"telegram-alerts/internal/schedule"
)

func slotNames() []string {
	defs := schedule.DefaultSlots()
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, string(d.Slot))
	}
	return names
}

func newRemindCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind <slot>",
		Short: "Send the schedule reminder for a slot",
		Long: fmt.Sprintf(`Send the reminder for one slot of the day, evaluated in IST.

Slots: %s

Nothing is sent when the slot does not apply today (for example bath on a Monday).`,
			strings.Join(slotNames(), ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: slotNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			slot, ok := schedule.ParseSlot(args[0])
			if !ok {
				return fmt.Errorf("%w: %q (valid: %s)", apperrors.ErrUnknownSlot, args[0], strings.Join(slotNames(), ", "))
			}

			text, err := app.Schedule.Reminder(slot, app.Now())
			if err != nil {
				return err
			}
			if text == "" {
				app.Logger.Info().Str("slot", string(slot)).Msg("Slot does not apply today")
				NewOutput(cmd).Dim("No %s reminder today", slot)
				return nil
			}

			defer app.writeMetrics()
			return app.deliver(cmd, text, dryRun)
		},
	}

	cmd.Flags().Bool("dry-run", false, "print the reminder instead of sending it")
	return cmd
}

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the schedule plan",
	}

	var send bool
	show := func(render func() string) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			text := render()
			if send {
				defer app.writeMetrics()
				return app.deliver(cmd, text, false)
			}
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{"text": text})
			}
			output.Println(text)
			return nil
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Show every slot that applies today",
		Args:  cobra.NoArgs,
		RunE:  show(func() string { return app.Schedule.TodaysPlan(app.Now()) }),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "next",
		Short: "Show the next upcoming slot",
		Args:  cobra.NoArgs,
		RunE:  show(func() string { return app.Schedule.NextSlotText(app.Now()) }),
	})

	cmd.PersistentFlags().BoolVar(&send, "send", false, "send the plan to Telegram instead of printing it")
	return cmd
}
