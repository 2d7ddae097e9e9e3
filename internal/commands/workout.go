package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/parser"
	"github.com/balkashynov/wrkout/internal/tracker"
	"github.com/balkashynov/wrkout/internal/tui"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [type]",
		Short: "Start a workout",
		Long: `Start a workout. Opens the interactive timer by default, use --no-ui for a simple start.

Examples:
  wrkout start running        # Start with the interactive timer
  wrkout start yoga --no-ui   # Start without UI; stop later with 'wrkout stop'`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			workoutType, err := parser.ParseWorkoutType(args[0])
			if err != nil {
				return err
			}

			session, err := a.manager.Start(ctx, workoutType)
			if errors.Is(err, tracker.ErrSessionAlreadyActive) {
				current, _ := a.manager.Current()
				return fmt.Errorf("%s workout already active (%s). Stop it first with 'wrkout stop'",
					current.Type.Label(), a.manager.FormattedElapsed())
			}
			if err != nil {
				return err
			}

			noUI, _ := cmd.Flags().GetBool("no-ui")
			if noUI || !a.cfg.UI.Interactive {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s  Started %s\n", session.Type.Emoji(), session.Type.Label())
				fmt.Fprintf(out, "Started at: %s\n", session.StartTime.Format("15:04:05"))
				return nil
			}

			return runTimer(ctx, a, cmd.OutOrStdout())
		}),
	}
	cmd.Flags().Bool("no-ui", false, "Start without interactive timer")
	return cmd
}

// runTimer opens the timer view and reports how it ended
func runTimer(ctx context.Context, a *app, out io.Writer) error {
	final, stopped, err := tui.RunTimerTUI(ctx, a.manager)
	if err != nil {
		return err
	}
	if stopped {
		printSummary(out, final)
		return nil
	}
	if current, ok := a.manager.Current(); ok {
		fmt.Fprintf(out, "%s  %s still %s. Resume the timer with 'wrkout status --ui'\n",
			current.Type.Emoji(), current.Type.Label(), statusLabel(current.Status))
	}
	return nil
}

func newPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the current workout",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			session, err := a.manager.Pause(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "⏸️  Paused %s at %s\n", session.Type.Label(), a.manager.FormattedElapsed())
			return nil
		}),
	}
}

func newResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume the paused workout",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			session, err := a.manager.Resume(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "▶️  Resumed %s at %s\n", session.Type.Label(), a.manager.FormattedElapsed())
			return nil
		}),
	}
}

func newStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop and save the current workout",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			var opts []tracker.StopOption
			if d, _ := cmd.Flags().GetDuration("duration"); d > 0 {
				opts = append(opts, tracker.WithDuration(d))
			}

			session, err := a.manager.Stop(ctx, opts...)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), session)
			return nil
		}),
	}
	cmd.Flags().Duration("duration", 0, "Override the tracked duration (e.g. 45m)")
	return cmd
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current workout",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			session, ok := a.manager.Current()
			if !ok {
				fmt.Fprintln(out, "No active workout")
				return nil
			}

			if ui, _ := cmd.Flags().GetBool("ui"); ui {
				return runTimer(ctx, a, out)
			}

			fmt.Fprintf(out, "%s  %s (%s)\n", session.Type.Emoji(), session.Type.Label(), statusLabel(session.Status))
			fmt.Fprintf(out, "Started at: %s\n", session.StartTime.Format("15:04:05"))
			fmt.Fprintf(out, "Active time: %s\n", a.manager.FormattedElapsed())
			return nil
		}),
	}
	cmd.Flags().Bool("ui", false, "Open the interactive timer")
	return cmd
}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record measured values for the current workout",
		Long: `Record values measured by a device. Recorded values replace the estimates
computed when the workout stops.

Example:
  wrkout log --distance 5.2 --calories 410`,
		Args: cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			var m models.Measurements
			flags := cmd.Flags()
			if flags.Changed("calories") {
				v, _ := flags.GetInt("calories")
				m.Calories = &v
			}
			if flags.Changed("distance") {
				v, _ := flags.GetFloat64("distance")
				m.Distance = &v
			}
			if flags.Changed("steps") {
				v, _ := flags.GetInt("steps")
				m.Steps = &v
			}
			if m.Empty() {
				return fmt.Errorf("nothing to record. Use --calories, --distance or --steps")
			}

			if _, err := a.manager.RecordMeasurements(ctx, m); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "📝 Recorded measurements")
			return nil
		}),
	}
	cmd.Flags().Int("calories", 0, "Calories burned (kcal)")
	cmd.Flags().Float64("distance", 0, "Distance (km)")
	cmd.Flags().Int("steps", 0, "Step count")
	return cmd
}

func printSummary(out io.Writer, s models.Session) {
	fmt.Fprintf(out, "⏹️  Completed %s %s\n", s.Type.Emoji(), s.Type.Label())
	fmt.Fprintf(out, "Duration: %s\n", formatDuration(s.Duration()))
	if s.Calories != nil {
		fmt.Fprintf(out, "Calories: %d kcal\n", *s.Calories)
	}
	if s.Distance != nil && *s.Distance > 0 {
		fmt.Fprintf(out, "Distance: %.2f km\n", *s.Distance)
	}
	if s.Steps != nil && *s.Steps > 0 {
		fmt.Fprintf(out, "Steps: %d\n", *s.Steps)
	}
}

func statusLabel(s models.Status) string {
	switch s {
	case models.StatusInProgress:
		return "in progress"
	case models.StatusPaused:
		return "paused"
	case models.StatusCompleted:
		return "completed"
	case models.StatusCancelled:
		return "cancelled"
	}
	return string(s)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
