package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/wrkout/internal/report"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"ls", "list"},
		Short:   "List past workouts",
		Args:    cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			sessions, err := a.sessions.GetAll(ctx)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No workouts yet. Use 'wrkout start running' to begin your first one.")
				return nil
			}

			limit, _ := cmd.Flags().GetInt("limit")

			fmt.Fprintf(out, "%-17s %-18s %-12s %-9s %-8s %s\n", "STARTED", "TYPE", "STATUS", "DURATION", "KCAL", "KM")
			fmt.Fprintln(out, strings.Repeat("-", 76))

			for _, s := range report.Recent(sessions, limit) {
				kcal, km := "-", "-"
				if s.Calories != nil {
					kcal = fmt.Sprintf("%d", *s.Calories)
				}
				if s.Distance != nil && *s.Distance > 0 {
					km = fmt.Sprintf("%.2f", *s.Distance)
				}

				fmt.Fprintf(out, "%-17s %-18s %-12s %-9s %-8s %s\n",
					s.StartTime.Local().Format("02/01/2006 15:04"),
					s.Type.Label(),
					statusLabel(s.Status),
					formatDuration(s.Duration()),
					kcal,
					km)
			}
			return nil
		}),
	}
	cmd.Flags().IntP("limit", "n", 20, "Number of workouts to show (0 for all)")
	return cmd
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show this week's totals",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			sessions, err := a.sessions.GetAll(ctx)
			if err != nil {
				return err
			}

			summary := report.Weekly(sessions, time.Now())

			fmt.Fprintf(out, "This week (since %s)\n", summary.From.Format("Mon 02/01"))
			fmt.Fprintf(out, "Workouts: %d\n", summary.Count)
			fmt.Fprintf(out, "Duration: %s\n", formatDuration(summary.Duration))
			fmt.Fprintf(out, "Calories: %d kcal\n", summary.Calories)
			if summary.Distance > 0 {
				fmt.Fprintf(out, "Distance: %.2f km\n", summary.Distance)
			}

			if len(summary.ByType) > 0 {
				fmt.Fprintln(out)
				for _, tt := range summary.ByType {
					fmt.Fprintf(out, "  %s %-18s %2d × %s\n", tt.Type.Emoji(), tt.Type.Label(), tt.Count, formatDuration(tt.Duration))
				}
			}
			return nil
		}),
	}
}
