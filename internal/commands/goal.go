package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/wrkout/internal/goals"
	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/parser"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage workout goals",
	}
	cmd.AddCommand(newGoalAddCmd())
	cmd.AddCommand(newGoalListCmd())
	cmd.AddCommand(newGoalShowCmd())
	cmd.AddCommand(newGoalRemoveCmd())
	return cmd
}

func newGoalAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a goal",
		Long: `Add a goal that completed workouts count toward.

Examples:
  wrkout goal add "Run 3 times" --metric workouts --target 3 --type running --due "1 week"
  wrkout goal add "Move 5 hours" --metric duration --target 5h
  wrkout goal add "Ride 100km" --metric distance --target 100km --type cycling --due 30/06/2025`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			metricStr, _ := flags.GetString("metric")
			metric, err := parser.ParseMetric(metricStr)
			if err != nil {
				return err
			}

			targetStr, _ := flags.GetString("target")
			target, err := parser.ParseTarget(metric, targetStr)
			if err != nil {
				return err
			}

			var workoutType models.WorkoutType
			if typeStr, _ := flags.GetString("type"); typeStr != "" {
				if workoutType, err = parser.ParseWorkoutType(typeStr); err != nil {
					return err
				}
			}

			dueStr, _ := flags.GetString("due")
			deadline, err := parser.ParseDeadline(dueStr, time.Now())
			if err != nil {
				return err
			}

			goal, err := a.goals.CreateGoal(ctx, goals.CreateGoalRequest{
				Title:       strings.Join(args, " "),
				WorkoutType: workoutType,
				Metric:      metric,
				Target:      target,
				Deadline:    deadline,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "🎯 New goal \"%s\" added - ID: %d\n", goal.Title, goal.ID)
			return nil
		}),
	}
	cmd.Flags().StringP("metric", "m", "workouts", "What to count: workouts, duration, calories, distance")
	cmd.Flags().StringP("target", "t", "", "Target amount (e.g. 3, 5h, 100km, 2000)")
	cmd.Flags().String("type", "", "Only count this workout type")
	cmd.Flags().String("due", "", "Deadline (dd/mm/yyyy, X days, X weeks)")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newGoalListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List goals",
		Args:    cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			all, _ := cmd.Flags().GetBool("all")

			list, err := a.goals.ListGoals(ctx, all)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No goals found. Use 'wrkout goal add' to create one.")
				return nil
			}

			now := time.Now()
			fmt.Fprintf(out, "%-4s %-30s %-10s %-20s %s\n", "ID", "TITLE", "TYPE", "PROGRESS", "DEADLINE")
			fmt.Fprintln(out, strings.Repeat("-", 80))
			for _, g := range list {
				title := g.Title
				if len(title) > 28 {
					title = title[:25] + "..."
				}
				typ := "any"
				if g.WorkoutType != "" {
					typ = string(g.WorkoutType)
				}
				deadline := parser.FormatDeadline(g.Deadline, now)
				if g.CompletedAt != nil {
					deadline = "✅ reached " + g.CompletedAt.Local().Format("02/01/2006")
				}

				fmt.Fprintf(out, "%-4d %-30s %-10s %-20s %s\n", g.ID, title, typ, formatProgress(g), deadline)
			}
			return nil
		}),
	}
	cmd.Flags().BoolP("all", "a", false, "Include reached goals")
	return cmd
}

func newGoalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [goal-id]",
		Short: "Show a goal and the workouts that counted toward it",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			id, err := parseGoalID(args[0])
			if err != nil {
				return err
			}
			goal, err := a.goals.GetGoal(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			typ := "any"
			if goal.WorkoutType != "" {
				typ = goal.WorkoutType.Label()
			}
			fmt.Fprintf(out, "#%d %s\n", goal.ID, goal.Title)
			fmt.Fprintf(out, "Type: %s\n", typ)
			fmt.Fprintf(out, "Metric: %s\n", goal.Metric)
			fmt.Fprintf(out, "Progress: %s\n", formatProgress(*goal))
			fmt.Fprintf(out, "Deadline: %s\n", parser.FormatDeadline(goal.Deadline, time.Now()))
			if goal.CompletedAt != nil {
				fmt.Fprintf(out, "Reached: %s\n", goal.CompletedAt.Local().Format("02/01/2006 15:04"))
			}

			if len(goal.Contributions) == 0 {
				fmt.Fprintln(out, "\nNo workouts counted yet")
				return nil
			}
			fmt.Fprintf(out, "\n%d workout(s) counted:\n", len(goal.Contributions))
			for _, c := range goal.Contributions {
				fmt.Fprintf(out, "  %s  %-8s +%s\n",
					c.CreatedAt.Local().Format("02/01/2006 15:04"), shortID(c.SessionID), formatAmount(goal.Metric, c.Amount))
			}
			return nil
		}),
	}
}

func newGoalRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [goal-id]",
		Short: "Remove a goal",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			id, err := parseGoalID(args[0])
			if err != nil {
				return err
			}
			if err := a.goals.DeleteGoal(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Removed goal #%d\n", id)
			return nil
		}),
	}
}

func formatProgress(g models.Goal) string {
	switch g.Metric {
	case models.MetricDuration:
		return fmt.Sprintf("%s / %s",
			formatDuration(time.Duration(g.Progress)*time.Second),
			formatDuration(time.Duration(g.Target)*time.Second))
	case models.MetricDistance:
		return fmt.Sprintf("%.1f / %.1f km", g.Progress, g.Target)
	case models.MetricCalories:
		return fmt.Sprintf("%.0f / %.0f kcal", g.Progress, g.Target)
	default:
		return fmt.Sprintf("%.0f / %.0f", g.Progress, g.Target)
	}
}

func parseGoalID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid goal ID '%s'", arg)
	}
	return uint(id), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatAmount(metric models.GoalMetric, amount float64) string {
	switch metric {
	case models.MetricDuration:
		return formatDuration(time.Duration(amount) * time.Second)
	case models.MetricDistance:
		return fmt.Sprintf("%.2f km", amount)
	case models.MetricCalories:
		return fmt.Sprintf("%.0f kcal", amount)
	default:
		return fmt.Sprintf("%.0f", amount)
	}
}
