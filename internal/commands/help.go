package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/wrkout/internal/models"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Show comprehensive help for wrkout",
		Long:  `Display detailed help for all wrkout commands and flags.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), customHelp)
		},
	}
}

const customHelp = `
wrkout - CLI Workout Tracker

WORKOUTS:

  start <type>            Start a workout (running, cycling, swimming, strength, yoga, walking)
    --no-ui               Skip the interactive timer

    Timer keys:
      p / r         Pause / resume
      s             Stop and save
      q/esc         Leave the workout running and exit

  pause                   Pause the current workout
  resume                  Resume the paused workout
  stop                    Stop and save the current workout
    --duration            Override the tracked duration (e.g. 45m)
  status                  Show the current workout
    --ui                  Open the interactive timer
  log                     Record measured values for the current workout
    --calories, --distance, --steps

HISTORY:

  history                 List past workouts (alias: ls)
    -n, --limit           Number of workouts to show
  week                    Show this week's totals
  export                  Export history
    -f, --format          yaml | json

GOALS:

  goal add <title>        Add a goal
    -m, --metric          workouts | duration | calories | distance
    -t, --target          Target amount (3, 5h, 100km, 2000)
    --type                Only count one workout type
    --due                 Deadline (dd/mm/yyyy, X days, X weeks)
  goal ls                 List goals (-a to include reached goals)
  goal show <id>          Show a goal and the workouts counted toward it
  goal rm <id>            Remove a goal

  types                   List workout types
  version                 Show version
  help                    Show this help

`

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List workout types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			var b strings.Builder
			for _, t := range models.AllWorkoutTypes {
				fmt.Fprintf(&b, "%s  %-10s %s\n", t.Emoji(), t, t.Label())
			}
			fmt.Fprint(cmd.OutOrStdout(), b.String())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wrkout %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
