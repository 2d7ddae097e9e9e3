package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/report"
)

// exportedSession is the stable shape written by `wrkout export`
type exportedSession struct {
	ID              string     `json:"id" yaml:"id"`
	Type            string     `json:"type" yaml:"type"`
	Status          string     `json:"status" yaml:"status"`
	StartTime       time.Time  `json:"start_time" yaml:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	DurationSeconds int        `json:"duration_seconds" yaml:"duration_seconds"`
	Calories        *int       `json:"calories,omitempty" yaml:"calories,omitempty"`
	Distance        *float64   `json:"distance_km,omitempty" yaml:"distance_km,omitempty"`
	Steps           *int       `json:"steps,omitempty" yaml:"steps,omitempty"`
}

func toExported(s models.Session) exportedSession {
	return exportedSession{
		ID:              s.ID,
		Type:            string(s.Type),
		Status:          string(s.Status),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationSeconds: s.DurationSeconds,
		Calories:        s.Calories,
		Distance:        s.Distance,
		Steps:           s.Steps,
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export workout history as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			sessions, err := a.sessions.GetAll(ctx)
			if err != nil {
				return err
			}

			ordered := report.Recent(sessions, 0)
			out := make([]exportedSession, 0, len(ordered))
			for _, s := range ordered {
				out = append(out, toExported(s))
			}

			return writeExport(cmd.OutOrStdout(), format, out)
		}),
	}
	cmd.Flags().StringP("format", "f", "yaml", "Output format: yaml or json")
	return cmd
}

func writeExport(w io.Writer, format string, sessions []exportedSession) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sessions); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	default:
		return fmt.Errorf("unknown format %q. Use yaml or json", format)
	}
}
