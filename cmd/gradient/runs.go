package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/banshee-data/gradient.report/internal/db"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newRunsCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List, show or delete archived profile runs",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite run archive")

	open := func(cmd *cobra.Command) (*db.DB, error) {
		if cmd.Flags().Changed("db") {
			a.cfg.DBPath = &dbPath
		}
		path := a.cfg.GetDBPath()
		if path == "" {
			return nil, fmt.Errorf("no run archive: pass --db or set GRADIENT_DB")
		}
		return db.Open(path)
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List runs newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			runsTable(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list, 0 for all")

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run and its segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			r, err := store.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			runDetail(cmd.OutOrStdout(), r)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func runsTable(w io.Writer, runs []db.Run) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Track", "Created", "Distance km", "Ascent m", "Max slope %", "Points"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID,
			r.TrackName,
			r.CreatedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%.1f", r.TotalDistance/1000),
			fmt.Sprintf("%.0f", r.Ascent),
			optionalSlope(r.MaxSlope),
			fmt.Sprintf("%d/%d", r.PointsKept, r.PointsIn),
		})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", "Runs", len(runs)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

func runDetail(w io.Writer, r db.Run) {
	fmt.Fprintf(w, "%s  %s\n", r.ID, r.TrackName)
	fmt.Fprintf(w, "source %s, palette %s, tolerance %.1f m, %s\n", r.SourcePath, r.Palette, r.ToleranceM, r.Units)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "From km", "To km", "Elevation m", "Slope %", "Fill"})
	for _, s := range r.Segments {
		slope := "n/a"
		if !math.IsNaN(s.Slope) {
			slope = fmt.Sprintf("%.1f", s.Slope)
		}
		if s.Gap {
			slope = "gap"
		}
		tw.AppendRow(table.Row{
			s.Index,
			fmt.Sprintf("%.2f", s.StartDistance/1000),
			fmt.Sprintf("%.2f", s.EndDistance/1000),
			fmt.Sprintf("%.0f → %.0f", s.StartElevation, s.EndElevation),
			slope,
			s.Fill,
		})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

func optionalSlope(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
