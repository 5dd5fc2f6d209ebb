package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/gradient.report/internal/dem"
	"github.com/banshee-data/gradient.report/internal/fsutil"
	"github.com/banshee-data/gradient.report/internal/track"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newEnrichCmd(a *app) *cobra.Command {
	var demPath, policy, out string
	cmd := &cobra.Command{
		Use:   "enrich <track.gpx>",
		Short: "Replace a track's elevations with values sampled from a DEM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("dem") {
				a.cfg.DEMPath = &demPath
			}
			if cmd.Flags().Changed("policy") {
				a.cfg.OutOfBoundsPolicy = &policy
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if a.cfg.GetDEMPath() == "" {
				return fmt.Errorf("no elevation raster: pass --dem or set GRADIENT_DEM")
			}
			if out == "" {
				in := args[0]
				out = strings.TrimSuffix(in, filepath.Ext(in)) + ".dem.gpx"
			}
			return a.runEnrich(cmd.OutOrStdout(), args[0], out)
		},
	}
	cmd.Flags().StringVar(&demPath, "dem", "", "elevation raster (.hgt, .hgt.zip, .asc)")
	cmd.Flags().StringVar(&policy, "policy", "", "out-of-bounds policy: drop, gap or abort")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output GPX file; <track>.dem.gpx when empty")
	return cmd
}

func (a *app) runEnrich(stdout io.Writer, in, out string) error {
	fsys := fsutil.OSFileSystem{}
	t, err := track.Load(fsys, in)
	if err != nil {
		return err
	}
	grid, err := dem.Open(fsys, a.cfg.GetDEMPath())
	if err != nil {
		return err
	}
	enriched, report, err := dem.Enrich(t, grid, a.cfg.GetOutOfBoundsPolicy())
	if err != nil {
		return err
	}
	if err := track.Save(fsys, out, enriched); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", out)
	enrichTable(stdout, report)
	return nil
}

func enrichTable(w io.Writer, r dem.EnrichReport) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Input", "Sampled", "No data", "Out of bounds", "Dropped"})
	tw.AppendRow(table.Row{r.Input, r.Sampled, r.NoData, r.OutOfBounds, r.Dropped})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
