package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/banshee-data/gradient.report/internal/db"
	"github.com/banshee-data/gradient.report/internal/dem"
	"github.com/banshee-data/gradient.report/internal/fsutil"
	"github.com/banshee-data/gradient.report/internal/metrics"
	"github.com/banshee-data/gradient.report/internal/palette"
	"github.com/banshee-data/gradient.report/internal/pipeline"
	"github.com/banshee-data/gradient.report/internal/render"
	"github.com/banshee-data/gradient.report/internal/segment"
	"github.com/banshee-data/gradient.report/internal/track"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Output formats of the profile command.
const (
	FormatPNG  = "png"
	FormatHTML = "html"
	FormatTerm = "term"
)

type profileFlags struct {
	dem         string
	palette     string
	tolerance   float64
	policy      string
	units       string
	title       string
	format      string
	out         string
	db          string
	metricsFile string
	cols        int
	rows        int
}

func newProfileCmd(a *app) *cobra.Command {
	pf := &profileFlags{}
	cmd := &cobra.Command{
		Use:   "profile <track.gpx>",
		Short: "Render the slope-coloured elevation profile of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf.apply(cmd, a)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runProfile(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], pf)
		},
	}
	f := cmd.Flags()
	f.StringVar(&pf.dem, "dem", "", "elevation raster (.hgt, .hgt.zip, .asc); recorded elevations are used when empty")
	f.StringVar(&pf.palette, "palette", "", "palette JSON file; the built-in palette when empty")
	f.Float64Var(&pf.tolerance, "tolerance", 0, "simplification tolerance in meters")
	f.StringVar(&pf.policy, "policy", "", "out-of-bounds policy: drop, gap or abort")
	f.StringVar(&pf.units, "units", "", "label units: metric or imperial")
	f.StringVar(&pf.title, "title", "", "chart title; the track name when empty")
	f.StringVarP(&pf.format, "format", "f", FormatPNG, "output format: png, html or term")
	f.StringVarP(&pf.out, "out", "o", "", "output file, - for stdout; derived from the track name when empty")
	f.StringVar(&pf.db, "db", "", "sqlite run archive; archiving is off when empty")
	f.StringVar(&pf.metricsFile, "metrics-file", "", "write prometheus textfile metrics to this path")
	f.IntVar(&pf.cols, "cols", 0, "terminal chart width in columns")
	f.IntVar(&pf.rows, "rows", 0, "terminal chart height in rows")
	return cmd
}

// apply copies explicitly set flags over the loaded configuration.
func (pf *profileFlags) apply(cmd *cobra.Command, a *app) {
	f := cmd.Flags()
	if f.Changed("dem") {
		a.cfg.DEMPath = &pf.dem
	}
	if f.Changed("palette") {
		a.cfg.PalettePath = &pf.palette
	}
	if f.Changed("tolerance") {
		a.cfg.ToleranceM = &pf.tolerance
	}
	if f.Changed("policy") {
		a.cfg.OutOfBoundsPolicy = &pf.policy
	}
	if f.Changed("units") {
		a.cfg.Units = &pf.units
	}
	if f.Changed("title") {
		a.cfg.Title = &pf.title
	}
	if f.Changed("db") {
		a.cfg.DBPath = &pf.db
	}
}

func (a *app) runProfile(ctx context.Context, stdout, stderr io.Writer, path string, pf *profileFlags) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch pf.format {
	case FormatPNG, FormatHTML, FormatTerm:
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", pf.format, FormatPNG, FormatHTML, FormatTerm)
	}

	fsys := fsutil.OSFileSystem{}
	t, err := track.Load(fsys, path)
	if err != nil {
		return err
	}

	pal := palette.Default()
	if p := a.cfg.GetPalettePath(); p != "" {
		if pal, err = palette.Load(fsys, p); err != nil {
			return err
		}
	}
	mapper, err := palette.NewMapper(a.cfg.MapperConfig(pal))
	if err != nil {
		return err
	}

	in := pipeline.Input{Track: t}
	if p := a.cfg.GetDEMPath(); p != "" {
		grid, err := dem.Open(fsys, p)
		if err != nil {
			return err
		}
		in.Raster = grid
	}

	var m *metrics.Metrics
	if pf.metricsFile != "" {
		m = metrics.New()
		defer func() {
			if err := m.WriteTextfile(pf.metricsFile); err != nil {
				a.logger.Warn("failed to write metrics", zap.String("path", pf.metricsFile), zap.Error(err))
			}
		}()
	}

	res, err := pipeline.Run(ctx, in, pipeline.Options{
		Tolerance: a.cfg.GetToleranceM(),
		Policy:    a.cfg.GetOutOfBoundsPolicy(),
		Mapper:    mapper,
		Units:     a.cfg.GetUnits(),
		Metrics:   m,
	})
	if err != nil {
		return err
	}
	a.logger.Info("profile assembled",
		zap.String("track", t.Name),
		zap.Int("points", t.Len()),
		zap.Int("simplified", len(res.Simplified)),
		zap.Int("segments", len(res.Profile.Segments)))

	opts := render.Options{
		Title:   a.cfg.GetTitle(),
		Width:   a.cfg.GetChartWidthIn(),
		Height:  a.cfg.GetChartHeightIn(),
		Columns: pf.cols,
		Rows:    pf.rows,
	}
	out := outputPath(path, pf)
	// Binary or markup on stdout keeps the report off it.
	report := stdout
	if out == "-" && pf.format != FormatTerm {
		report = stderr
	}
	if err := writeOutput(fsys, stdout, report, out, pf.format, res.Profile, opts); err != nil {
		return err
	}

	if dbPath := a.cfg.GetDBPath(); dbPath != "" {
		r := db.NewRun(res.Profile, path, pal.Name, a.cfg.GetToleranceM(), t.Len())
		r.CreatedAt = res.StartedAt.UTC()
		id, err := archive(ctx, dbPath, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(report, "archived run %s\n", id)
	}
	summaryTable(report, res.Profile)
	return nil
}

// outputPath is the explicit --out, stdout for terminal output, or the track
// path with the format's extension.
func outputPath(track string, pf *profileFlags) string {
	if pf.out != "" {
		return pf.out
	}
	if pf.format == FormatTerm {
		return "-"
	}
	return strings.TrimSuffix(track, filepath.Ext(track)) + "." + pf.format
}

func writeOutput(fsys fsutil.FileSystem, stdout, report io.Writer, path, format string, p segment.Profile, o render.Options) error {
	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		if err := render.PNG(&buf, p, o); err != nil {
			return err
		}
	case FormatHTML:
		if err := render.HTML(&buf, p, o); err != nil {
			return err
		}
	case FormatTerm:
		s, err := render.Terminal(p, o)
		if err != nil {
			return err
		}
		buf.WriteString(s)
		buf.WriteByte('\n')
	}
	if path == "-" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := fsutil.WriteFile(fsys, path, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(report, "wrote %s\n", path)
	return nil
}

func archive(ctx context.Context, path string, r db.Run) (string, error) {
	store, err := db.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open run archive: %w", err)
	}
	defer store.Close()
	return store.SaveRun(ctx, r)
}
