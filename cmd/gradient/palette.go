package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/gradient.report/internal/fsutil"
	"github.com/banshee-data/gradient.report/internal/palette"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newPaletteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "palette [palette.json]",
		Short: "Show the buckets of a palette and how slopes map to them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.PalettePath = &args[0]
			}
			pal := palette.Default()
			if p := a.cfg.GetPalettePath(); p != "" {
				var err error
				if pal, err = palette.Load(fsutil.OSFileSystem{}, p); err != nil {
					return err
				}
			}
			m, err := palette.NewMapper(a.cfg.MapperConfig(pal))
			if err != nil {
				return err
			}
			paletteTable(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

// paletteTable lists every slope from -1% to the saturation threshold with
// the opaque colour it maps to.
func paletteTable(w io.Writer, m *palette.Mapper) {
	pal := m.Palette()
	fmt.Fprintf(w, "palette %s, %d buckets, alpha %.2f\n", pal.Name, pal.Len(), m.Alpha())

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Slope %", "Rule", "Colour", "Intensity", ""})

	last := 0
	if b := pal.Buckets(); len(b) > 0 {
		last = b[len(b)-1]
	}
	for slope := -1; slope <= last+1; slope++ {
		c, src := m.Lookup(float64(slope), 1)
		swatch := ""
		if c.A > 0 {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Hex(c))).Render(strings.Repeat("█", 6))
		}
		tw.AppendRow(table.Row{
			slope,
			src,
			palette.CSS(c),
			fmt.Sprintf("%.1f", palette.Intensity(c)),
			swatch,
		})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
