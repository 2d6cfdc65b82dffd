package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/shapetile/internal/preview"
)

type previewOptions struct {
	layout  string
	desktop int
	windows int
	width   int
	height  int
	ratio   float64
	cols    int
	rows    int
	table   bool
	plain   bool
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	p := &previewOptions{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Draw how a layout would arrange windows",
		Long: `Lay out stand-in windows with the configured padding and split counts
and draw the result. No display or daemon is needed.`,
		Example: `  shapetile preview --layout horizontal --windows 4
  shapetile preview --ratio 0.65 --table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}

			params := preview.FromConfig(res.Config, p.desktop, p.windows, p.width, p.height)
			if p.layout != "" {
				params.Layout = strings.ToLower(p.layout)
			}
			params.MainRatio = p.ratio

			windows, _, err := preview.Simulate(params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s on %dx%d: %s\n", params.Layout, p.width, p.height, preview.Summary(windows))
			if p.plain {
				fmt.Fprintln(out, strings.Join(preview.Lines(windows, p.width, p.height, p.cols, p.rows), "\n"))
			} else {
				fmt.Fprintln(out, preview.Render(windows, p.width, p.height, p.cols, p.rows))
			}
			if p.table {
				fmt.Fprintln(out, preview.Table(windows))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.layout, "layout", "", "Layout to draw (default: the desktop's configured layout)")
	f.IntVar(&p.desktop, "desktop", 0, "Desktop whose workspace_layouts entry to use")
	f.IntVar(&p.windows, "windows", 3, "Number of windows")
	f.IntVar(&p.width, "width", 1920, "Screen width in pixels")
	f.IntVar(&p.height, "height", 1080, "Screen height in pixels")
	f.Float64Var(&p.ratio, "ratio", 0, "Main split ratio (default: layout default)")
	f.IntVar(&p.cols, "cols", 80, "Canvas width in characters")
	f.IntVar(&p.rows, "rows", 24, "Canvas height in characters")
	f.BoolVar(&p.table, "table", false, "Also print window geometry as a table")
	f.BoolVar(&p.plain, "plain", false, "Draw without colors")
	return cmd
}
