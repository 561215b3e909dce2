package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/pipeline"
	"github.com/matzehuels/famtree/pkg/render"
)

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [project.json]",
		Short: "Render a project to SVG, PNG, PDF or DOT",
		Long: `Render a project to SVG, PNG, PDF or Graphviz DOT.

The project is arranged first unless --skip-layout is given, in which case
the stored positions are drawn as they are. PNG and PDF need rsvg-convert on
the PATH.

With a single format, --output names the file. With several formats it is a
base path and each artifact gets its format's extension.

Rendered artifacts are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", "", "layout preset (default: the project's preset)")
	cmd.Flags().BoolVar(&opts.PreserveManual, "preserve-manual", false, "keep manually placed people where they are")
	cmd.Flags().BoolVar(&opts.SkipLayout, "skip-layout", false, "draw stored positions without arranging")

	// Drawing flags
	cmd.Flags().StringVar(&opts.Style, "style", "", "drawing style: cards (default), graph (Graphviz node-link)")
	cmd.Flags().StringVar(&opts.EdgeStyle, "edges", "", "edge style: curved (default), orthogonal")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "colour theme: light (default), dark")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "highlight people matching a search term")
	cmd.Flags().StringVar(&opts.Country, "country", "", "highlight people from an origin country")
	cmd.Flags().StringVar(&opts.City, "city", "", "highlight people from an origin city")
	cmd.Flags().StringVar(&opts.Selected, "selected", "", "person id to draw as selected")
	cmd.Flags().BoolVar(&opts.NoBadges, "no-badges", false, "hide the manual-position badge")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, fmt.Sprintf("PNG scale factor (default %g)", pipeline.DefaultScale))
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include years and origin in DOT and graph-style labels")

	return cmd
}

// runRender loads the project, runs the pipeline and writes each artifact.
func (c *CLI) runRender(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	p, err := c.readProject(input)
	if err != nil {
		return err
	}
	presets, err := c.loadPresets()
	if err != nil {
		return err
	}
	if opts.Preset == "" {
		opts.Preset = p.UI.Preset
	}
	opts.PreserveManual = opts.PreserveManual || p.UI.LockManualPositions
	opts.Presets = presets
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	for _, name := range opts.Formats {
		if render.Format(name).NeedsConverter() && !render.Available() {
			return fmt.Errorf("format %s needs rsvg-convert on the PATH", name)
		}
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spin.Start()
	result, err := runner.Execute(ctx, p, opts)
	spin.Stop()
	if err != nil {
		c.printError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	paths := outputPaths(input, output, opts.Formats)
	c.printSuccess("Rendered %s", result.Project.Meta.ProjectName)
	for _, name := range opts.Formats {
		path := paths[name]
		if err := os.WriteFile(path, result.Artifacts[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		c.printFile(path)
	}
	c.printStats(result.Stats.People, result.Stats.Relations, result.Stats.Warnings, result.CacheInfo.RenderHit)
	c.Logger.Debug("Render timings", "layout", result.Stats.LayoutTime, "render", result.Stats.RenderTime)

	return nil
}

// outputPaths maps each format to its output file. A single format uses
// output verbatim when given; otherwise output (or the input path) is a base
// whose extension is replaced per format.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = input
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
