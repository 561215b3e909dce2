package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	famio "github.com/matzehuels/famtree/pkg/io"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

// layoutCommand creates the layout command for arranging a project.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		inPlace bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [project.json]",
		Short: "Arrange the people of a project",
		Long: `Arrange the people of a project into generations.

Every connected family is laid out as a tidy tree with couples side by side
and children centred under their parents. Families sit next to each other in
order of size; people without relations are lined up in a strip below.

The positioned project is written to <input>.layout.json unless --output or
--in-place is given. Use --preserve-manual to keep people you dragged by hand
where they are.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inPlace {
				output = args[0]
			}
			return c.runLayout(cmd.Context(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "overwrite the input file")
	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", "", "layout preset (default: the project's preset, else comfortable)")
	cmd.Flags().BoolVar(&opts.PreserveManual, "preserve-manual", false, "keep manually placed people where they are")
	cmd.MarkFlagsMutuallyExclusive("output", "in-place")

	return cmd
}

// runLayout loads the project, arranges it and writes the positioned copy.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options) error {
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

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, positioned, err := runner.Layout(ctx, p, opts)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	prog.done("Arranged", "people", len(res.Positions), "preset", opts.Preset)

	if err := ctx.Err(); err != nil {
		return err
	}

	positioned.UI.Preset = opts.Preset
	if output == "" {
		output = withSuffix(input, ".layout.json")
	}
	if err := famio.ExportJSON(positioned, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	c.printSuccess("Layout complete")
	c.printFile(output)
	c.printStats(len(positioned.People), len(positioned.Relations), len(res.Warnings), false)
	for _, w := range res.Warnings {
		c.printWarning("%s: %s", w.Code, w.Message)
	}
	if len(res.Skipped) > 0 {
		c.printDetail("kept %d manual positions", len(res.Skipped))
	}
	c.printNextStep("Render", appName+" render "+output)

	return nil
}
