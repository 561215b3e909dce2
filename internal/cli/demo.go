package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	famio "github.com/matzehuels/famtree/pkg/io"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

// demoCommand creates the demo command, which writes a small sample project.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		output  string
		raw bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a sample project to start from",
		Long: `Write a sample project with three generations of one family.

The people are arranged with the default preset unless --raw is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := family.Demo()
			if !raw {
				runner := pipeline.NewRunner(nil, nil, c.Logger)
				_, positioned, err := runner.Layout(cmd.Context(), p, pipeline.Options{Logger: c.Logger})
				if err != nil {
					return fmt.Errorf("layout: %w", err)
				}
				p = positioned
			}
			if err := famio.ExportJSON(p, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			c.printSuccess("Wrote %s", p.Meta.ProjectName)
			c.printFile(output)
			c.printStats(len(p.People), len(p.Relations), 0, false)
			c.printNextStep("Render", appName+" render "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "demo.json", "output file")
	cmd.Flags().BoolVar(&raw, "raw", false, "write the people without arranging them")

	return cmd
}
