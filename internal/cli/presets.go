package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	famio "github.com/matzehuels/famtree/pkg/io"
	"github.com/matzehuels/famtree/pkg/layout"
	"github.com/matzehuels/famtree/pkg/session"
)

// presetsCommand creates the presets command group.
func (c *CLI) presetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List or choose layout presets",
		Long: `List or choose layout presets.

Besides the built-in compact, comfortable and spacious presets, presets can be
defined in ~/.config/famtree/presets.toml:

  [presets.poster]
  based_on = "spacious"
  node_width = 200
  max_row_width = 3000

Omitted values are taken from based_on (default comfortable).`,
	}

	cmd.AddCommand(c.presetsListCommand())
	cmd.AddCommand(c.presetsPickCommand())

	return cmd
}

// presetsListCommand creates the "presets list" subcommand.
func (c *CLI) presetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every available preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := c.loadPresets()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, presetTable(presets, layout.DefaultPreset, -1))
			if dir, err := configDir(); err == nil && c.presetsPath == "" {
				c.printDetail("User presets: %s", filepath.Join(dir, presetsFile))
			}
			return nil
		},
	}
}

// presetsPickCommand creates the "presets pick" subcommand.
func (c *CLI) presetsPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick [project.json]",
		Short: "Choose a preset interactively",
		Long: `Choose a preset interactively.

Without a project the chosen name is printed. With a project the preset is
stored in it and the project is re-arranged with the new spacing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := c.loadPresets()
			if err != nil {
				return err
			}

			current := layout.DefaultPreset
			var input string
			if len(args) == 1 {
				input = args[0]
				p, err := c.readProject(input)
				if err != nil {
					return err
				}
				if p.UI.Preset != "" {
					current = p.UI.Preset
				}
			}

			final, err := tea.NewProgram(newPresetPicker(presets, current)).Run()
			if err != nil {
				return fmt.Errorf("preset picker: %w", err)
			}
			picked := final.(presetPicker).selected
			if picked == "" {
				c.printInfo("No preset chosen")
				return nil
			}
			if input == "" {
				fmt.Fprintln(c.Out, picked)
				return nil
			}
			return c.applyPreset(cmd, input, picked, presets)
		},
	}
}

// applyPreset switches the project at input to preset and re-arranges it.
func (c *CLI) applyPreset(cmd *cobra.Command, input, preset string, presets layout.Presets) error {
	p, err := c.readProject(input)
	if err != nil {
		return err
	}
	ed, err := session.New(p, session.WithLogger(c.Logger), session.WithPresets(presets), session.WithAutosaveDelay(0))
	if err != nil {
		return err
	}
	defer ed.Close(cmd.Context())

	if _, err := ed.SetPreset(cmd.Context(), preset); err != nil {
		return err
	}
	if err := famio.ExportJSON(ed.Project(), input); err != nil {
		return fmt.Errorf("write %s: %w", input, err)
	}
	c.printSuccess("Switched to %s", preset)
	c.printFile(input)
	return nil
}
