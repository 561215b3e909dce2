package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
	famio "github.com/matzehuels/famtree/pkg/io"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/session"
)

// editFlags are shared by link and unlink.
type editFlags struct {
	output   string
	noLayout bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: overwrite the input)")
	cmd.Flags().BoolVar(&f.noLayout, "no-layout", false, "keep positions as they are after the edit")
}

// linkCommand creates the link command for adding relations to a project file.
func (c *CLI) linkCommand() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "link [project.json] [parent|child|spouse|parents] [person] [other...]",
		Short: "Add a relation between people",
		Long: `Add a relation between people, seen from the first person.

  famtree link tree.json child p1 p7      p7 becomes a child of p1
  famtree link tree.json parent p7 p1     p1 becomes a parent of p7
  famtree link tree.json spouse p1 p2     p1 and p2 are married
  famtree link tree.json parents p7 p1 p2 p1 and p2 become p7's parents

Edits that would make someone their own ancestor are refused and nothing is
changed. The "parents" form also refuses to give anyone more than two
parents. Linking people who are already linked is a no-op.

The project is re-arranged after the edit unless --no-layout is given.`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], flags, func(ed *session.Editor) (bool, error) {
				return c.applyLink(ed, args[1], args[2], args[3:])
			})
		},
	}
	flags.register(cmd)

	return cmd
}

// unlinkCommand creates the unlink command for removing relations.
func (c *CLI) unlinkCommand() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "unlink [project.json] [relation-id...]",
		Short: "Remove relations by id",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], flags, func(ed *session.Editor) (bool, error) {
				changed := false
				for _, id := range args[1:] {
					if !ed.Unlink(id) {
						return false, apperrors.New(apperrors.ErrCodeNotFound, "no relation %q", id)
					}
					c.printInfo("removed %s", id)
					changed = true
				}
				return changed, nil
			})
		},
	}
	flags.register(cmd)

	return cmd
}

// applyLink performs one link edit. It reports whether anything was added.
func (c *CLI) applyLink(ed *session.Editor, kind, person string, others []string) (bool, error) {
	if kind == "parents" {
		added, err := ed.LinkParents(person, others...)
		if err != nil {
			return false, err
		}
		for _, rel := range added {
			c.printInfo("%s is a parent of %s", rel.AID, rel.BID)
		}
		return len(added) > 0, nil
	}

	if len(others) != 1 {
		return false, apperrors.New(apperrors.ErrCodeInvalidInput, "%s takes exactly one other person", kind)
	}
	rel, added, err := ed.Link(family.LinkKind(kind), person, others[0])
	if err != nil {
		return false, err
	}
	if !added {
		c.printInfo("already linked (%s)", rel.ID)
		return false, nil
	}
	c.printInfo("added %s %s", strings.ToLower(string(rel.Type)), rel.ID)
	return true, nil
}

// runEdit opens input in an editing session, applies edit, optionally
// re-arranges and writes the project back.
func (c *CLI) runEdit(ctx context.Context, input string, flags editFlags, edit func(*session.Editor) (bool, error)) error {
	p, err := c.readProject(input)
	if err != nil {
		return err
	}
	presets, err := c.loadPresets()
	if err != nil {
		return err
	}

	opts := []session.Option{
		session.WithLogger(c.Logger),
		session.WithPresets(presets),
		session.WithAutosaveDelay(0),
	}
	if flags.noLayout {
		// Keep the debounced pass from firing before the file is written.
		opts = append(opts, session.WithDebounce(time.Hour))
	}
	ed, err := session.New(p, opts...)
	if err != nil {
		return err
	}
	defer ed.Close(ctx)

	changed, err := edit(ed)
	if err != nil {
		return editError(err)
	}
	if !changed {
		return nil
	}

	if !flags.noLayout {
		res, err := ed.Layout(ctx)
		if err != nil {
			return fmt.Errorf("layout: %w", err)
		}
		for _, w := range res.Warnings {
			c.printWarning("%s: %s", w.Code, w.Message)
		}
	}

	output := flags.output
	if output == "" {
		output = input
	}
	if err := famio.ExportJSON(ed.Project(), output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	c.printSuccess("Saved")
	c.printFile(output)
	return nil
}

// editError annotates guard rejections so the exit message says what to fix.
func editError(err error) error {
	switch {
	case errors.Is(err, family.ErrCycle):
		return fmt.Errorf("refused: %w", err)
	case errors.Is(err, family.ErrTooManyParents):
		return fmt.Errorf("refused: %w (unlink an existing parent first)", err)
	default:
		return err
	}
}
