package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	famio "github.com/matzehuels/famtree/pkg/io"
	"github.com/matzehuels/famtree/pkg/store"
)

// storeFlags select the project store shared by the projects subcommands.
type storeFlags struct {
	dir      string
	mongoURI string
	database string
}

// open returns a MongoDB store when a URI is set, otherwise a file store.
func (f *storeFlags) open(ctx context.Context) (store.Store, error) {
	if f.mongoURI != "" {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      f.mongoURI,
			Database: f.database,
			Timeout:  10 * time.Second,
		})
	}
	return store.NewFileStore(f.dir)
}

// projectsCommand creates the projects command group.
func (c *CLI) projectsCommand() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage stored projects",
		Long: `Manage stored projects.

Projects are kept as JSON files in ~/.local/share/famtree/projects, or in a
MongoDB collection when --mongo is given.`,
	}

	cmd.PersistentFlags().StringVar(&flags.dir, "dir", "", "project directory (default: ~/.local/share/famtree/projects)")
	cmd.PersistentFlags().StringVar(&flags.mongoURI, "mongo", "", "MongoDB connection URI")
	cmd.PersistentFlags().StringVar(&flags.database, "mongo-db", "", "MongoDB database (default: famtree)")

	cmd.AddCommand(c.projectsListCommand(&flags))
	cmd.AddCommand(c.projectsSaveCommand(&flags))
	cmd.AddCommand(c.projectsExportCommand(&flags))
	cmd.AddCommand(c.projectsDeleteCommand(&flags))

	return cmd
}

func (c *CLI) projectsListCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			summaries, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				c.printInfo("No stored projects")
				return nil
			}
			fmt.Fprintln(c.Out, projectTable(summaries))
			return nil
		},
	}
}

func (c *CLI) projectsSaveCommand(flags *storeFlags) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save [project.json]",
		Short: "Copy a project file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.readProject(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				p.Meta.ProjectName = name
			}

			s, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Save(cmd.Context(), p); err != nil {
				return err
			}
			c.printSuccess("Saved %s", p.Meta.ProjectName)
			if fs, ok := s.(*store.FileStore); ok {
				c.printFile(fs.Path(p.Meta.ProjectName))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "store under this name (default: the project's name)")
	return cmd
}

func (c *CLI) projectsExportCommand(flags *storeFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Write a stored project to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0] + ".json"
			}
			if err := famio.ExportJSON(p, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			c.printSuccess("Exported %s", args[0])
			c.printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")
	return cmd
}

func (c *CLI) projectsDeleteCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

func projectTable(summaries []store.Summary) string {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.Name,
			strconv.Itoa(s.People),
			strconv.Itoa(s.Relations),
			formatRelativeTime(s.UpdatedAt),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Project", "People", "Relations", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case col == 0:
				return listNormalStyle
			default:
				return listDimStyle
			}
		}).
		Render()
}

// formatRelativeTime renders t as "just now", "5m ago", "3h ago", "2d ago"
// or a date for anything older than a month.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
