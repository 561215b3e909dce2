package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/buildinfo"
	"github.com/matzehuels/famtree/pkg/cache"
	famio "github.com/matzehuels/famtree/pkg/io"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/layout"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "famtree"

	// presetsFile is the user presets file under the config directory.
	presetsFile = "presets.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output (status lines, tables, file paths).
	Out io.Writer

	// presetsPath overrides the XDG presets file; set by --presets.
	presetsPath string
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Famtree lays out and renders family trees",
		Long: `Famtree arranges the people of a family-tree project into generations,
keeping couples side by side and children centred under their parents,
and renders the result as SVG, PNG, PDF or Graphviz DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.PersistentFlags().StringVar(&c.presetsPath, "presets", "", "layout presets file (default: ~/.config/famtree/presets.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.unlinkCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.projectsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// loadPresets returns the built-in presets merged with the user's presets
// file, if one exists.
func (c *CLI) loadPresets() (layout.Presets, error) {
	path := c.presetsPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return layout.DefaultPresets(), nil
		}
		path = filepath.Join(dir, presetsFile)
	}
	presets, err := layout.LoadPresetFile(path)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}
	return presets, nil
}

// =============================================================================
// Project Files
// =============================================================================

// readProject imports a project file and logs every repair the importer made.
func (c *CLI) readProject(path string) (*family.Project, error) {
	p, report, err := famio.ImportJSON(path)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", path, err)
	}
	if report.Migrated {
		c.Logger.Info("Migrated project", "version", family.DataVersion)
	}
	for _, w := range report.Warnings {
		c.Logger.Warn("import", "msg", w)
	}
	return p, nil
}

// withSuffix derives an output path from input, e.g. "tree.json" -> "tree.layout.json".
func withSuffix(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/famtree/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// configDir returns the config directory using XDG standard (~/.config/famtree/).
func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return pipeline.DefaultFormats
	}
	return strings.Split(s, ",")
}
