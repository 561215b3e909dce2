package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	famio "github.com/matzehuels/famtree/pkg/io"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/layout"
)

// testCLI isolates XDG directories and captures command output.
func testCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	var out bytes.Buffer
	c := New(io.Discard, log.FatalLevel)
	c.Out = &out
	return c, &out
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writeDemo(t *testing.T, c *CLI, raw bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.json")
	args := []string{"demo", "-o", path}
	if raw {
		args = append(args, "--raw")
	}
	if err := execute(t, c, args...); err != nil {
		t.Fatalf("demo: %v", err)
	}
	return path
}

func load(t *testing.T, path string) *family.Project {
	t.Helper()
	p, _, err := famio.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDemoIsArranged(t *testing.T) {
	c, out := testCLI(t)
	path := writeDemo(t, c, false)

	p := load(t, path)
	if len(p.People) != 6 {
		t.Fatalf("demo has %d people, want 6", len(p.People))
	}
	grandparent, child := p.Person("p1"), p.Person("p3")
	if child.Y-grandparent.Y != layout.MustPreset(layout.DefaultPreset).VGap {
		t.Errorf("generation gap = %v", child.Y-grandparent.Y)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("output does not name %s:\n%s", path, out.String())
	}
}

func TestLayoutCommand(t *testing.T) {
	c, _ := testCLI(t)
	input := writeDemo(t, c, true)

	if err := execute(t, c, "layout", input, "--preset", "compact"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	p := load(t, withSuffix(input, ".layout.json"))
	if p.UI.Preset != layout.PresetCompact {
		t.Errorf("preset = %q, want compact", p.UI.Preset)
	}
	compact := layout.MustPreset(layout.PresetCompact)
	if got := p.Person("p1").Y; got != compact.Padding {
		t.Errorf("root row Y = %v, want %v", got, compact.Padding)
	}

	// The input file is left alone.
	if raw := load(t, input); raw.Person("p1").Y != 0 {
		t.Errorf("input was modified: p1.Y = %v", raw.Person("p1").Y)
	}
}

func TestLayoutUnknownPreset(t *testing.T) {
	c, _ := testCLI(t)
	input := writeDemo(t, c, true)
	if err := execute(t, c, "layout", input, "--preset", "huge"); err == nil {
		t.Fatal("expected an error for an unknown preset")
	}
}

func TestRenderCommand(t *testing.T) {
	c, out := testCLI(t)
	input := writeDemo(t, c, true)
	base := filepath.Join(t.TempDir(), "family")

	if err := execute(t, c, "render", input, "-f", "svg,dot", "-o", base+".svg"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svgData, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svgData, []byte("<svg")) || !bytes.Contains(svgData, []byte("Walter Hughes")) {
		t.Errorf("unexpected SVG:\n%s", svgData)
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(dot, []byte("digraph")) {
		t.Errorf("unexpected DOT:\n%s", dot)
	}
	if !strings.Contains(out.String(), iconFresh) {
		t.Errorf("first render should be fresh:\n%s", out.String())
	}

	out.Reset()
	if err := execute(t, c, "render", input, "-f", "svg,dot", "-o", base+".svg"); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !strings.Contains(out.String(), iconCached) {
		t.Errorf("second render should hit the cache:\n%s", out.String())
	}
}

func TestRenderRejectsBadOptions(t *testing.T) {
	c, _ := testCLI(t)
	input := writeDemo(t, c, true)

	for _, args := range [][]string{
		{"-f", "gif"},
		{"--theme", "neon"},
		{"--style", "sketch"},
		{"--scale", "100"},
	} {
		if err := execute(t, c, append([]string{"render", input, "--no-cache"}, args...)...); err == nil {
			t.Errorf("render %v: expected an error", args)
		}
	}
}

func TestLinkRefusesCycle(t *testing.T) {
	c, _ := testCLI(t)
	input := writeDemo(t, c, true)

	// p1 is p5's grandparent, so p1 cannot become p5's child.
	err := execute(t, c, "link", input, "child", "p5", "p1")
	if !errors.Is(err, family.ErrCycle) {
		t.Fatalf("err = %v, want ErrCycle", err)
	}
	if got := len(load(t, input).Relations); got != len(family.Demo().Relations) {
		t.Errorf("relations = %d after a refused edit", got)
	}
}

func TestLinkParentsCap(t *testing.T) {
	c, _ := testCLI(t)
	input := writeDemo(t, c, true)

	err := execute(t, c, "link", input, "parents", "p5", "p1")
	if !errors.Is(err, family.ErrTooManyParents) {
		t.Fatalf("err = %v, want ErrTooManyParents", err)
	}
}

func TestLinkAndUnlink(t *testing.T) {
	c, _ := testCLI(t)
	input := writeDemo(t, c, true)

	if err := execute(t, c, "link", input, "spouse", "p5", "p6", "--no-layout"); err != nil {
		t.Fatalf("link: %v", err)
	}
	p := load(t, input)
	var added string
	for _, r := range p.Relations {
		if r.Type == family.Spouse && r.Involves("p5") && r.Involves("p6") {
			added = r.ID
		}
	}
	if added == "" {
		t.Fatal("spouse relation not written")
	}
	if p.Person("p1").Y != 0 {
		t.Error("--no-layout should leave positions alone")
	}

	// A repeat is a no-op and leaves the file untouched.
	if err := execute(t, c, "link", input, "spouse", "p6", "p5"); err != nil {
		t.Fatalf("duplicate link: %v", err)
	}
	if got := len(load(t, input).Relations); got != len(p.Relations) {
		t.Errorf("duplicate link changed relations: %d", got)
	}

	if err := execute(t, c, "unlink", input, added); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	after := load(t, input)
	if len(after.Relations) != len(p.Relations)-1 {
		t.Errorf("relations = %d, want %d", len(after.Relations), len(p.Relations)-1)
	}
	if after.Person("p1").Y == 0 {
		t.Error("unlink should re-arrange the project")
	}

	if err := execute(t, c, "unlink", input, added); err == nil {
		t.Error("unlinking a missing relation should fail")
	}
}

func TestPresetsList(t *testing.T) {
	c, out := testCLI(t)
	presets := filepath.Join(t.TempDir(), "presets.toml")
	data := "[presets.poster]\nbased_on = \"spacious\"\nnode_width = 220\n"
	if err := os.WriteFile(presets, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, c, "presets", "list", "--presets", presets); err != nil {
		t.Fatalf("presets list: %v", err)
	}
	for _, name := range []string{"compact", "comfortable", "spacious", "poster", "220"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("presets table missing %q:\n%s", name, out.String())
		}
	}
}

func TestProjectsCommands(t *testing.T) {
	c, out := testCLI(t)
	input := writeDemo(t, c, true)
	dir := t.TempDir()

	if err := execute(t, c, "projects", "--dir", dir, "save", input, "--name", "hughes"); err != nil {
		t.Fatalf("save: %v", err)
	}
	out.Reset()
	if err := execute(t, c, "projects", "--dir", dir, "list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "hughes") {
		t.Errorf("list output missing project:\n%s", out.String())
	}

	exported := filepath.Join(t.TempDir(), "copy.json")
	if err := execute(t, c, "projects", "--dir", dir, "export", "hughes", "-o", exported); err != nil {
		t.Fatalf("export: %v", err)
	}
	if p := load(t, exported); p.Meta.ProjectName != "hughes" {
		t.Errorf("exported name = %q", p.Meta.ProjectName)
	}

	if err := execute(t, c, "projects", "--dir", dir, "delete", "hughes"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := execute(t, c, "projects", "--dir", dir, "export", "hughes"); err == nil {
		t.Error("export after delete should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	c, out := testCLI(t)
	if err := execute(t, c, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	want, _ := cacheDir()
	if strings.TrimSpace(out.String()) != want {
		t.Errorf("cache path = %q, want %q", out.String(), want)
	}

	input := writeDemo(t, c, true)
	if err := execute(t, c, "render", input, "-o", filepath.Join(t.TempDir(), "x.svg")); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := execute(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared 1 cached entries") {
		t.Errorf("clear output:\n%s", out.String())
	}
}

func TestPresetPicker(t *testing.T) {
	presets := layout.DefaultPresets()
	m := newPresetPicker(presets, layout.PresetComfortable)
	if m.names[m.cursor] != layout.PresetComfortable {
		t.Fatalf("cursor starts on %q", m.names[m.cursor])
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	picked := next.(presetPicker)
	// Names are sorted: comfortable, compact, spacious.
	if picked.selected != layout.PresetCompact {
		t.Errorf("selected = %q, want compact", picked.selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
	if !strings.Contains(picked.View(), "Select Layout Preset") {
		t.Error("view missing title")
	}

	quit, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if quit.(presetPicker).selected != "" {
		t.Error("esc should not select a preset")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "—"},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
		{time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC), "2001-02-03"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
