package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/famtree/pkg/family"
)

func TestToDOT_PinsPositions(t *testing.T) {
	p := family.NewProject("t")
	p.People = []*family.Person{
		{ID: "a", Name: "Ann", X: 72, Y: 144},
		{ID: "b", Name: "Ben", X: 216, Y: 144, HasManualPos: true},
		{ID: "c", Name: "Cy", X: 144, Y: 288},
	}
	p.Relations = []family.Relation{
		{ID: "r1", Type: family.Spouse, AID: "a", BID: "b"},
		{ID: "r2", Type: family.ParentChild, AID: "a", BID: "c"},
		{ID: "r3", Type: family.ParentChild, AID: "ghost", BID: "c"},
	}

	dot := ToDOT(p, Options{})

	for _, want := range []string{
		"digraph famtree",
		`"a" [label="Ann", pos="1.0000,-2.0000!"]`,
		`pos="3.0000,-2.0000!", penwidth=2`,
		`"a" -> "c";`,
		`"a" -> "b" [dir=none, style=dashed`,
		"width=1.9444, height=0.9722",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "ghost") {
		t.Error("relation with unknown endpoint should be skipped")
	}
}

func TestToDOT_DuplicateIDs(t *testing.T) {
	p := family.NewProject("t")
	p.People = []*family.Person{{ID: "a", Name: "First"}, {ID: "a", Name: "Second"}}

	dot := ToDOT(p, Options{})
	if strings.Count(dot, `"a" [`) != 1 || strings.Contains(dot, "Second") {
		t.Errorf("duplicate id should be emitted once:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	p := &family.Person{ID: "p1", Name: "Walter", BirthYear: "1950", OriginCity: "Cork", OriginCountry: "Ireland"}

	if got := fmtLabel(p, false); got != "Walter" {
		t.Errorf("fmtLabel() simple = %q", got)
	}
	if got, want := fmtLabel(p, true), "Walter\nb. 1950\nCork, Ireland"; got != want {
		t.Errorf("fmtLabel() detailed = %q, want %q", got, want)
	}
	if got := fmtLabel(&family.Person{ID: "p9", OriginCountry: "Spain"}, true); got != "p9\nSpain" {
		t.Errorf("fmtLabel() country only = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if string(normalizeViewBox([]byte("<svg/>"))) != "<svg/>" {
		t.Error("svg without viewBox should pass through")
	}
}

func TestRenderSVG(t *testing.T) {
	p := family.Demo()
	for i, person := range p.People {
		person.X, person.Y = float64(100+i*160), 100
	}

	svg, err := RenderSVG(context.Background(), ToDOT(p, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("RenderSVG() did not produce SVG:\n%s", svg)
	}
	if !strings.Contains(string(svg), "Walter Hughes") {
		t.Error("rendered SVG missing a label")
	}
}
