package layout_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/layout"
)

func ExampleArrange() {
	people := []*family.Person{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	relations := []family.Relation{
		{ID: "r1", Type: family.Spouse, AID: "A", BID: "B"},
		{ID: "r2", Type: family.ParentChild, AID: "A", BID: "C"},
		{ID: "r3", Type: family.ParentChild, AID: "B", BID: "C"},
	}

	if _, err := layout.Arrange(people, relations, layout.MustPreset(layout.PresetComfortable)); err != nil {
		panic(err)
	}
	for _, p := range people {
		fmt.Printf("%s (%g, %g)\n", p.ID, p.X, p.Y)
	}
	// Output:
	// A (170, 100)
	// B (330, 100)
	// C (250, 220)
}

func ExampleGraph_TrueRoots() {
	// Daniel's parents are known; Sofia married in and is drawn beside him.
	g := layout.BuildGraph(
		[]string{"walter", "daniel", "sofia"},
		[]family.Relation{
			{Type: family.ParentChild, AID: "walter", BID: "daniel"},
			{Type: family.Spouse, AID: "daniel", BID: "sofia"},
		},
	)
	fmt.Println(g.TrueRoots(g.Components()[0]))
	// Output: [walter]
}

func ExampleLoadPresets() {
	presets, err := layout.LoadPresets(strings.NewReader(`
[presets.poster]
based_on = "spacious"
node_width = 200
`))
	if err != nil {
		panic(err)
	}
	cfg, _ := presets.Get("poster")
	fmt.Println(cfg.NodeWidth, cfg.NodeHeight)
	// Output: 200 80
}
