package analysis

import (
	"sort"

	"github.com/KaramelBytes/timestudy-cli/internal/groups"
	"github.com/KaramelBytes/timestudy-cli/internal/records"
)

// UngroupedLabel names the synthetic node holding activities outside every group.
const UngroupedLabel = "Ungrouped"

// Kind tells a node's role in the result tree.
type Kind string

const (
	KindRoot      Kind = "root"
	KindGroup     Kind = "group"
	KindUngrouped Kind = "ungrouped"
	KindActivity  Kind = "activity"
)

// Node is one entry of the result tree. Stats is nil for the root and the
// ungrouped wrapper.
type Node struct {
	Label    string  `json:"label"`
	Kind     Kind    `json:"kind"`
	Color    string  `json:"color,omitempty"`
	Stats    *Bundle `json:"stats,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Walk visits n and its descendants depth first with their depth below n.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	var visit func(*Node, int)
	visit = func(x *Node, d int) {
		fn(x, d)
		for _, c := range x.Children {
			visit(c, d+1)
		}
	}
	visit(n, 0)
}

// BuildTree assembles group and activity statistics from the current records.
// Groups appear in creation order with members in membership order; groups or
// members without records are omitted. Ungrouped activities are sorted by name
// and wrapped in an Ungrouped node only when at least one group exists.
func BuildTree(c *records.Collection, reg *groups.Registry) *Node {
	root := &Node{Label: "Results", Kind: KindRoot}
	byAct := c.ByActivity()

	if reg != nil {
		for _, g := range reg.Groups {
			if len(g.Activities) == 0 {
				continue
			}
			var vals []float64
			for _, a := range g.Activities {
				vals = append(vals, byAct[a]...)
			}
			stats := Compute(vals)
			if stats == nil {
				continue
			}
			gn := &Node{Label: g.Name, Kind: KindGroup, Color: g.Color, Stats: stats}
			for _, a := range g.Activities {
				if s := Compute(byAct[a]); s != nil {
					gn.Children = append(gn.Children, &Node{Label: a, Kind: KindActivity, Color: g.Color, Stats: s})
				}
			}
			root.Children = append(root.Children, gn)
		}
	}

	var grouped map[string]string
	if reg != nil {
		grouped = reg.Membership()
	}
	var loose []string
	for a := range byAct {
		if _, ok := grouped[a]; !ok {
			loose = append(loose, a)
		}
	}
	if len(loose) == 0 {
		return root
	}
	sort.Strings(loose)
	parent := root
	if reg != nil && reg.Len() > 0 {
		parent = &Node{Label: UngroupedLabel, Kind: KindUngrouped}
		root.Children = append(root.Children, parent)
	}
	for _, a := range loose {
		parent.Children = append(parent.Children, &Node{Label: a, Kind: KindActivity, Stats: Compute(byAct[a])})
	}
	return root
}
