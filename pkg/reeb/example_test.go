package reeb_test

import (
	"fmt"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

func ExampleGraph_bubble() {
	// Two levels joined by two parallel edges: a loop in the underlying shape.
	p := level.DefaultPrecision
	g := reeb.New()
	lo := g.AddNode(p.MustParse("0"))
	hi := g.AddNode(p.MustParse("1"))
	_, _ = g.AddEdge(lo, hi)
	_, _ = g.AddEdge(lo, hi)

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Degree of lo:", g.Degree(lo))
	fmt.Println("Distinct neighbours of lo:", g.DistinctNeighbors(lo))
	// Output:
	// Nodes: 2
	// Edges: 2
	// Degree of lo: 2
	// Distinct neighbours of lo: [1]
}

func ExampleFromValues() {
	p := level.DefaultPrecision
	values := []level.Value{p.MustParse("0"), p.MustParse("1"), p.MustParse("3")}
	g, err := reeb.FromValues(values, [][2]int{{0, 1}, {1, 2}})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range g.Nodes() {
		fmt.Printf("%d: f=%s\n", n.ID, n.Value)
	}
	// Output:
	// 0: f=0
	// 1: f=1
	// 2: f=3
}
