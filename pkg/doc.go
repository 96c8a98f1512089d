// Package pkg provides the libraries behind reebsmooth, which computes the
// ε-smoothing of Reeb graphs.
//
// # Overview
//
// A Reeb graph summarises the level sets of a function: every node carries a
// function value and every edge is monotone. Smoothing by ε collapses loops
// and branches shorter than 2ε and pushes the surviving extrema outward by ε.
// The pkg directory is organized into three areas:
//
//  1. Core: [level] values, the [reeb] multigraph and the [smooth] driver
//  2. Encoding: [io] graph files and [dot] drawings
//  3. Infrastructure: [cache], [observability], [pipeline] and [server]
//
// # Architecture
//
// The typical data flow:
//
//	graph file (json, yaml, txt)
//	         ↓
//	    [io] package (decode to a reeb.Graph)
//	         ↓
//	    [smooth] package (shrink, extend, prune until ε is spent)
//	         ↓
//	    [io] or [dot] package (encode or draw)
//
// The [pipeline] package runs this flow with caching and metrics for both the
// CLI and the HTTP [server].
//
// # Quick Start
//
//	p := level.DefaultPrecision
//	g, _ := reeb.FromValues(
//	    []level.Value{p.Int(0), p.Int(1), p.Int(3)},
//	    [][2]int{{0, 1}, {0, 1}, {1, 2}, {1, 2}},
//	)
//	out, _ := smooth.New(p).Smooth(g, p.MustParse("1"))
//	// out is a single edge from -1 to 4
//
// [level]: https://pkg.go.dev/github.com/matzehuels/reebsmooth/pkg/level
// [reeb]: https://pkg.go.dev/github.com/matzehuels/reebsmooth/pkg/reeb
// [smooth]: https://pkg.go.dev/github.com/matzehuels/reebsmooth/pkg/reeb/smooth
// [io]: https://pkg.go.dev/github.com/matzehuels/reebsmooth/pkg/io
// [dot]: https://pkg.go.dev/github.com/matzehuels/reebsmooth/pkg/render/dot
// [cache]: https://pkg.go.dev/github.com/matzehuels/reebsmooth/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/reebsmooth/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/reebsmooth/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/reebsmooth/pkg/server
package pkg
