package pipeline

import (
	"cmp"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/reebsmooth/pkg/cache"
	"github.com/matzehuels/reebsmooth/pkg/errors"
	pio "github.com/matzehuels/reebsmooth/pkg/io"
	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// Decode reads a graph in the named format ("json", "yaml", "txt" or an
// alias). Malformed input is reported as INVALID_GRAPH, an unknown format as
// INVALID_FORMAT.
func Decode(r io.Reader, format string, p level.Precision) (*reeb.Graph, error) {
	f, err := pio.ParseFormat(format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "input format %q", format)
	}
	g, err := pio.Read(r, f, p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid %s graph", f)
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph")
	}
	return g, nil
}

// LoadFile reads the graph at path, inferring the format from its extension.
// Use "-" for standard input, which is read as JSON.
func LoadFile(path string, p level.Precision) (*reeb.Graph, error) {
	if path == "-" {
		return Decode(os.Stdin, string(pio.FormatJSON), p)
	}
	f, err := pio.DetectFormat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "input %s", path)
	}
	file, err := os.Open(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer file.Close()
	return Decode(file, string(f), p)
}

// HashGraph returns the content hash of g: node handles, values and sides,
// and the multiset of edge endpoints. Edge handles and weights are left out,
// so labelling a graph does not change its hash.
func HashGraph(g *reeb.Graph) string {
	var b strings.Builder
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "n %d %s %s\n", n.ID, n.Value, n.Side)
	}
	pairs := make([][2]reeb.NodeID, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		pairs = append(pairs, [2]reeb.NodeID{min(e.U, e.V), max(e.U, e.V)})
	}
	slices.SortFunc(pairs, func(a, b [2]reeb.NodeID) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	for _, p := range pairs {
		fmt.Fprintf(&b, "e %d %d\n", p[0], p[1])
	}
	return cache.Hash([]byte(b.String()))
}
