package io

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

var pairRe = regexp.MustCompile(`[(\[]\s*(-?\d+)\s*,\s*(-?\d+)\s*[)\]]`)

// ReadLiteral decodes the two-line literal format:
//
//	[0, 1, 3]
//	[(0, 1), (0, 1), (1, 2)]
//
// Blank lines and lines starting with '#' are skipped. The second line may be
// omitted for a graph without edges.
func ReadLiteral(r io.Reader, p level.Precision) (*reeb.Graph, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(lines) == 0 || len(lines) > 2 {
		return nil, fmt.Errorf("literal graph: want 1 or 2 lines, got %d", len(lines))
	}

	values, err := parseValues(lines[0], p)
	if err != nil {
		return nil, err
	}
	var pairs [][2]int
	if len(lines) == 2 {
		if pairs, err = parsePairs(lines[1]); err != nil {
			return nil, err
		}
	}
	return reeb.FromValues(values, pairs)
}

func parseValues(line string, p level.Precision) ([]level.Value, error) {
	body, ok := unwrap(line)
	if !ok {
		return nil, fmt.Errorf("values: expected a bracketed list, got %q", line)
	}
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	parts := strings.Split(body, ",")
	out := make([]level.Value, 0, len(parts))
	for i, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" && i == len(parts)-1 {
			break // trailing comma
		}
		v, err := p.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("values[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parsePairs(line string) ([][2]int, error) {
	body, ok := unwrap(line)
	if !ok {
		return nil, fmt.Errorf("edges: expected a bracketed list, got %q", line)
	}
	matches := pairRe.FindAllStringSubmatch(body, -1)
	rest := strings.TrimSpace(strings.ReplaceAll(pairRe.ReplaceAllString(body, ""), ",", ""))
	if rest != "" {
		return nil, fmt.Errorf("edges: unexpected %q", rest)
	}
	out := make([][2]int, len(matches))
	for i, m := range matches {
		u, _ := strconv.Atoi(m[1])
		v, _ := strconv.Atoi(m[2])
		out[i] = [2]int{u, v}
	}
	return out, nil
}

// unwrap strips one pair of enclosing brackets or parentheses.
func unwrap(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", false
	}
	switch {
	case s[0] == '[' && s[len(s)-1] == ']', s[0] == '(' && s[len(s)-1] == ')':
		return s[1 : len(s)-1], true
	}
	return "", false
}

// WriteLiteral encodes g in the two-line literal format. Nodes are written in
// handle order and edges refer to their position in that order; side markers
// and weights are not represented.
func WriteLiteral(g *reeb.Graph, w io.Writer) error {
	nodes := g.Nodes()
	index := make(map[reeb.NodeID]int, len(nodes))
	vals := make([]string, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		vals[i] = n.Value.String()
	}
	pairs := make([]string, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		pairs = append(pairs, fmt.Sprintf("(%d, %d)", index[e.U], index[e.V]))
	}
	_, err := fmt.Fprintf(w, "[%s]\n[%s]\n", strings.Join(vals, ", "), strings.Join(pairs, ", "))
	return err
}
