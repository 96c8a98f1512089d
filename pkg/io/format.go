package io

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// Format names a graph encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatLiteral Format = "txt"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatYAML, FormatLiteral}

// ParseFormat validates a format name. "yml", "literal" and "reeb" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "txt", "literal", "reeb":
		return FormatLiteral, nil
	}
	return "", fmt.Errorf("unsupported graph format %q", s)
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot detect format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Read decodes a graph in format f.
func Read(r io.Reader, f Format, p level.Precision) (*reeb.Graph, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r, p)
	case FormatYAML:
		return ReadYAML(r, p)
	case FormatLiteral:
		return ReadLiteral(r, p)
	}
	return nil, fmt.Errorf("unsupported graph format %q", f)
}

// Write encodes g in format f.
func Write(w io.Writer, g *reeb.Graph, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(g, w)
	case FormatYAML:
		return WriteYAML(g, w)
	case FormatLiteral:
		return WriteLiteral(g, w)
	}
	return fmt.Errorf("unsupported graph format %q", f)
}
