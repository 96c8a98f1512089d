package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Rasterizer is the librsvg command line tool used for PNG and PDF output
// (librsvg2-bin on Debian, librsvg on Homebrew).
const Rasterizer = "rsvg-convert"

// ErrNoRasterizer is returned when [Rasterizer] is not on PATH.
var ErrNoRasterizer = stderrors.New(Rasterizer + " not found on PATH")

// HasRasterizer reports whether PNG and PDF conversion is possible.
func HasRasterizer() bool {
	_, err := exec.LookPath(Rasterizer)
	return err == nil
}

// SVGToPDF converts a rendered Reeb graph drawing to PDF.
func SVGToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rasterize(ctx, svg, "pdf")
}

// SVGToPNG converts a rendered Reeb graph drawing to PNG, scaled by zoom
// (1 keeps the SVG's pixel size). Non-positive zoom means 1.
func SVGToPNG(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	if zoom <= 0 {
		zoom = 1
	}
	return rasterize(ctx, svg, "png", "--zoom", strconv.FormatFloat(zoom, 'f', 2, 64))
}

func rasterize(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(Rasterizer)
	if err != nil {
		return nil, fmt.Errorf("%s output: %w", format, ErrNoRasterizer)
	}
	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s output: %w: %s", format, err, msg)
		}
		return nil, fmt.Errorf("%s output: %w", format, err)
	}
	return stdout.Bytes(), nil
}
