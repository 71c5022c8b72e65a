package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/electoral/pkg/errors"
)

// rsvg is the librsvg command line converter.
const rsvg = "rsvg-convert"

// pngBackground fills the transparent chart background of PNG exports.
const pngBackground = "white"

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG at scale times its size. Non-positive
// scales mean 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, svg, "png",
		"--zoom", strconv.FormatFloat(scale, 'f', 2, 64),
		"--background-color", pngBackground)
}

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(rsvg)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err,
			"%s output needs %s (apt install librsvg2-bin, brew install librsvg)", format, rsvg)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "%s %s", rsvg, format)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s %s: %s", rsvg, format, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
