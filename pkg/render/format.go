package render

import (
	"strings"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
)

// Format names an output format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
	FormatDOT Format = "dot" // Graphviz source with pinned positions
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatDOT}

// ParseFormat accepts a format name or a file extension ("PNG", ".pdf").
// An empty string means SVG.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if s == "" {
		return FormatSVG, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q (want svg, png, pdf or dot)", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "image/svg+xml"
}

// NeedsConverter reports whether f is produced by rsvg-convert.
func (f Format) NeedsConverter() bool {
	return f == FormatPNG || f == FormatPDF
}
