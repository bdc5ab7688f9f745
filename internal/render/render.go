package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/presetlab/eqgen/pkg/models"
)

// Names of the built-in formatters.
const (
	FormatGraphicEQ = "graphiceq"
	FormatPlain     = "plain"
)

// Formatter renders correction bands into a preset text layout.
type Formatter interface {
	Format(w io.Writer, points []models.EQPoint) error
}

// Ensure the built-in formatters implement the interface.
var (
	_ Formatter = GraphicEQ{}
	_ Formatter = Plain{}
)

// GraphicEQ renders the single-line layout consumed by parametric EQ
// tooling such as JamesDSP and Wavelet:
//
//	GraphicEQ: 20 5.50; 54 -3.20
//
// Frequencies are truncated to integers, gains carry two decimals.
type GraphicEQ struct{}

func (GraphicEQ) Format(w io.Writer, points []models.EQPoint) error {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		// int() truncation, not rounding
		parts = append(parts, fmt.Sprintf("%d %.2f", int(p.Frequency), p.Gain))
	}
	_, err := fmt.Fprintf(w, "GraphicEQ: %s\n", strings.Join(parts, "; "))
	return err
}

// Plain renders one space-separated frequency/gain pair per line with
// shortest-round-trip float formatting.
type Plain struct{}

func (Plain) Format(w io.Writer, points []models.EQPoint) error {
	for _, p := range points {
		_, err := fmt.Fprintf(w, "%s %s\n",
			strconv.FormatFloat(p.Frequency, 'g', -1, 64),
			strconv.FormatFloat(p.Gain, 'g', -1, 64))
		if err != nil {
			return err
		}
	}
	return nil
}

// ForName returns the formatter registered under name. The empty name
// selects GraphicEQ.
func ForName(name string) (Formatter, error) {
	switch name {
	case "", FormatGraphicEQ:
		return GraphicEQ{}, nil
	case FormatPlain:
		return Plain{}, nil
	default:
		return nil, fmt.Errorf("unknown preset format %q", name)
	}
}
