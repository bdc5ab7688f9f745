package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/presetlab/eqgen/internal/eq"
	"github.com/presetlab/eqgen/internal/extract"
	"github.com/presetlab/eqgen/internal/render"
	"github.com/presetlab/eqgen/pkg/models"
)

var (
	// ErrInputNotFound indicates the source path did not resolve to a
	// readable document.
	ErrInputNotFound = errors.New("input document not found")
	// ErrOutputWrite indicates the destination could not be written.
	ErrOutputWrite = errors.New("failed to write output file")
)

// Failure classifications recorded on conversion jobs. Each maps to one
// of the four terminal pipeline failures.
const (
	KindInputNotFound = "input_not_found"
	KindNoTable       = "no_table"
	KindNoValidData   = "no_valid_data"
	KindOutputWrite   = "output_write_failed"
)

// KindOf classifies a pipeline error, or returns "" for errors outside
// the pipeline taxonomy.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrInputNotFound):
		return KindInputNotFound
	case errors.Is(err, extract.ErrNoTable):
		return KindNoTable
	case errors.Is(err, extract.ErrNoValidData):
		return KindNoValidData
	case errors.Is(err, ErrOutputWrite):
		return KindOutputWrite
	}
	return ""
}

// Options controls a batch run.
type Options struct {
	// Format names the output formatter; empty selects GraphicEQ.
	Format string
	// Strict enables strict number validation during extraction.
	Strict bool
}

// Result summarizes a completed run.
type Result struct {
	Points  []models.EQPoint
	Headers []string
	Output  string
}

// Run executes the whole extract/correct/render pipeline against a local
// report file and writes the preset to outputPath, replacing any existing
// content. The run is linear and non-resumable: the first failure aborts
// it and the destination is never touched before rendering succeeds.
// Cancelling ctx aborts the run before the output file is written.
func Run(ctx context.Context, inputPath, outputPath string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	formatter, err := render.ForName(opts.Format)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}

	rows, headers, err := extract.Rows(bytes.NewReader(data), extract.Options{Strict: opts.Strict})
	if err != nil {
		return nil, err
	}

	points := eq.Correct(rows)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, points); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}

	log.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int("points", len(points)).
		Msg("Preset written")

	return &Result{Points: points, Headers: headers, Output: outputPath}, nil
}
