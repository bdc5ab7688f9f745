package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/presetlab/eqgen/internal/extract"
	"github.com/presetlab/eqgen/internal/pipeline"
)

var (
	inputPath  string
	outputPath string
	format     string
	strict     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "eqgen",
	Short: "Generate EQ presets from measured frequency-response reports",
	Long: `eqgen extracts the frequency response table from a saved measurement
report (HTML), computes the per-band correction toward the embedded target
curve and writes the preset in GraphicEQ format.`,
	RunE:         runConvert,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the saved report HTML file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path for the generated preset file")
	rootCmd.Flags().StringVarP(&format, "format", "f", "graphiceq", "Preset format: graphiceq or plain")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Reject table cells that are not well-formed numbers")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	result, err := pipeline.Run(cmd.Context(), inputPath, outputPath, pipeline.Options{
		Format: format,
		Strict: strict,
	})
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrInputNotFound):
			return fmt.Errorf("cannot read report file %s", inputPath)
		case errors.Is(err, extract.ErrNoTable):
			return errors.New("no table found in the report; save the full measurement page as HTML")
		case errors.Is(err, extract.ErrNoValidData):
			return errors.New("the report table contains no parseable frequency response rows")
		case errors.Is(err, pipeline.ErrOutputWrite):
			return fmt.Errorf("cannot write preset file %s", outputPath)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d correction bands to %s\n", len(result.Points), result.Output)
	return nil
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Conversion failed")
		os.Exit(1)
	}
}
