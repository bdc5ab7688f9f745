package extract

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/presetlab/eqgen/pkg/models"
)

var (
	// ErrNoTable indicates the document parsed but contains no table element.
	ErrNoTable = errors.New("no table found in document")
	// ErrNoValidData indicates a table was found but no row survived cleaning.
	ErrNoValidData = errors.New("no valid frequency response data in table")
)

// Options controls extraction behavior.
type Options struct {
	// Strict additionally requires cleaned cell text to be a single
	// well-formed number. Off by default: the published tables carry unit
	// suffixes like "26.81dB" that cleaning is expected to tolerate.
	Strict bool
}

var (
	nonNumeric = regexp.MustCompile(`[^0-9.\-]`)
	wellFormed = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
)

// Rows locates the first data table in an HTML report and returns its
// (frequency, target, measured) triples sorted ascending by frequency,
// plus the table's header texts for diagnostics. Rows are read from cells
// 0, 1 and 3; cell 2 carries a secondary curve this pipeline does not use.
// A row is kept only when all three fields parse; duplicates of a
// frequency are retained.
func Rows(r io.Reader, opts Options) ([]models.FrequencyRow, []string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil, ErrNoTable
	}

	// Header cells are logged for diagnostics only, never validated.
	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	log.Debug().Strs("headers", headers).Msg("Located data table")

	var rows []models.FrequencyRow
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 4 {
			return
		}

		freq, okFreq := cleanNumber(cells.Eq(0).Text(), opts.Strict)
		target, okTarget := cleanNumber(cells.Eq(1).Text(), opts.Strict)
		measured, okMeasured := cleanNumber(cells.Eq(3).Text(), opts.Strict)
		if okFreq && okTarget && okMeasured {
			rows = append(rows, models.FrequencyRow{
				Frequency: freq,
				Target:    target,
				Measured:  measured,
			})
		}
	})

	if len(rows) == 0 {
		return nil, headers, ErrNoValidData
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Frequency < rows[j].Frequency
	})

	log.Debug().Int("rows", len(rows)).Msg("Extracted frequency response data")
	return rows, headers, nil
}

// cleanNumber strips every rune that is not a digit, '.' or '-' and parses
// the remainder as a float. The '-' is deliberately not anchored to the
// front; lenient parsing matches the published tables, which mix units and
// whitespace into numeric cells. In strict mode the cleaned text must also
// be a single well-formed number.
func cleanNumber(text string, strict bool) (float64, bool) {
	cleaned := nonNumeric.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0, false
	}
	if strict && !wellFormed.MatchString(cleaned) {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
