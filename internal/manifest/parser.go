package manifest

import (
	"context"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
)

// minColumns is the number of leading columns every shipment line must
// carry: sequence, reference, pickup, origin, destination, delivery.
const minColumns = 6

// airLegStart is the column index where AIR leg quadruples begin.
const airLegStart = 6

// headerTokens identify decorative header rows that carry no shipment
// data. Any line containing one of them is dropped before folding.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var headerTokens = []string{"Ref No", "Pickup From", "Origin", "1st sector"}

var (
	// recordStart matches the beginning of a new logical record: a
	// numeric sequence column followed by a tab.
	recordStart = regexp.MustCompile(`^\d+\t`)
	// dateToken matches a D/M/YYYY-style date at the start of a column.
	dateToken = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)
)

// Parse converts raw manifest text into shipment records. Multi-line
// addresses are folded back onto their record line, header rows are
// dropped, and each logical line is split on tabs with quote awareness.
// Malformed lines are skipped and counted, never fatal, so one bad row
// cannot poison a batch.
func Parse(ctx context.Context, text string) ParseResult {
	log := logging.ComponentLogger(logging.FromContext(ctx), "manifest")

	var res ParseResult
	for _, line := range foldLines(text) {
		cols, err := splitColumns(line)
		if err != nil {
			res.Skipped++
			res.Notes = append(res.Notes, fmt.Sprintf("unparseable line: %v", err))
			log.Error().Err(err).Str("line", truncate(line, 50)).Msg("column split failed")
			continue
		}
		if len(cols) < minColumns {
			res.Skipped++
			res.Notes = append(res.Notes, fmt.Sprintf("line with %d columns, need %d", len(cols), minColumns))
			log.Warn().Int("columns", len(cols)).Str("line", truncate(line, 50)).
				Msg("skipping line with insufficient columns")
			continue
		}

		rec := ShipmentRecord{
			Reference:   cols[1],
			PickupFrom:  cols[2],
			Origin:      cols[3],
			Destination: cols[4],
			DeliveryTo:  cols[5],
		}
		rec.TransportType = ClassifyReference(rec.Reference)
		rec.Sectors = baseSectors(rec.TransportType, rec.Origin, rec.Destination, cols)
		Sequence(&rec)

		res.Shipments = append(res.Shipments, rec)
	}

	log.Debug().Int("shipments", len(res.Shipments)).Int("skipped", res.Skipped).Msg("manifest parsed")
	return res
}

// foldLines splits text into logical record lines: header rows are
// dropped, and any line that does not open a new record (numeric
// sequence plus tab) is treated as an address continuation and appended
// to the current record with a single space.
func foldLines(text string) []string {
	var folded []string
	current := ""
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if isHeaderLine(line) {
			continue
		}
		if recordStart.MatchString(line) && current != "" {
			folded = append(folded, current)
			current = line
			continue
		}
		current += " " + strings.TrimSpace(line)
	}
	if current != "" {
		folded = append(folded, current)
	}
	return folded
}

func isHeaderLine(line string) bool {
	for _, token := range headerTokens {
		if strings.Contains(line, token) {
			return true
		}
	}
	return false
}

// splitColumns tokenizes one logical line on tabs. Quoted fields may
// contain literal tabs; stray quotes inside fields are tolerated.
// Every column is whitespace-trimmed, preserving empty placeholders.
func splitColumns(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	cols, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("tokenizing columns: %w", err)
	}
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}
	return cols, nil
}

// baseSectors builds the main transport legs for a record. AIR records
// carry repeating (date, number, from, to) quadruples from column 7 on;
// consumption stops at the first quadruple whose date column does not
// look like a D/M/YYYY date. SEA records get a single synthetic leg
// from origin to destination. Unknown types get no base legs at all.
func baseSectors(t TransportType, origin, destination string, cols []string) []Sector {
	var sectors []Sector
	switch t {
	case TransportAir:
		for i := airLegStart; i+3 < len(cols); i += 4 {
			if !dateToken.MatchString(cols[i]) {
				break
			}
			sectors = append(sectors, Sector{
				Index:           len(sectors) + 1,
				Mode:            ModeAir,
				From:            cols[i+2],
				To:              cols[i+3],
				TransportNumber: cols[i+1],
				TransportDate:   cols[i],
			})
		}
	case TransportSea:
		sectors = append(sectors, Sector{
			Index: 1,
			Mode:  ModeSea,
			From:  origin,
			To:    destination,
		})
	case TransportUnknown:
		// Road-only shipment; the sequencer adds the truck legs.
	}
	return sectors
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
