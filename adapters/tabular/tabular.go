// Package tabular reads restaurant records from spreadsheets and writes
// rankings back. Row problems are reported per row and never abort a read.
package tabular

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

// Output headers, as the original ranking sheet names them
const (
	HeaderID      = "Id Pelanggan"
	HeaderService = "Kualitas Servis"
	HeaderPrice   = "Harga"
	HeaderScore   = "Skor Kelayakan"
)

// Columns names the input headers to read
type Columns struct {
	ID      string
	Service string
	Price   string
}

// DefaultColumns are the headers of the original restaurant sheet
var DefaultColumns = Columns{
	ID:      "id Pelanggan",
	Service: "Pelayanan",
	Price:   "harga",
}

// Options configures sources
type Options struct {
	// Sheet is the xlsx sheet to read, empty for the first one
	Sheet string

	// Columns overrides DefaultColumns; empty fields keep the default
	Columns Columns
}

func (o Options) columns() Columns {
	c := o.Columns
	if c.ID == "" {
		c.ID = DefaultColumns.ID
	}
	if c.Service == "" {
		c.Service = DefaultColumns.Service
	}
	if c.Price == "" {
		c.Price = DefaultColumns.Price
	}
	return c
}

// Source produces records to evaluate
type Source interface {
	// Read returns parsed records plus the rows that could not be parsed.
	// The error is reserved for problems with the table as a whole.
	Read(ctx context.Context) ([]types.Record, []types.RowError, error)
}

// Sink persists a ranking
type Sink interface {
	Write(ctx context.Context, ranking *types.Ranking) error
}

// utf8BOM prefixes "CSV UTF-8" exports from spreadsheet tools
const utf8BOM = "\ufeff"

// parseTable turns raw rows (header first) into records
func parseTable(ctx context.Context, rows [][]string, cols Columns) ([]types.Record, []types.RowError, error) {
	if len(rows) == 0 {
		return nil, nil, errors.Input("table is empty, expected a header row")
	}

	idIdx, svcIdx, priceIdx := -1, -1, -1
	for i, h := range rows[0] {
		switch name := strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)); {
		case strings.EqualFold(name, cols.ID):
			idIdx = i
		case strings.EqualFold(name, cols.Service):
			svcIdx = i
		case strings.EqualFold(name, cols.Price):
			priceIdx = i
		}
	}
	var missing []string
	for _, m := range []struct {
		idx  int
		name string
	}{{idIdx, cols.ID}, {svcIdx, cols.Service}, {priceIdx, cols.Price}} {
		if m.idx < 0 {
			missing = append(missing, fmt.Sprintf("%q", m.name))
		}
	}
	if len(missing) > 0 {
		return nil, nil, errors.Newf(errors.TypeInput, "missing column(s) %s", strings.Join(missing, ", ")).
			WithContext("header", rows[0])
	}

	var records []types.Record
	var rowErrs []types.RowError
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		line := i + 2
		if blank(row) {
			continue
		}

		id := strings.TrimSpace(cell(row, idIdx))
		if id == "" {
			rowErrs = append(rowErrs, types.RowError{Row: line, Message: "missing id"})
			continue
		}

		service, err := parseService(cell(row, svcIdx))
		if err != nil {
			rowErrs = append(rowErrs, types.RowError{Row: line, ID: id, Message: "invalid service value: " + err.Error(), Err: err})
			continue
		}
		price, err := ParsePrice(cell(row, priceIdx))
		if err != nil {
			rowErrs = append(rowErrs, types.RowError{Row: line, ID: id, Message: "invalid price value: " + err.Error(), Err: err})
			continue
		}

		records = append(records, types.Record{ID: id, Service: service, Price: price, Row: line})
	}

	return records, rowErrs, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseService(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

// ParsePrice parses a price cell. A leading "Rp" and thousands separators
// (commas, spaces) are accepted; a dot is the decimal point.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Rp")
	s = strings.NewReplacer(",", "", " ", "", "_", "").Replace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty cell")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	return d, nil
}
