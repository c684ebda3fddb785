package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

// CSVSource reads records from comma-separated text
type CSVSource struct {
	path string
	data []byte
	opts Options
}

// NewCSVSource reads the CSV file at path
func NewCSVSource(path string, opts Options) *CSVSource {
	return &CSVSource{path: path, opts: opts}
}

// NewCSVSourceFromBytes reads in-memory CSV
func NewCSVSourceFromBytes(data []byte, opts Options) *CSVSource {
	return &CSVSource{data: data, opts: opts}
}

// Read implements Source
func (s *CSVSource) Read(ctx context.Context) ([]types.Record, []types.RowError, error) {
	var r io.Reader
	if s.data != nil {
		r = bytes.NewReader(s.data)
	} else {
		f, err := os.Open(s.path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil, errors.NotFound("file", s.path)
			}
			return nil, nil, errors.Parsing("failed to open "+s.path, err)
		}
		defer f.Close()
		r = f
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, errors.Parsing("failed to parse csv", err)
	}

	return parseTable(ctx, rows, s.opts.columns())
}

// CSVSink writes a ranking as CSV
type CSVSink struct {
	path string
	w    io.Writer
}

// NewCSVSink writes to path, replacing any existing file
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// NewCSVWriterSink writes to w
func NewCSVWriterSink(w io.Writer) *CSVSink {
	return &CSVSink{w: w}
}

// Write implements Sink
func (s *CSVSink) Write(ctx context.Context, ranking *types.Ranking) error {
	w := s.w
	if w == nil {
		f, err := os.Create(s.path)
		if err != nil {
			return errors.Storage("failed to create "+s.path, err)
		}
		defer f.Close()
		w = f
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{HeaderID, HeaderService, HeaderPrice, HeaderScore}); err != nil {
		return errors.Storage("failed to write csv header", err)
	}
	for _, res := range ranking.Results {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := []string{
			res.ID,
			strconv.FormatFloat(res.Service, 'f', -1, 64),
			res.Price.String(),
			strconv.FormatFloat(res.Score, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return errors.Storage("failed to write csv row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Storage("failed to flush csv", err)
	}
	return nil
}
