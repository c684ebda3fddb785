package tabular

import (
	"bytes"
	"context"
	"os"

	"github.com/xuri/excelize/v2"

	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

// DefaultRankingSheet is the sheet XLSXSink writes to
const DefaultRankingSheet = "Peringkat"

// XLSXSource reads records from an Excel workbook
type XLSXSource struct {
	path string
	data []byte
	opts Options
}

// NewXLSXSource reads the workbook at path
func NewXLSXSource(path string, opts Options) *XLSXSource {
	return &XLSXSource{path: path, opts: opts}
}

// NewXLSXSourceFromBytes reads an in-memory workbook
func NewXLSXSourceFromBytes(data []byte, opts Options) *XLSXSource {
	return &XLSXSource{data: data, opts: opts}
}

func (s *XLSXSource) open() (*excelize.File, error) {
	if s.data != nil {
		f, err := excelize.OpenReader(bytes.NewReader(s.data))
		if err != nil {
			return nil, errors.Parsing("failed to open workbook", err)
		}
		return f, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("file", s.path)
		}
		return nil, errors.Parsing("failed to open workbook "+s.path, err)
	}
	return f, nil
}

// Read implements Source
func (s *XLSXSource) Read(ctx context.Context) ([]types.Record, []types.RowError, error) {
	f, err := s.open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheet := s.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, errors.Input("workbook has no sheets")
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, nil, errors.NotFound("sheet", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, errors.Parsing("failed to read sheet "+sheet, err)
	}

	return parseTable(ctx, rows, s.opts.columns())
}

// XLSXSink writes a ranking to an Excel workbook
type XLSXSink struct {
	path  string
	sheet string
}

// NewXLSXSink writes to path, replacing any existing file
func NewXLSXSink(path string) *XLSXSink {
	return &XLSXSink{path: path, sheet: DefaultRankingSheet}
}

// Write implements Sink
func (s *XLSXSink) Write(ctx context.Context, ranking *types.Ranking) error {
	f, err := buildWorkbook(ctx, ranking, s.sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(s.path); err != nil {
		return errors.Storage("failed to save workbook "+s.path, err)
	}
	return nil
}

// WorkbookBytes renders a ranking as an in-memory xlsx file
func WorkbookBytes(ctx context.Context, ranking *types.Ranking) ([]byte, error) {
	f, err := buildWorkbook(ctx, ranking, DefaultRankingSheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Storage("failed to render workbook", err)
	}
	return buf.Bytes(), nil
}

func buildWorkbook(ctx context.Context, ranking *types.Ranking, sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, errors.Internal("failed to name sheet", err)
	}

	header := []interface{}{HeaderID, HeaderService, HeaderPrice, HeaderScore}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, errors.Internal("failed to write header", err)
	}

	for i, res := range ranking.Results {
		if err := ctx.Err(); err != nil {
			f.Close()
			return nil, err
		}
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, errors.Internal("failed to address row", err)
		}
		row := []interface{}{res.ID, res.Service, res.PriceFloat(), res.Score}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			f.Close()
			return nil, errors.Storage("failed to write row", err)
		}
	}

	return f, nil
}
