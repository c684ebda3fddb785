package tabular

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

func writeWorkbook(t *testing.T, path, sheet string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		row := row
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestXLSXSourceReadsOriginalColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restoran.xlsx")
	writeWorkbook(t, path, "Sheet1", [][]interface{}{
		{"id Pelanggan", "Pelayanan", "harga"},
		{"R1", 90, 25000},
		{"R2", 20, 60000},
		{"R3", "bagus", 30000},
		{},
		{"R4", 55, 35000.5},
	})

	src, err := Open(path, Options{})
	require.NoError(t, err)

	records, rowErrs, err := src.Read(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "R1", records[0].ID)
	assert.Equal(t, 90.0, records[0].Service)
	assert.True(t, records[0].Price.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, "R4", records[2].ID)
	assert.True(t, records[2].Price.Equal(decimal.RequireFromString("35000.5")))

	require.Len(t, rowErrs, 1)
	assert.Equal(t, 4, rowErrs[0].Row)
	assert.Equal(t, "R3", rowErrs[0].ID)
	assert.Contains(t, rowErrs[0].Message, "invalid service")
}

func TestXLSXSourceNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	writeWorkbook(t, path, "Data", [][]interface{}{
		{"ID", "Service", "Price"},
		{"A", 70, 40000},
	})

	src := NewXLSXSource(path, Options{Sheet: "Data", Columns: Columns{ID: "id", Service: "service", Price: "price"}})
	records, _, err := src.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 70.0, records[0].Service)

	_, _, err = NewXLSXSource(path, Options{Sheet: "Missing"}).Read(context.Background())
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestMissingFileIsNotFound(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"restoran.xlsx", "restoran.csv"} {
		src, err := Open(filepath.Join(dir, name), Options{})
		require.NoError(t, err)
		_, _, err = src.Read(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeNotFound), "got %v", err)
	}
}

func TestCSVSourceIsolatesBadRows(t *testing.T) {
	data := []byte("ID Pelanggan, Pelayanan, Harga\n" +
		"R1,90,25000\n" +
		",50,30000\n" +
		"R3,60,\n" +
		"R4,NaN,30000\n" +
		"R5,80,\"Rp 45,000\"\n")

	records, rowErrs, err := NewCSVSourceFromBytes(data, Options{}).Read(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "R5", records[1].ID)
	assert.True(t, records[1].Price.Equal(decimal.NewFromInt(45000)))

	require.Len(t, rowErrs, 3)
	assert.Equal(t, "missing id", rowErrs[0].Message)
	assert.Equal(t, 3, rowErrs[0].Row)
	assert.Contains(t, rowErrs[1].Message, "invalid price")
	assert.Contains(t, rowErrs[2].Message, "invalid service")
}

func TestCSVSourceAcceptsByteOrderMark(t *testing.T) {
	data := []byte("\ufeffid Pelanggan,Pelayanan,harga\nR1,90,25000\n")

	records, rowErrs, err := NewCSVSourceFromBytes(data, Options{}).Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, records, 1)
	assert.Equal(t, "R1", records[0].ID)
	assert.Equal(t, 90.0, records[0].Service)
	assert.True(t, records[0].Price.Equal(decimal.NewFromInt(25000)))
}

func TestMissingColumnIsInputError(t *testing.T) {
	data := []byte("id Pelanggan,harga\nR1,25000\n")
	_, _, err := NewCSVSourceFromBytes(data, Options{}).Read(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
	assert.Contains(t, err.Error(), `"Pelayanan"`)
}

func sampleRanking() *types.Ranking {
	return &types.Ranking{
		ID: "run-1",
		Results: []types.Result{
			{Record: types.Record{ID: "R5", Service: 70, Price: decimal.NewFromInt(40000)}, Score: 75.29457364341083, Rank: 1},
			{Record: types.Record{ID: "R2", Service: 90, Price: decimal.NewFromInt(25000)}, Score: 65, Rank: 2},
		},
		CreatedAt: time.Now(),
	}
}

func TestXLSXSinkWritesRankingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peringkat.xlsx")
	sink, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write(context.Background(), sampleRanking()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultRankingSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{HeaderID, HeaderService, HeaderPrice, HeaderScore}, rows[0])
	assert.Equal(t, "R5", rows[1][0])
	assert.Equal(t, "R2", rows[2][0])
	assert.Equal(t, "65", rows[2][3])
}

func TestCSVSinkRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriterSink(&buf).Write(context.Background(), sampleRanking()))

	assert.Equal(t, "Id Pelanggan,Kualitas Servis,Harga,Skor Kelayakan\n"+
		"R5,70,40000,75.29457364341083\n"+
		"R2,90,25000,65\n", buf.String())

	records, rowErrs, err := NewCSVSourceFromBytes(buf.Bytes(), Options{
		Columns: Columns{ID: HeaderID, Service: HeaderService, Price: HeaderPrice},
	}).Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Len(t, records, 2)
}

func TestDetectBytes(t *testing.T) {
	workbook, err := WorkbookBytes(context.Background(), sampleRanking())
	require.NoError(t, err)

	format, err := DetectBytes("upload.xlsx", workbook)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	format, err = DetectBytes("upload", []byte("id Pelanggan,Pelayanan,harga\nR1,90,25000\nR2,20,60000\n"))
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	_, err = DetectBytes("image.bin", png)
	assert.True(t, errors.IsType(err, errors.TypeNotSupported))
}

func TestFromBytesReadsWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restoran.xlsx")
	writeWorkbook(t, path, "Sheet1", [][]interface{}{
		{"id Pelanggan", "Pelayanan", "harga"},
		{"R1", 90, 25000},
	})
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	src, format, err := FromBytes("restoran.xlsx", data, Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	records, _, err := src.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "R1", records[0].ID)
}

func TestCreateRejectsUnknownExtension(t *testing.T) {
	_, err := Create("ranking.ods")
	assert.True(t, errors.IsType(err, errors.TypeNotSupported))
}

func TestParsePrice(t *testing.T) {
	for in, want := range map[string]string{
		"25000":     "25000",
		" 25,000 ":  "25000",
		"Rp 45,000": "45000",
		"35000.50":  "35000.5",
		"1_000_000": "1000000",
	} {
		got, err := ParsePrice(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}
	_, err := ParsePrice("murah")
	assert.Error(t, err)
}
