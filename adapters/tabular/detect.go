package tabular

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"fuzzy-rank/internal/errors"
)

// Format is a supported tabular format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FormatFromName picks a format from a file extension
func FormatFromName(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, true
	case ".csv":
		return FormatCSV, true
	}
	return "", false
}

// formatFromMIME maps a sniffed content type to a format
func formatFromMIME(m *mimetype.MIME) (Format, bool) {
	switch {
	case m.Is(mimeXLSX):
		return FormatXLSX, true
	case m.Is("text/csv"), m.Is("text/plain"):
		return FormatCSV, true
	}
	return "", false
}

// DetectBytes sniffs the format of in-memory content, falling back to the
// name's extension when the content is ambiguous.
func DetectBytes(name string, data []byte) (Format, error) {
	m := mimetype.Detect(data)
	if f, ok := formatFromMIME(m); ok {
		return f, nil
	}
	if f, ok := FormatFromName(name); ok {
		return f, nil
	}
	return "", errors.Newf(errors.TypeNotSupported, "unsupported input format %s", m.String())
}

// Open returns a Source for the file at path. The extension decides the
// format; files without a known extension are sniffed.
func Open(path string, opts Options) (Source, error) {
	format, ok := FormatFromName(path)
	if !ok {
		m, err := mimetype.DetectFile(path)
		if err != nil {
			return nil, errors.NotFound("file", path)
		}
		if format, ok = formatFromMIME(m); !ok {
			return nil, errors.Newf(errors.TypeNotSupported, "unsupported input format %s", m.String())
		}
	}
	return newSource(format, path, nil, opts), nil
}

// FromBytes returns a Source for uploaded content
func FromBytes(name string, data []byte, opts Options) (Source, Format, error) {
	format, err := DetectBytes(name, data)
	if err != nil {
		return nil, "", err
	}
	return newSource(format, "", data, opts), format, nil
}

func newSource(format Format, path string, data []byte, opts Options) Source {
	if format == FormatXLSX {
		if data != nil {
			return NewXLSXSourceFromBytes(data, opts)
		}
		return NewXLSXSource(path, opts)
	}
	if data != nil {
		return NewCSVSourceFromBytes(data, opts)
	}
	return NewCSVSource(path, opts)
}

// Create returns a Sink writing to path in the format its extension names
func Create(path string) (Sink, error) {
	format, ok := FormatFromName(path)
	if !ok {
		return nil, errors.Newf(errors.TypeNotSupported, "unsupported output format for %s (use .xlsx or .csv)", path)
	}
	if format == FormatXLSX {
		return NewXLSXSink(path), nil
	}
	return NewCSVSink(path), nil
}
