package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the name of the single worksheet in XLSX exports.
const SheetName = "Bearings"

// filenameLayout is ISO-8601 at minute resolution with colons replaced by dashes.
const filenameLayout = "2006-01-02T15-04"

// Columns is the fixed export column order.
var Columns = []string{
	"Category", "Type", "Subtype", "BearingNumber", "Seal",
	"Suffix", "Make", "Application", "Date", "GeneratedBy",
}

// ParseFormat converts a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Export is a serialized row set ready to be saved by the client.
type Export struct {
	Data        []byte
	Filename    string
	Format      Format
	ContentType string
	Rows        int
	Words       int
}

// Filename returns BearingSpec_<UTC minute timestamp>.<ext>.
func Filename(format Format, t time.Time) string {
	return fmt.Sprintf("BearingSpec_%s.%s", t.UTC().Format(filenameLayout), format)
}

// record returns the row's values in Columns order.
func record(r Row) []string {
	return []string{
		r.Category, r.Type, r.Subtype, r.BearingNumber, r.Seal,
		r.Suffix, r.Make, r.Application, r.Date, r.GeneratedBy,
	}
}

// SerializeCSV writes a header line and one record per row.
// Values containing commas, quotes or newlines are quoted per RFC 4180.
func SerializeCSV(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range rows {
		if err := w.Write(record(r)); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// SerializeXLSX writes a workbook with a single "Bearings" sheet whose
// first row is the header.
func SerializeXLSX(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if err := setSheetRow(f, 1, Columns); err != nil {
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}
	for i, r := range rows {
		if err := setSheetRow(f, i+2, record(r)); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func setSheetRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &row)
}

// Serialize encodes rows in the given format and names the file after at.
func Serialize(rows []Row, format Format, at time.Time) (*Export, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatCSV:
		data, err = SerializeCSV(rows)
	case FormatXLSX:
		data, err = SerializeXLSX(rows)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return &Export{
		Data:        data,
		Filename:    Filename(format, at),
		Format:      format,
		ContentType: format.ContentType(),
		Rows:        len(rows),
		Words:       TotalCost(rows),
	}, nil
}
