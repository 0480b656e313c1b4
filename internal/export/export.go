// Package export writes scrape results as CSV or XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Header is the column order shared by every format.
var Header = []string{
	"article_title",
	"article_url",
	"source",
	"published_at",
	"startup_name",
	"website",
	"founder_linkedin_search",
	"emails",
}

// EmailSeparator joins a result's emails into one cell.
const EmailSeparator = "; "

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Results"

// Row flattens r into Header order.
func Row(r domain.EnrichedResult) []string {
	published := ""
	if r.PublishedAt != nil {
		published = r.PublishedAt.UTC().Format(time.RFC3339)
	}

	return []string{
		r.ArticleTitle,
		r.ArticleURL,
		r.SourceName,
		published,
		r.CompanyName,
		r.Website,
		r.FounderSearchURL,
		strings.Join(r.Emails, EmailSeparator),
	}
}

// Write encodes results in format f.
func Write(w io.Writer, f Format, results []domain.EnrichedResult) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, results)
	case FormatXLSX:
		return WriteXLSX(w, results)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// WriteCSV writes an RFC 4180 CSV with a header row. Fields containing commas,
// quotes or newlines are quoted.
func WriteCSV(w io.Writer, results []domain.EnrichedResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook with a header row.
func WriteXLSX(w io.Writer, results []domain.EnrichedResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, Header); err != nil {
		return err
	}
	for i, r := range results {
		if err := setRow(f, i+2, Row(r)); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}

	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}

	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}
