// Package export renders stored loan records as CSV, XML or XLSX documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Dan9191/loan-registry/internal/models"
	"github.com/beevik/etree"
	"github.com/xuri/excelize/v2"
)

// Format is an export document type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a user-supplied name to a Format
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatCSV, FormatXML, FormatXLSX:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", name)
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatXML:
		return "application/xml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension returns the file extension, without the dot
func (f Format) Extension() string {
	return string(f)
}

// Write renders records in the given format to w
func Write(w io.Writer, format Format, records []models.LoanRecord) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, records)
	case FormatXML:
		return writeXML(w, records)
	case FormatXLSX:
		return writeXLSX(w, records)
	default:
		return fmt.Errorf("unsupported export format: %q", format)
	}
}

func writeCSV(w io.Writer, records []models.LoanRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXML(w io.Writer, records []models.LoanRecord) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("LoanRecords")
	root.CreateAttr("count", strconv.Itoa(len(records)))

	for _, r := range records {
		el := root.CreateElement("LoanRecord")
		el.CreateAttr("email", r.Email)
		el.CreateElement("Name").SetText(r.Name)
		el.CreateElement("DateOfBirth").SetText(r.DateOfBirth)
		el.CreateElement("LoanAmount").SetText(strconv.FormatInt(r.LoanAmount, 10))
		el.CreateElement("InterestRate").SetText(strconv.FormatInt(r.InterestRate, 10))
		el.CreateElement("InterestAmount").SetText(strconv.FormatInt(r.InterestAmount, 10))
		el.CreateElement("TermMonths").SetText(strconv.FormatInt(r.TermMonths, 10))
		el.CreateElement("TotalInterest").SetText(strconv.FormatInt(r.TotalInterest, 10))
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xml: %w", err)
	}
	return nil
}

const sheetName = "Sheet1"

func writeXLSX(w io.Writer, records []models.LoanRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(models.Columns))
	for i, name := range models.Columns {
		header[i] = name
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create xlsx header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(models.Columns), 1)
	if err != nil {
		return fmt.Errorf("failed to resolve xlsx header range: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style xlsx header: %w", err)
	}

	for rowIdx, r := range records {
		values := []interface{}{
			r.Name, r.Email, r.DateOfBirth,
			r.LoanAmount, r.InterestRate, r.InterestAmount, r.TermMonths, r.TotalInterest,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return fmt.Errorf("failed to resolve xlsx row %d: %w", rowIdx+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write xlsx row %d: %w", rowIdx+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
