// Package shaper turns period data and computed metrics into the ordered
// tables a report renderer draws. It performs no I/O.
package shaper

import (
	"errors"
	"strings"
	"time"
)

type ReportType string

const (
	TypeFinancial ReportType = "financial"
	TypeCustomers ReportType = "customers"
	TypeExpenses  ReportType = "expenses"
)

var ErrInvalidReportType = errors.New("invalid_report_type")

var reportTitles = map[ReportType]string{
	TypeFinancial: "Laporan Keuangan",
	TypeCustomers: "Laporan Pelanggan",
	TypeExpenses:  "Laporan Pengeluaran",
}

func ParseReportType(raw string) (ReportType, error) {
	t := ReportType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := reportTitles[t]; !ok {
		return "", ErrInvalidReportType
	}
	return t, nil
}

func (t ReportType) Title() string {
	return reportTitles[t]
}

// PlaceholderText fills tables that have no rows.
const PlaceholderText = "Tidak ada data"

type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Column widths are on a 12-column grid and sum to 12 per table.
type Column struct {
	Header string
	Width  int
	Align  Align
}

type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
	// Footer is an optional totals row aligned with Columns.
	Footer []string
	// Placeholder is set when Rows holds only the no-data row.
	Placeholder bool
}

type Document struct {
	Type         ReportType
	Title        string
	BusinessName string
	Subtitle     string
	GeneratedAt  time.Time
	Generated    string
	Filename     string
	Tables       []Table
}

func newTable(title string, columns []Column) Table {
	return Table{Title: title, Columns: columns}
}

func (t *Table) addRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// finish inserts the placeholder row when nothing was added.
func (t *Table) finish() Table {
	if len(t.Rows) == 0 {
		row := make([]string, len(t.Columns))
		row[0] = PlaceholderText
		t.Rows = [][]string{row}
		t.Placeholder = true
		t.Footer = nil
	}
	return *t
}
