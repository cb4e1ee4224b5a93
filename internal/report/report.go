// SPDX-License-Identifier: MPL-2.0

// Package report defines the structured output model the analyzer emits:
// sections group tables, tables hold rows of aligned cells. Discovery code
// only appends to this model; rendering (HTML, console) is a separate
// consumer so the core can be tested without any I/O.
package report

import "io"

// Align controls horizontal alignment of a cell.
type Align int

const (
	// AlignLeft is the default cell alignment.
	AlignLeft Align = iota
	// AlignRight right-justifies a cell, used for index and path cells.
	AlignRight
)

// Cell is a single table cell.
type Cell struct {
	Text  string
	Align Align
}

// L returns a left-aligned cell.
func L(text string) Cell { return Cell{Text: text} }

// R returns a right-aligned cell.
func R(text string) Cell { return Cell{Text: text, Align: AlignRight} }

// Row is an ordered sequence of cells.
type Row []Cell

// Table is a titled grid with a fixed column count.
type Table struct {
	Title   string
	Columns int
	Rows    []Row
}

// Section groups tables under a heading.
type Section struct {
	Title  string
	Tables []Table
}

// Report is the complete document produced by one analyzer run.
type Report struct {
	Title    string
	Sections []Section
}

// Renderer writes a report to an output stream. Implementations must
// consume the model strictly sequentially and never reorder rows.
type Renderer interface {
	Render(r *Report, w io.Writer) error
}

// Builder accumulates a report through strictly sequential appends,
// mirroring the one-pass structure of a diagnostic run.
type Builder struct {
	report Report
}

// NewBuilder starts an empty report with the given document title.
func NewBuilder(title string) *Builder {
	return &Builder{report: Report{Title: title}}
}

// BeginSection opens a new section; subsequent tables land in it.
func (b *Builder) BeginSection(title string) {
	b.report.Sections = append(b.report.Sections, Section{Title: title})
}

// BeginTable opens a new table in the current section. A table opened
// before any section gets an untitled section.
func (b *Builder) BeginTable(title string, columns int) {
	if len(b.report.Sections) == 0 {
		b.BeginSection("")
	}
	sec := &b.report.Sections[len(b.report.Sections)-1]
	sec.Tables = append(sec.Tables, Table{Title: title, Columns: columns})
}

// AddRow appends a row to the current table, padding short rows with empty
// cells and truncating long ones so every row matches the column count.
func (b *Builder) AddRow(cells ...Cell) {
	tbl := b.currentTable()
	if tbl == nil {
		return
	}
	row := make(Row, tbl.Columns)
	for i := 0; i < tbl.Columns && i < len(cells); i++ {
		row[i] = cells[i]
	}
	tbl.Rows = append(tbl.Rows, row)
}

// Report returns the accumulated document.
func (b *Builder) Report() *Report {
	return &b.report
}

func (b *Builder) currentTable() *Table {
	if len(b.report.Sections) == 0 {
		return nil
	}
	sec := &b.report.Sections[len(b.report.Sections)-1]
	if len(sec.Tables) == 0 {
		return nil
	}
	return &sec.Tables[len(sec.Tables)-1]
}
