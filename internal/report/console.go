// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ConsoleRenderer writes the report as styled terminal tables.
type ConsoleRenderer struct {
	sectionStyle lipgloss.Style
	captionStyle lipgloss.Style
	borderStyle  lipgloss.Style
	rightStyle   lipgloss.Style
}

// NewConsoleRenderer returns a ConsoleRenderer with the default palette.
func NewConsoleRenderer() *ConsoleRenderer {
	return &ConsoleRenderer{
		sectionStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		captionStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")),
		borderStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		rightStyle:   lipgloss.NewStyle().Align(lipgloss.Right),
	}
}

// Render implements Renderer.
func (c *ConsoleRenderer) Render(r *Report, w io.Writer) error {
	if _, err := fmt.Fprintln(w, c.sectionStyle.Render(r.Title)); err != nil {
		return err
	}

	for _, sec := range r.Sections {
		if sec.Title != "" {
			fmt.Fprintln(w)
			fmt.Fprintln(w, c.sectionStyle.Render("== "+sec.Title))
		}
		for i := range sec.Tables {
			tbl := &sec.Tables[i]
			if tbl.Title != "" {
				fmt.Fprintln(w, c.captionStyle.Render(tbl.Title))
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(c.borderStyle).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row >= 0 && row < len(tbl.Rows) && col < len(tbl.Rows[row]) &&
						tbl.Rows[row][col].Align == AlignRight {
						return c.rightStyle.Padding(0, 1)
					}
					return lipgloss.NewStyle().Padding(0, 1)
				})
			for _, row := range tbl.Rows {
				cells := make([]string, len(row))
				for j, cell := range row {
					cells[j] = cell.Text
				}
				t = t.Row(cells...)
			}
			if _, err := fmt.Fprintln(w, t.Render()); err != nil {
				return err
			}
		}
	}
	return nil
}
