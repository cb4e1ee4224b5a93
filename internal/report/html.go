// SPDX-License-Identifier: MPL-2.0

package report

import (
	"bufio"
	"fmt"
	"html"
	"io"
)

// HTMLRenderer writes the report as a self-contained HTML document: one
// sequential pass, no scripting, suitable for attaching to bug reports.
type HTMLRenderer struct{}

// NewHTMLRenderer returns an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer { return &HTMLRenderer{} }

const htmlStyle = `    <style>
      body { font-family: sans-serif; background-color: #1a1a2e; color: #e0e0e0; }
      h1 { color: #f5c842; }
      h2 { color: #8ab4f8; border-bottom: 1px solid #444; }
      table { border-collapse: collapse; margin-bottom: 1em; min-width: 60%; }
      caption { text-align: left; font-weight: bold; padding: 4px 0; }
      td { border: 1px solid #444; padding: 2px 8px; }
      td.r { text-align: right; }
    </style>
`

// Render implements Renderer.
func (*HTMLRenderer) Render(r *Report, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "<!DOCTYPE html>")
	fmt.Fprintln(bw, `<html lang="en">`)
	fmt.Fprintln(bw, "<head>")
	fmt.Fprintf(bw, "    <title>%s</title>\n", html.EscapeString(r.Title))
	fmt.Fprint(bw, htmlStyle)
	fmt.Fprintln(bw, "</head>")
	fmt.Fprintln(bw, "<body>")
	fmt.Fprintf(bw, "    <h1>%s</h1>\n", html.EscapeString(r.Title))

	for _, sec := range r.Sections {
		if sec.Title != "" {
			fmt.Fprintf(bw, "    <h2>%s</h2>\n", html.EscapeString(sec.Title))
		}
		for _, tbl := range sec.Tables {
			fmt.Fprintln(bw, "    <table>")
			if tbl.Title != "" {
				fmt.Fprintf(bw, "        <caption>%s</caption>\n", html.EscapeString(tbl.Title))
			}
			for _, row := range tbl.Rows {
				fmt.Fprint(bw, "        <tr>")
				for _, cell := range row {
					if cell.Align == AlignRight {
						fmt.Fprintf(bw, `<td class="r">%s</td>`, html.EscapeString(cell.Text))
					} else {
						fmt.Fprintf(bw, "<td>%s</td>", html.EscapeString(cell.Text))
					}
				}
				fmt.Fprintln(bw, "</tr>")
			}
			fmt.Fprintln(bw, "    </table>")
		}
	}

	fmt.Fprintln(bw, "</body>")
	fmt.Fprintln(bw, "</html>")
	return bw.Flush()
}
