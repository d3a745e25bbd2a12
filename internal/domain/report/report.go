// Package report renders a technician scorecard as an aligned plain-text
// table, matching the layout of the weekly/monthly performance reports.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yorch88/tech-performance/internal/domain/perf"
)

// timestampLayout is the layout of the "Generado:" line.
const timestampLayout = "2006-01-02 15:04:05"

// emptyNotice is emitted instead of the table when there are no rows.
const emptyNotice = "No hubo métricas para mostrar."

// column headers, in output order.
var columns = []string{
	"badge",
	"intentos",
	"exitos",
	"ineficiencias",
	"eficiencia_%",
	"carga_relativa",
	"score",
}

// Render produces the full text report for a computed result. The caller
// supplies the generation time so output stays deterministic in tests.
func Render(res *perf.Result, title string, now time.Time) string {
	var lines []string
	lines = append(lines,
		title,
		strings.Repeat("-", len(title)),
		"Generado: "+now.Format(timestampLayout),
		"",
		fmt.Sprintf("Fallas totales: %d", res.Meta.TotalFailures),
		fmt.Sprintf("Técnicos activos: %d", res.Meta.ActiveTechnicians),
		fmt.Sprintf("Carga esperada por técnico: %.3f", res.Meta.ExpectedLoad),
		"",
	)

	if len(res.Rows) == 0 {
		lines = append(lines, emptyNotice)
		return strings.Join(lines, "\n")
	}

	cells := formatCells(res.Rows)
	widths := columnWidths(cells)

	lines = append(lines, joinRow(columns, widths), separator(widths))
	for _, row := range cells {
		lines = append(lines, joinRow(row, widths))
	}
	return strings.Join(lines, "\n")
}

// formatCells renders every row's fields as strings in column order.
func formatCells(rows []perf.Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Badge,
			strconv.Itoa(r.Attempts),
			strconv.Itoa(r.Successes),
			strconv.Itoa(r.Inefficiencies),
			strconv.FormatFloat(r.EfficiencyPct, 'f', 2, 64),
			strconv.FormatFloat(r.RelativeLoad, 'f', 3, 64),
			strconv.FormatFloat(r.Score, 'f', 3, 64),
		}
	}
	return out
}

// columnWidths computes each column's width as the larger of the header and
// the widest formatted cell.
func columnWidths(cells [][]string) []int {
	widths := make([]int, len(columns))
	for i, h := range columns {
		widths[i] = len(h)
	}
	for _, row := range cells {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

// joinRow aligns one row: badge left, numeric columns right, two spaces
// between fields.
func joinRow(fields []string, widths []int) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if i == 0 {
			parts[i] = pad(f, widths[i], false)
		} else {
			parts[i] = pad(f, widths[i], true)
		}
	}
	return strings.Join(parts, "  ")
}

func separator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	return strings.Join(parts, "  ")
}

func pad(s string, width int, right bool) string {
	if len(s) >= width {
		return s
	}
	fill := strings.Repeat(" ", width-len(s))
	if right {
		return fill + s
	}
	return s + fill
}
