package pdf

import (
	"github.com/go-pdf/fpdf"

	"github.com/careops/rosterpdf/internal/domain/adherence"
)

// Heatmap geometry, fixed: a label gutter, then one cell per reporting
// period. Purely geometric; labels get a fixed width, not a measured one.
const (
	heatLabelWidth = 50.0
	heatCellWidth  = 20.0
	heatCellHeight = 11.0
	heatFontSize   = 7.0
)

// heatmap is the atomic per-row trend graphic: one row per selected
// measure, three period cells per row, drawn top-down in selection order.
type heatmap struct {
	rows []adherence.MeasureRow
}

// height reports the grid height. An empty selection still occupies one
// cell row, so the table row keeps a sane minimum height.
func (h heatmap) height() float64 {
	n := len(h.rows)
	if n == 0 {
		n = 1
	}
	return float64(n) * heatCellHeight
}

// heatmapWidth is the full graphic width including the label gutter.
func heatmapWidth() float64 {
	return heatLabelWidth + 3*heatCellWidth
}

// draw renders the grid with its top-left corner at (x, y). Every row
// draws exactly three cells; a missing value keeps the cell outline and
// no fill.
func (h heatmap) draw(doc *fpdf.Fpdf, pal Palette, x, y float64) {
	doc.SetFont(fontFamily, "", heatFontSize)
	doc.SetDrawColor(pal.GridLine.R, pal.GridLine.G, pal.GridLine.B)
	doc.SetTextColor(pal.Text.R, pal.Text.G, pal.Text.B)

	for i, row := range h.rows {
		rowY := y + float64(i)*heatCellHeight
		doc.SetXY(x, rowY)
		doc.CellFormat(heatLabelWidth, heatCellHeight, row.Label, "", 0, "L", false, 0, "")
		for j, v := range row.Values {
			cellX := x + heatLabelWidth + float64(j)*heatCellWidth
			if fill, ok := pal.Fill(adherence.BucketOf(v)); ok {
				doc.SetFillColor(fill.R, fill.G, fill.B)
				doc.Rect(cellX, rowY, heatCellWidth, heatCellHeight, "FD")
			} else {
				doc.Rect(cellX, rowY, heatCellWidth, heatCellHeight, "D")
			}
		}
	}
}

// Legend geometry: three swatch+label entries in one horizontal strip
// with even spacing and a fixed label budget.
const (
	legendSwatchSize  = 9.0
	legendLabelGap    = 4.0
	legendLabelWidth  = 26.0
	legendEntrySpace  = 10.0
	legendFontSize    = 7.5
	legendStripHeight = legendSwatchSize
)

// legendWidth is the fixed width of the whole strip; the builder uses it
// to right-align the legend above the table.
func legendWidth() float64 {
	entry := legendSwatchSize + legendLabelGap + legendLabelWidth
	return 3*entry + 2*legendEntrySpace
}

// drawLegend renders the bucket legend with its top-left corner at
// (x, y). Thresholds, labels and colors come from the same bucket table
// the grid uses.
func drawLegend(doc *fpdf.Fpdf, pal Palette, x, y float64) {
	doc.SetFont(fontFamily, "", legendFontSize)
	doc.SetDrawColor(pal.GridLine.R, pal.GridLine.G, pal.GridLine.B)
	doc.SetTextColor(pal.Text.R, pal.Text.G, pal.Text.B)

	entry := legendSwatchSize + legendLabelGap + legendLabelWidth
	for i, e := range adherence.Legend() {
		ex := x + float64(i)*(entry+legendEntrySpace)
		fill, _ := pal.Fill(e.Bucket)
		doc.SetFillColor(fill.R, fill.G, fill.B)
		doc.Rect(ex, y, legendSwatchSize, legendSwatchSize, "FD")
		doc.SetXY(ex+legendSwatchSize+legendLabelGap, y-1)
		doc.CellFormat(legendLabelWidth, legendSwatchSize+2, e.Label, "", 0, "L", false, 0, "")
	}
}
