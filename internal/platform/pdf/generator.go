package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/careops/rosterpdf/internal/domain/adherence"
	"github.com/careops/rosterpdf/internal/domain/roster"
)

// Text metrics. Core Helvetica only; text outside its codepage renders
// approximately, so engine-authored strings stay ASCII.
const (
	fontFamily = "Helvetica"

	narrativeFontSize   = 12.0
	narrativeLineHeight = 16.0

	headerFontSize = 8.5
	bodyFontSize   = 8.0
	bodyLineHeight = 10.0

	cellPadding  = 3.0
	headerHeight = 24.0
	minRowHeight = 18.0
	spacerHeight = 10.0
	legendGapY   = 8.0

	gridLineWidth = 0.5
)

// Options carries the content configuration a layout doesn't: measure
// set, reporting year, banner text, logo.
type Options struct {
	Measures    []adherence.MeasureDef
	Year        int
	TitleSuffix string
	Subtitle    string
	LogoPath    string
}

func (o *Options) applyDefaults() {
	if o.Year == 0 {
		o.Year = time.Now().Year()
	}
	if o.TitleSuffix == "" {
		o.TitleSuffix = " - Member Roster"
	}
	if o.Subtitle == "" {
		o.Subtitle = "Provider Performance Summary"
	}
}

// Generator builds one roster document per record group. Immutable once
// constructed and safe for concurrent Build calls: each build gets its
// own document object and no state is written back.
type Generator struct {
	layout   Layout
	opts     Options
	widths   []float64
	trendIdx int
	periods  [3]string
}

// NewGenerator validates the layout and measure configuration up front;
// a generator that constructs cannot fail on configuration later.
func NewGenerator(layout Layout, opts Options) (*Generator, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("pdf: layout: %w", err)
	}
	widths, err := layout.resolveColumns()
	if err != nil {
		return nil, fmt.Errorf("pdf: layout: %w", err)
	}

	trendIdx := layout.trendColumn()
	if trendIdx >= 0 {
		if err := adherence.ValidateDefs(opts.Measures); err != nil {
			return nil, fmt.Errorf("pdf: measures: %w", err)
		}
		need := heatmapWidth() + 2*cellPadding
		if widths[trendIdx] < need {
			return nil, fmt.Errorf("pdf: layout: trend column is %.1fpt, heatmap needs %.1fpt", widths[trendIdx], need)
		}
	}

	opts.applyDefaults()
	return &Generator{
		layout:   layout,
		opts:     opts,
		widths:   widths,
		trendIdx: trendIdx,
		periods:  adherence.PeriodLabels(opts.Year),
	}, nil
}

// Measures returns the configured measure definitions in report order.
func (g *Generator) Measures() []adherence.MeasureDef {
	return append([]adherence.MeasureDef(nil), g.opts.Measures...)
}

// Build renders one group into a finished document: banner, narrative,
// legend when any row charts a measure, then the member table. The
// narrative passes through as opaque inline markup. Build never writes a
// file; the caller decides between WriteFile and WriteTo.
func (g *Generator) Build(group roster.RecordGroup, narrative string) (*Document, error) {
	if err := group.Validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}

	doc := fpdf.New("P", "pt", string(g.layout.PageSize), "")
	doc.SetMargins(g.layout.Margins.Left, g.layout.Margins.Top, g.layout.Margins.Right)
	doc.SetAutoPageBreak(true, g.layout.Margins.Bottom)
	doc.SetLineWidth(gridLineWidth)

	ban := banner{
		title:    strings.TrimSpace(group.Key.Provider + g.opts.TitleSuffix),
		subtitle: g.opts.Subtitle,
		logoPath: g.opts.LogoPath,
		height:   g.layout.BannerHeight,
		pal:      g.layout.Palette,
	}
	doc.SetHeaderFuncMode(func() {
		// the banner belongs to the first page only; the repeating
		// table header is drawn by the table itself
		if doc.PageNo() == 1 {
			ban.draw(doc)
		}
	}, true)
	doc.AddPage()

	g.writeNarrative(doc, narrative)
	doc.Ln(spacerHeight)

	selections := g.selectRows(group.Records)
	if anySelected(selections) {
		pageW, _ := doc.GetPageSize()
		x := pageW - g.layout.Margins.Right - legendWidth()
		drawLegend(doc, g.layout.Palette, x, doc.GetY())
		doc.SetY(doc.GetY() + legendStripHeight + legendGapY)
	}

	g.drawTable(doc, group.Records, selections)

	if doc.Err() {
		return nil, fmt.Errorf("pdf: render %s: %w", group.Key, doc.Error())
	}
	return &Document{pdf: doc, pages: doc.PageCount()}, nil
}

// ---------------------------------------------------------------------------
// Build stages
// ---------------------------------------------------------------------------

func (g *Generator) writeNarrative(doc *fpdf.Fpdf, narrative string) {
	if narrative == "" {
		return
	}
	doc.SetFont(fontFamily, "", narrativeFontSize)
	doc.SetTextColor(g.layout.Palette.Text.R, g.layout.Palette.Text.G, g.layout.Palette.Text.B)
	html := doc.HTMLBasicNew()
	html.Write(narrativeLineHeight, narrative)
	doc.Ln(narrativeLineHeight)
}

// selectRows computes each record's measure selection once, before
// drawing. Without a trend column nothing is selected and no legend is
// emitted.
func (g *Generator) selectRows(records []roster.Record) [][]adherence.MeasureRow {
	selections := make([][]adherence.MeasureRow, len(records))
	if g.trendIdx < 0 {
		return selections
	}
	for i, r := range records {
		selections[i] = adherence.Select(r, g.opts.Measures)
	}
	return selections
}

func anySelected(selections [][]adherence.MeasureRow) bool {
	for _, s := range selections {
		if len(s) > 0 {
			return true
		}
	}
	return false
}

func (g *Generator) drawTable(doc *fpdf.Fpdf, records []roster.Record, selections [][]adherence.MeasureRow) {
	_, pageH := doc.GetPageSize()
	if doc.GetY()+headerHeight+minRowHeight > pageH-g.layout.Margins.Bottom {
		doc.AddPage()
	}
	g.drawTableHeader(doc)
	for i, rec := range records {
		g.drawRow(doc, rec, selections[i])
	}
}

// drawTableHeader prints the column header band. It runs again after
// every page break the table causes, so the header repeats on each page
// the table spans.
func (g *Generator) drawTableHeader(doc *fpdf.Fpdf) {
	pal := g.layout.Palette
	x := g.layout.Margins.Left
	y := doc.GetY()

	doc.SetFont(fontFamily, "B", headerFontSize)
	doc.SetFillColor(pal.HeaderBg.R, pal.HeaderBg.G, pal.HeaderBg.B)
	doc.SetDrawColor(pal.GridLine.R, pal.GridLine.G, pal.GridLine.B)
	doc.SetTextColor(pal.Text.R, pal.Text.G, pal.Text.B)

	for i, col := range g.layout.Columns {
		w := g.widths[i]
		doc.Rect(x, y, w, headerHeight, "FD")
		if col.Trend {
			g.drawTrendHeader(doc, col, x, y)
		} else {
			doc.SetXY(x+cellPadding, y)
			doc.CellFormat(w-2*cellPadding, headerHeight, col.Title, "", 0, colAlign(col), false, 0, "")
		}
		x += w
	}
	doc.SetY(y + headerHeight)
}

// drawTrendHeader writes the trend column title plus the three two-digit
// period labels, each centered over the grid column it describes.
func (g *Generator) drawTrendHeader(doc *fpdf.Fpdf, col Column, x, y float64) {
	doc.SetXY(x+cellPadding, y)
	doc.CellFormat(heatLabelWidth, headerHeight/2, col.Title, "", 0, "L", false, 0, "")

	doc.SetFont(fontFamily, "", heatFontSize)
	for j, label := range g.periods {
		cx := x + cellPadding + heatLabelWidth + float64(j)*heatCellWidth
		doc.SetXY(cx, y+headerHeight/2)
		doc.CellFormat(heatCellWidth, headerHeight/2, "'"+label, "", 0, "C", false, 0, "")
	}
	doc.SetFont(fontFamily, "B", headerFontSize)
}

// drawRow lays out one member row. The row is atomic: its height is
// measured first, and if it cannot fit in the remaining page space the
// whole row moves to a fresh page under a reprinted header. The heatmap
// is drawn as one graphic and never splits.
func (g *Generator) drawRow(doc *fpdf.Fpdf, rec roster.Record, sel []adherence.MeasureRow) {
	doc.SetFont(fontFamily, "", bodyFontSize)

	texts := make([]string, len(g.layout.Columns))
	rowH := minRowHeight
	for i, col := range g.layout.Columns {
		if col.Trend {
			if h := (heatmap{rows: sel}).height() + 2*cellPadding; h > rowH {
				rowH = h
			}
			continue
		}
		texts[i] = cellText(rec, col)
		lines := doc.SplitText(texts[i], g.widths[i]-2*cellPadding)
		if h := float64(len(lines))*bodyLineHeight + 2*cellPadding; h > rowH {
			rowH = h
		}
	}

	_, pageH := doc.GetPageSize()
	if doc.GetY()+rowH > pageH-g.layout.Margins.Bottom {
		doc.AddPage()
		g.drawTableHeader(doc)
		doc.SetFont(fontFamily, "", bodyFontSize)
	}

	pal := g.layout.Palette
	x := g.layout.Margins.Left
	y := doc.GetY()
	doc.SetDrawColor(pal.GridLine.R, pal.GridLine.G, pal.GridLine.B)
	for i, col := range g.layout.Columns {
		w := g.widths[i]
		doc.Rect(x, y, w, rowH, "D")
		if col.Trend {
			(heatmap{rows: sel}).draw(doc, pal, x+cellPadding, y+cellPadding)
			doc.SetFont(fontFamily, "", bodyFontSize)
		} else if texts[i] != "" {
			doc.SetXY(x+cellPadding, y+cellPadding)
			doc.MultiCell(w-2*cellPadding, bodyLineHeight, texts[i], "", colAlign(col), false)
		}
		x += w
	}
	doc.SetY(y + rowH)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// cellText resolves the text for one cell. Risk scores print with two
// decimals; free-text fields have their inline markup flattened, since
// table cells render a single font.
func cellText(rec roster.Record, col Column) string {
	if col.Field == roster.FieldRiskScore {
		if v, ok := rec.Num(col.Field); ok {
			return strconv.FormatFloat(v, 'f', 2, 64)
		}
	}
	return flattenMarkup(rec.Str(col.Field))
}

var markupFlattener = strings.NewReplacer(
	"<br/>", "\n", "<br />", "\n", "<br>", "\n",
	"<b>", "", "</b>", "",
	"<i>", "", "</i>", "",
	"<u>", "", "</u>", "",
)

func flattenMarkup(s string) string {
	return markupFlattener.Replace(s)
}

func colAlign(col Column) string {
	if col.Align != "" {
		return col.Align
	}
	return "L"
}

// ---------------------------------------------------------------------------
// Document
// ---------------------------------------------------------------------------

// Document is one finished, paginated render. It is immutable: pages are
// final at construction and output can be taken any number of times.
type Document struct {
	pdf   *fpdf.Fpdf
	pages int
}

// Pages reports how many pages the table pagination produced.
func (d *Document) Pages() int {
	return d.pages
}

// WriteTo streams the PDF bytes.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := d.pdf.Output(cw); err != nil {
		return cw.n, fmt.Errorf("pdf: write document: %w", err)
	}
	return cw.n, nil
}

// WriteFile writes the document atomically: a temp file beside the
// target, renamed on success and removed on failure, so a failed write
// leaves nothing at path.
func (d *Document) WriteFile(path string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".roster-*.pdf")
	if err != nil {
		return 0, fmt.Errorf("pdf: create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	n, err := d.WriteTo(tmp)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("pdf: close temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("pdf: publish artifact: %w", err)
	}
	return n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
