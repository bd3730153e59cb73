// Package pdf renders roster documents: a one-time banner, a narrative
// header, and a repeating-header member table whose rows can carry a
// three-period adherence heatmap. Built on the fpdf primitive, which owns
// fonts, page breaks and byte-stream emission.
package pdf

import (
	"fmt"

	"github.com/careops/rosterpdf/internal/domain/adherence"
	"github.com/careops/rosterpdf/internal/domain/roster"
)

// The document works in points.
const inch = 72.0

// PageSize names a supported page format.
type PageSize string

const (
	PageLetter PageSize = "Letter"
	PageLegal  PageSize = "Legal"
	PageA4     PageSize = "A4"
)

// dimensions returns the page width and height in points.
func (s PageSize) dimensions() (w, h float64, err error) {
	switch s {
	case PageLetter:
		return 612, 792, nil
	case PageLegal:
		return 612, 1008, nil
	case PageA4:
		return 595.28, 841.89, nil
	default:
		return 0, 0, fmt.Errorf("unsupported page size %q", string(s))
	}
}

// RGB is a draw color.
type RGB struct {
	R, G, B int
}

// Palette carries every color the document draws with.
type Palette struct {
	Red      RGB
	Amber    RGB
	Green    RGB
	HeaderBg RGB
	BannerBg RGB
	BannerFg RGB
	Text     RGB
	GridLine RGB
}

// DefaultPalette is the house scheme: navy banner, light-grey table
// header, stoplight heatmap fills.
func DefaultPalette() Palette {
	return Palette{
		Red:      RGB{208, 58, 62},
		Amber:    RGB{244, 176, 66},
		Green:    RGB{106, 168, 79},
		HeaderBg: RGB{211, 211, 211},
		BannerBg: RGB{0, 40, 80},
		BannerFg: RGB{255, 255, 255},
		Text:     RGB{0, 0, 0},
		GridLine: RGB{128, 128, 128},
	}
}

// Fill returns the cell fill for a bucket and whether one is drawn at
// all. Missing values draw no fill, deliberately: a blank cell, not a
// gray marker.
func (p Palette) Fill(b adherence.Bucket) (RGB, bool) {
	switch b {
	case adherence.BucketRed:
		return p.Red, true
	case adherence.BucketAmber:
		return p.Amber, true
	case adherence.BucketGreen:
		return p.Green, true
	default:
		return RGB{}, false
	}
}

// Margins are page margins in points. The top margin is the content
// start on every page and must clear the banner band.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Column is one table column rule: a fixed width in points, or a weight
// sharing whatever usable width the fixed columns leave. A Trend column
// renders the heatmap instead of a record field.
type Column struct {
	Title  string
	Field  string
	Fixed  float64
	Weight float64
	Align  string
	Trend  bool
}

// Layout is the immutable geometry and palette for one document build.
// It is never shared mutable state: builds read it, nothing writes it.
type Layout struct {
	PageSize     PageSize
	Margins      Margins
	BannerHeight float64
	Columns      []Column
	Palette      Palette
}

// DefaultLayout returns the standard roster geometry: Letter page,
// three-quarter-inch margins with a deeper top margin clearing the
// banner, and the member table columns.
func DefaultLayout() Layout {
	return Layout{
		PageSize: PageLetter,
		Margins: Margins{
			Top:    1.75 * inch,
			Bottom: 0.75 * inch,
			Left:   0.75 * inch,
			Right:  0.75 * inch,
		},
		BannerHeight: 1.2 * inch,
		Columns: []Column{
			{Title: "Member ID", Field: roster.FieldMemberID, Fixed: 0.75 * inch},
			{Title: "Member Name", Field: roster.FieldMemberName, Fixed: 1.1 * inch},
			{Title: "DOB", Field: roster.FieldDOB, Fixed: 0.7 * inch, Align: "C"},
			{Title: "Risk", Field: roster.FieldRiskScore, Fixed: 0.45 * inch, Align: "C"},
			{Title: "Member Detail", Field: roster.FieldMemberDetail, Weight: 1},
			{Title: "Adherence Notes", Field: roster.FieldAdherenceDetail, Weight: 1.2},
			{Title: "Trend", Trend: true, Fixed: 1.7 * inch},
		},
		Palette: DefaultPalette(),
	}
}

// usableWidth is the horizontal budget the column rules must partition
// exactly.
func (l Layout) usableWidth() float64 {
	w, _, err := l.PageSize.dimensions()
	if err != nil {
		return 0
	}
	return w - l.Margins.Left - l.Margins.Right
}

// Validate fails fast on a malformed layout, before anything is drawn.
func (l Layout) Validate() error {
	if _, _, err := l.PageSize.dimensions(); err != nil {
		return err
	}
	if l.Margins.Top <= 0 || l.Margins.Bottom <= 0 || l.Margins.Left <= 0 || l.Margins.Right <= 0 {
		return fmt.Errorf("margins must be positive")
	}
	if l.BannerHeight <= 0 {
		return fmt.Errorf("banner height must be positive")
	}
	if l.BannerHeight > l.Margins.Top {
		return fmt.Errorf("banner height %.1fpt exceeds the top margin %.1fpt", l.BannerHeight, l.Margins.Top)
	}
	if l.usableWidth() <= 0 {
		return fmt.Errorf("margins leave no usable width")
	}
	if len(l.Columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}
	trend := 0
	for _, c := range l.Columns {
		if c.Trend {
			trend++
		}
	}
	if trend > 1 {
		return fmt.Errorf("at most one trend column is allowed")
	}
	_, err := l.resolveColumns()
	return err
}

// resolveColumns partitions the usable width: fixed columns take their
// width first, proportional columns split the remainder by weight. The
// returned widths sum to the usable width exactly.
func (l Layout) resolveColumns() ([]float64, error) {
	usable := l.usableWidth()
	var fixed, totalWeight float64
	for i, c := range l.Columns {
		switch {
		case c.Fixed > 0:
			fixed += c.Fixed
		case c.Weight > 0:
			totalWeight += c.Weight
		default:
			return nil, fmt.Errorf("column %d (%s): needs a fixed width or a weight", i, c.Title)
		}
	}

	remainder := usable - fixed
	if remainder < 0 {
		return nil, fmt.Errorf("fixed column widths (%.1fpt) exceed the usable width (%.1fpt)", fixed, usable)
	}
	if totalWeight == 0 && remainder > 0.5 {
		return nil, fmt.Errorf("columns leave %.1fpt of the usable width unassigned", remainder)
	}

	widths := make([]float64, len(l.Columns))
	for i, c := range l.Columns {
		if c.Fixed > 0 {
			widths[i] = c.Fixed
		} else {
			widths[i] = remainder * c.Weight / totalWeight
		}
	}
	return widths, nil
}

// trendColumn returns the index of the heatmap column, -1 when the
// layout has none.
func (l Layout) trendColumn() int {
	for i, c := range l.Columns {
		if c.Trend {
			return i
		}
	}
	return -1
}
