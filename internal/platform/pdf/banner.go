package pdf

import (
	"os"

	"github.com/go-pdf/fpdf"
)

// Fixed banner offsets, measured from the top-left of the page. Logo
// presence never moves the title or subtitle.
const (
	bannerTextX     = 0.75 * inch
	bannerTitleY    = 0.75 * inch
	bannerSubtitleY = 1.0 * inch

	bannerTitleSize    = 20.0
	bannerSubtitleSize = 10.0

	// the logo scales into a fixed-height box; the slot assumes a wide
	// logo and the draw corrects to the true aspect ratio
	logoFitHeight   = 0.6 * inch
	logoMaxWidth    = 2.0 * inch
	logoRightOffset = 0.75 * inch
)

// banner is the one-time first-page band: full-width background, title
// and subtitle at fixed offsets, optional right-aligned logo. It is not
// part of the repeating table header and never reappears on later pages.
type banner struct {
	title    string
	subtitle string
	logoPath string
	height   float64
	pal      Palette
}

func (b banner) draw(doc *fpdf.Fpdf) {
	pageW, _ := doc.GetPageSize()

	doc.SetFillColor(b.pal.BannerBg.R, b.pal.BannerBg.G, b.pal.BannerBg.B)
	doc.Rect(0, 0, pageW, b.height, "F")

	doc.SetTextColor(b.pal.BannerFg.R, b.pal.BannerFg.G, b.pal.BannerFg.B)
	doc.SetFont(fontFamily, "B", bannerTitleSize)
	doc.Text(bannerTextX, bannerTitleY, b.title)
	doc.SetFont(fontFamily, "", bannerSubtitleSize)
	doc.Text(bannerTextX, bannerSubtitleY, b.subtitle)

	b.drawLogo(doc, pageW)

	doc.SetTextColor(b.pal.Text.R, b.pal.Text.G, b.pal.Text.B)
}

// drawLogo places the logo right-aligned in the band, vertically
// centered, scaled into a fixed box with its true aspect ratio. A
// missing or unreadable image leaves the slot empty; that is a normal
// configuration state, not an error.
func (b banner) drawLogo(doc *fpdf.Fpdf, pageW float64) {
	if b.logoPath == "" {
		return
	}
	if _, err := os.Stat(b.logoPath); err != nil {
		return
	}

	info := doc.RegisterImageOptions(b.logoPath, fpdf.ImageOptions{})
	if doc.Err() {
		// unreadable image data renders bannerless
		doc.ClearError()
		return
	}
	iw, ih := info.Extent()
	if iw <= 0 || ih <= 0 {
		return
	}

	drawH := logoFitHeight
	drawW := drawH * iw / ih
	if drawW > logoMaxWidth {
		drawH *= logoMaxWidth / drawW
		drawW = logoMaxWidth
	}

	x := pageW - logoRightOffset - drawW
	y := (b.height - drawH) / 2
	doc.ImageOptions(b.logoPath, x, y, drawW, drawH, false, fpdf.ImageOptions{}, 0, "")
}
