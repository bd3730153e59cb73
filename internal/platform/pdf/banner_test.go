package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/careops/rosterpdf/internal/domain/adherence"
)

func writeTestLogo(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 60, 30))
	for x := 0; x < 60; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.RGBA{R: 0, G: 40, B: 80, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func buildWithLogo(t *testing.T, logoPath string) *Document {
	t.Helper()
	gen, err := NewGenerator(DefaultLayout(), Options{
		Measures: adherence.DefaultMeasures(),
		Year:     2026,
		LogoPath: logoPath,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := gen.Build(sampleGroup(t, "Dr. Smith"), "Logo test.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func TestBanner_WithLogo(t *testing.T) {
	doc := buildWithLogo(t, writeTestLogo(t))
	if doc.Pages() < 1 {
		t.Error("expected a rendered document")
	}
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output does not start with the PDF magic")
	}
}

func TestBanner_MissingLogoIsNotFatal(t *testing.T) {
	doc := buildWithLogo(t, filepath.Join(t.TempDir(), "nope.png"))
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected a rendered document without the logo")
	}
}

func TestBanner_UnreadableLogoIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := buildWithLogo(t, path)
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected a rendered document without the logo")
	}
}

// The logo is optional decoration. Its presence must not change the page
// count or the document's ability to render.
func TestBanner_PageCountUnchangedByLogo(t *testing.T) {
	with := buildWithLogo(t, writeTestLogo(t))
	without := buildWithLogo(t, "")
	if with.Pages() != without.Pages() {
		t.Errorf("logo changed the page count: %d vs %d", with.Pages(), without.Pages())
	}
}
