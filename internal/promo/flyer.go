package promo

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/iliyamo/om-adella-promo/internal/model"
)

// gold is the accent colour shared with the page.
var gold = [3]int{212, 175, 55}

// FlyerData is everything printed on the flyer.
type FlyerData struct {
	Show    model.Show
	Page    model.Page
	PageURL string
	QRPNG   []byte // optional; printed bottom right when set
}

// Flyer renders an A5 portrait flyer and returns the PDF bytes.
func Flyer(d FlyerData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle(d.Page.Act+" - "+d.Show.Title, true)
	pdf.SetAuthor(d.Page.Act, true)
	pdf.SetMargins(12, 14, 12)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 24

	pdf.SetFillColor(gold[0], gold[1], gold[2])
	pdf.Rect(0, 0, pageW, 3, "F")
	pdf.Rect(0, pageH-3, pageW, 3, "F")

	pdf.SetTextColor(gold[0], gold[1], gold[2])
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 6, tr(strings.ToUpper(d.Page.Tagline)), "", 1, "C", false, 0, "")

	pdf.SetFont("Times", "B", 40)
	pdf.CellFormat(contentW, 18, tr(d.Page.Act), "", 1, "C", false, 0, "")

	pdf.SetTextColor(122, 96, 16)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, tr(strings.ToUpper(d.Page.Subtitle)), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetTextColor(26, 21, 0)
	pdf.SetFont("Times", "B", 18)
	pdf.MultiCell(contentW, 8, tr(d.Show.Title), "", "C", false)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		d.Page.DateLabel,
		d.Show.StartsAt.Format("15:04 MST"),
		d.Show.Address,
		d.Show.Category,
	} {
		pdf.CellFormat(contentW, 6, tr(line), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetTextColor(gold[0], gold[1], gold[2])
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, "LINE-UP ARTIS", "", 1, "C", false, 0, "")
	pdf.SetTextColor(26, 21, 0)
	pdf.SetFont("Helvetica", "", 12)
	for _, name := range d.Show.Performers {
		pdf.CellFormat(contentW, 6.5, tr(name), "", 1, "C", false, 0, "")
	}

	if len(d.QRPNG) > 0 {
		const size = 32.0
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(d.QRPNG))
		pdf.ImageOptions("qr", pageW-12-size, pageH-14-size, size, size, false, opts, 0, "")
	}
	if d.PageURL != "" {
		pdf.SetXY(12, pageH-16)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(122, 96, 16)
		pdf.CellFormat(contentW/2, 5, tr(d.PageURL), "", 0, "L", false, 0, d.PageURL)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("flyer: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("flyer: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
