package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	"github.com/corvusmed/painmap/internal/models"
	"github.com/corvusmed/painmap/internal/services"
	"github.com/jung-kurt/gofpdf"
)

// Layout constants carried over from the original report: A4 millimetre
// coordinates, fixed-height reservations instead of measured blocks.
const (
	pdfMargin     = 20.0
	pdfLineHeight = 7.0
	chartHeight   = 40.0
	maxBarWidth   = 30.0
	barSpacing    = 2.0
	imageBoxSize  = 60.0
	// Reserved space a timeline entry needs before a page break is forced.
	entryReserve = 70.0
)

// ImageFetcher downloads a stored photo by its public URL. Fetch or decode
// failures drop that photo from the report; everything else still renders.
type ImageFetcher interface {
	DownloadImage(ctx context.Context, imageURL string) ([]byte, string, error)
}

func painColorRGB(level int) (int, int, int) {
	switch models.PainBand(level) {
	case models.BandMild:
		return 34, 197, 94
	case models.BandModerate:
		return 234, 179, 8
	default:
		return 239, 68, 68
	}
}

// WritePDF renders the paginated report: a title page header, the pain bar
// chart with legend, then the chronological timeline with inlined photos.
func WritePDF(ctx context.Context, w io.Writer, injury models.Injury, fetcher ImageFetcher, now time.Time, location *time.Location) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()
	y := pdfMargin

	bodyPart := injury.BodyPartID
	if bodyPart == "" {
		bodyPart = "Not specified"
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(pdfMargin, y, injury.Title)
	y += pdfLineHeight * 1.5

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Location: %s", bodyPart),
		fmt.Sprintf("Started: %s", injury.CreatedAt.In(location).Format(textDateLayout)),
		fmt.Sprintf("Last Updated: %s", injury.LastLoggedAt.In(location).Format(textDateLayout)),
		fmt.Sprintf("Total Days Tracked: %d", injury.MaxDay()),
		fmt.Sprintf("Generated: %s", now.In(location).Format(textDateLayout)),
	} {
		pdf.Text(pdfMargin, y, line)
		y += pdfLineHeight
	}
	y += pdfLineHeight

	y = drawPainChart(pdf, injury, pageWidth, y)
	y = drawLegend(pdf, y)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(pdfMargin, y, "Progress Timeline")
	y += pdfLineHeight * 1.5

	pdf.SetFont("Helvetica", "", 10)
	for _, entry := range injury.Logs {
		y = drawTimelineEntry(ctx, pdf, entry, fetcher, pageWidth, pageHeight, y, now, location)
	}

	return pdf.Output(w)
}

// drawPainChart renders one bar per log, height proportional to pain level
// on the 0-10 scale, colored by band, labeled with the day below and the
// value above.
func drawPainChart(pdf *gofpdf.Fpdf, injury models.Injury, pageWidth float64, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(pdfMargin, y, "Pain Chart")
	y += pdfLineHeight * 1.5

	chartWidth := pageWidth - pdfMargin*2
	pdf.SetDrawColor(200, 200, 200)
	pdf.Rect(pdfMargin, y, chartWidth, chartHeight, "D")

	if len(injury.Logs) > 0 {
		barWidth := chartWidth / float64(len(injury.Logs))
		if barWidth > maxBarWidth {
			barWidth = maxBarWidth
		}

		for i, entry := range injury.Logs {
			barHeight := float64(entry.PainLevel) / 10 * (chartHeight - 10)
			x := pdfMargin + float64(i)*(barWidth+barSpacing) + 5
			barTop := y + chartHeight - barHeight - 5

			r, g, b := painColorRGB(entry.PainLevel)
			pdf.SetFillColor(r, g, b)
			pdf.Rect(x, barTop, barWidth-barSpacing, barHeight, "F")

			pdf.SetFont("Helvetica", "", 7)
			pdf.SetTextColor(0, 0, 0)
			center := x + (barWidth-barSpacing)/2
			textCentered(pdf, center, y+chartHeight+5, fmt.Sprintf("D%d", entry.DayNumber))
			textCentered(pdf, center, barTop-2, fmt.Sprintf("%d", entry.PainLevel))
		}
	}

	return y + chartHeight + 15
}

func drawLegend(pdf *gofpdf.Fpdf, y float64) float64 {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(pdfMargin, y, "Legend:")
	y += 5

	legend := []struct {
		level int
		label string
	}{
		{2, "Mild (1-3)"},
		{5, "Moderate (4-7)"},
		{9, "Severe (8-10)"},
	}
	for i, item := range legend {
		x := pdfMargin + float64(i)*45
		r, g, b := painColorRGB(item.level)
		pdf.SetFillColor(r, g, b)
		pdf.Rect(x, y-2, 4, 4, "F")
		pdf.Text(x+6, y, item.label)
	}

	return y + pdfLineHeight*2
}

func drawTimelineEntry(ctx context.Context, pdf *gofpdf.Fpdf, entry models.PainLog, fetcher ImageFetcher, pageWidth float64, pageHeight float64, y float64, now time.Time, location *time.Location) float64 {
	if y > pageHeight-pdfMargin-entryReserve {
		pdf.AddPage()
		y = pdfMargin
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(pdfMargin, y, fmt.Sprintf("Day %d - %s", entry.DayNumber, services.FormatRelativeDate(entry.CreatedAt, now, location)))
	y += pdfLineHeight

	pdf.SetFont("Helvetica", "", 10)
	r, g, b := painColorRGB(entry.PainLevel)
	pdf.SetTextColor(r, g, b)
	pdf.Text(pdfMargin, y, fmt.Sprintf("Pain Level: %d/10", entry.PainLevel))
	pdf.SetTextColor(0, 0, 0)
	y += pdfLineHeight

	note := entry.Note
	if note == "" {
		note = "No notes"
	}
	for _, line := range pdf.SplitLines([]byte("Notes: "+note), pageWidth-pdfMargin*2) {
		if y > pageHeight-pdfMargin-pdfLineHeight {
			pdf.AddPage()
			y = pdfMargin
		}
		pdf.Text(pdfMargin, y, string(line))
		y += pdfLineHeight
	}

	if entry.ImageURL != "" && fetcher != nil {
		y += 5
		if name, imageType, ok := registerImage(ctx, pdf, entry, fetcher); ok {
			if y+imageBoxSize > pageHeight-pdfMargin {
				pdf.AddPage()
				y = pdfMargin
			}
			options := gofpdf.ImageOptions{ImageType: imageType}
			pdf.ImageOptions(name, pdfMargin, y, imageBoxSize, imageBoxSize, false, options, 0, "")
			y += imageBoxSize + 5
		}
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdfMargin, y+2, pageWidth-pdfMargin, y+2)
	return y + pdfLineHeight*1.5
}

// registerImage fetches and validates a photo before handing it to the PDF
// engine. Anything that fails to download or decode is silently dropped so
// one broken object cannot sink the whole report. The full decode matters: a
// file with a valid header but a corrupt body would otherwise reach the PDF
// engine, whose error state is sticky and would fail the final output.
func registerImage(ctx context.Context, pdf *gofpdf.Fpdf, entry models.PainLog, fetcher ImageFetcher) (string, string, bool) {
	content, _, err := fetcher.DownloadImage(ctx, entry.ImageURL)
	if err != nil {
		return "", "", false
	}
	_, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", "", false
	}

	var imageType string
	switch format {
	case "png":
		imageType = "PNG"
	case "gif":
		imageType = "GIF"
	case "jpeg":
		imageType = "JPEG"
	default:
		return "", "", false
	}

	name := "log-" + entry.ID
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(content))
	if pdf.Err() {
		pdf.ClearError()
		return "", "", false
	}
	return name, imageType, true
}

func textCentered(pdf *gofpdf.Fpdf, x float64, y float64, text string) {
	pdf.Text(x-pdf.GetStringWidth(text)/2, y, text)
}
