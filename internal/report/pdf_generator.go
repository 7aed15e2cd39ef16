package report

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/user/metric_plotter_go/internal/analysis"
	"github.com/user/metric_plotter_go/internal/parser"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// Keys of the images BuildPDFReport looks for.
const ImageKeyComparison = "comparison"

// HeatmapImageKey returns the image key of a metric's heatmap.
func HeatmapImageKey(metric string) string {
	return "heatmap_" + metric
}

// ReportInput is everything a PDF report is built from.
type ReportInput struct {
	Source  string // path of the results table
	Series  *parser.GroupedSeries
	Results *analysis.AnalysisResults
	Images  map[string][]byte // PNG images by key
	// ImageAspect maps an image key to its height/width ratio; missing keys use 3:8.
	ImageAspect map[string]float64
	ID          string // report id; generated when empty
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // manually tracked Y position for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 13)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["muted"] = func() {
		s.pdf.SetFont("Arial", "I", 9)
		s.pdf.SetTextColor(90, 90, 90)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellBest"] = func() { // lowest mean error of a metric
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(0, 120, 0)
	}
	s.styles["warning"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// writeTable draws a header row and the given rows. highlight marks rows drawn
// with the tableCellBest style.
func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string, highlight func(int) bool) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	drawHeader := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, h := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, h, "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(s.lineHeight * 2)
	drawHeader()
	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			drawHeader()
		}
		if highlight != nil && highlight(r) {
			s.applyStyle("tableCellBest")
		} else {
			s.applyStyle("tableCell")
		}
		x := pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, aspect float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	width := pdfContentWidth * 0.9
	height := width * aspect
	maxHeight := s.pageHeight - s.contentTopY - s.lineHeight*2
	if height > maxHeight { // scale down to fit one page
		height = maxHeight
		width = height / aspect
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(imageName, x, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "muted", "C")
	}
	s.addSpacer(2)
}

// BuildPDFReport writes a PDF with the row counts, per-method statistics,
// rankings, warnings and figures of one results table. It returns the report id.
func BuildPDFReport(path string, in ReportInput) (string, error) {
	if in.Series == nil || in.Results == nil {
		return "", fmt.Errorf("report needs loaded series and analysis results")
	}
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle("Interpolation Error Comparison", true)
	pdf.AddPage()

	styler := newPDFStyler(pdf)
	g := in.Series

	styler.writeParagraph("Interpolation Error Comparison Report", "h1", "C")
	styler.writeParagraph(fmt.Sprintf("Source: %s", filepath.Base(in.Source)), "normal", "C")
	styler.writeParagraph(fmt.Sprintf("Report ID: %s  |  Generated: %s", id, time.Now().Format("2006-01-02 15:04")), "muted", "C")
	styler.addSpacer(4)

	styler.writeParagraph("Rows per Method", "h2", "L")
	countRows := make([][]string, 0, parser.NumMethods)
	for _, m := range parser.Methods {
		countRows = append(countRows, []string{m.String(), strconv.Itoa(g.Group(m).Rows)})
	}
	styler.writeTable([]string{"Method", "Rows"}, []float64{0.25, 0.15}, countRows, nil)
	styler.writeParagraph(fmt.Sprintf("Percentages (%s rows): %v", parser.MethodAvg, g.Percentages), "normal", "L")
	styler.addSpacer(4)

	styler.writeParagraph("Statistics per Method", "h2", "L")
	statRows := make([][]string, 0, len(in.Results.Summaries))
	best := make([]bool, 0, len(in.Results.Summaries))
	for _, sum := range in.Results.Summaries {
		statRows = append(statRows, []string{
			sum.Metric,
			sum.Method.String(),
			strconv.Itoa(sum.Count),
			formatStat(sum.Mean),
			formatStat(sum.StdDev),
			formatStat(sum.Min),
			formatStat(sum.Max),
			formatStat(sum.Range),
		})
		ranked := in.Results.Rankings[sum.Metric]
		best = append(best, len(ranked) > 0 && ranked[0].Method == sum.Method)
	}
	styler.writeTable(
		[]string{"Metric", "Method", "N", "Mean", "Std Dev", "Min", "Max", "Range"},
		[]float64{0.14, 0.12, 0.08, 0.13, 0.13, 0.13, 0.13, 0.14},
		statRows,
		func(r int) bool { return best[r] },
	)
	styler.addSpacer(4)

	styler.writeParagraph("Method Ranking (lowest mean error first)", "h2", "L")
	for _, metric := range g.Metrics {
		ranked := in.Results.Rankings[metric]
		if len(ranked) == 0 {
			styler.writeParagraph(fmt.Sprintf("%s: no values.", metric), "normal", "L")
			continue
		}
		rows := make([][]string, 0, len(ranked))
		for i, r := range ranked {
			rows = append(rows, []string{metric, strconv.Itoa(i + 1), r.Method.String(), formatStat(r.Value)})
		}
		styler.writeTable([]string{"Metric", "Rank", "Method", "Mean"}, []float64{0.15, 0.1, 0.15, 0.2}, rows,
			func(r int) bool { return r == 0 })
		styler.addSpacer(2)
	}

	if len(in.Results.AnalysisErrors) > 0 {
		styler.addSpacer(2)
		styler.writeParagraph("Warnings", "h2", "L")
		for _, w := range in.Results.AnalysisErrors {
			styler.writeParagraph("- "+w, "warning", "L")
		}
	}

	if img, ok := in.Images[ImageKeyComparison]; ok && len(img) > 0 {
		styler.newPage()
		styler.writeParagraph("Graphical Analysis", "h1", "C")
		styler.addSpacer(3)
		styler.addImage(img, ImageKeyComparison, in.aspect(ImageKeyComparison), ComparisonTitle(g.Metrics))
	}

	for _, metric := range g.Metrics {
		key := HeatmapImageKey(metric)
		img, ok := in.Images[key]
		if !ok || len(img) == 0 {
			continue
		}
		styler.checkAddPage(pdfContentWidth * 0.9 * in.aspect(key))
		styler.writeParagraph(fmt.Sprintf("%s Heatmap", metric), "h2", "L")
		styler.addImage(img, key, in.aspect(key), fmt.Sprintf("%s per method and sample", metric))
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write PDF report: %w", err)
	}
	return id, nil
}

func (in ReportInput) aspect(key string) float64 {
	if a, ok := in.ImageAspect[key]; ok && a > 0 {
		return a
	}
	return 3.0 / 8.0
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}
