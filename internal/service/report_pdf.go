package service

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/odontolegal/forensic-api/internal/model"
)

// Layout estimates for 10pt body text on an A4 page with 15mm margins.
const (
	bodySize      = 10.0
	charsPerLine  = 95
	lineHeightMM  = 5.0
	maxChunkLines = 30
)

var (
	titleProps   = props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}
	headingProps = props.Text{Size: 12, Style: fontstyle.Bold, Top: 2}
	metaProps    = props.Text{Size: bodySize}
	bodyProps    = props.Text{Size: bodySize, Align: align.Left}
)

// RenderReportPDF lays out a report as an A4 document: header block with
// number, date, type and responsible examiner, then the four content
// sections.  responsible may be nil.
func RenderReportPDF(r *model.Report, responsible *model.User) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRows(
		text.NewRow(12, "LAUDO ODONTOLEGAL", titleProps),
		text.NewRow(9, r.Title, props.Text{Size: 13, Style: fontstyle.Bold, Align: align.Center}),
		line.NewRow(4),
		text.NewRow(6, "Número: "+r.ReportNumber, metaProps),
		text.NewRow(6, "Data de emissão: "+r.IssueDate.Format("02/01/2006"), metaProps),
		text.NewRow(6, "Tipo: "+string(r.ReportType), metaProps),
	)
	if responsible != nil {
		m.AddRows(text.NewRow(6, fmt.Sprintf("Responsável: %s (%s)", responsible.Name, responsible.Role), metaProps))
	}
	m.AddRows(line.NewRow(4))

	sections := []struct{ heading, body string }{
		{"Introdução", r.Content.Introduction},
		{"Metodologia", r.Content.Methodology},
		{"Análise e Resultados", r.Content.AnalysisAndResults},
		{"Conclusão", r.Content.Conclusion},
	}
	for _, s := range sections {
		m.AddRows(text.NewRow(9, s.heading, headingProps))
		m.AddRows(paragraphRows(s.body)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render report %s: %w", r.ReportNumber, err)
	}
	return doc.GetBytes(), nil
}

// paragraphRows splits body into rows short enough to never exceed a page.
func paragraphRows(body string) []core.Row {
	var rows []core.Row
	for _, para := range strings.Split(body, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for _, chunk := range chunkWords(para, charsPerLine*maxChunkLines) {
			rows = append(rows, text.NewRow(rowHeight(chunk), chunk, bodyProps))
		}
	}
	return rows
}

func rowHeight(s string) float64 {
	lines := math.Ceil(float64(utf8.RuneCountInString(s)) / charsPerLine)
	if lines < 1 {
		lines = 1
	}
	return lines*lineHeightMM + 1
}

// chunkWords breaks s on word boundaries into pieces of at most limit runes.
// A single word longer than limit is kept whole.
func chunkWords(s string, limit int) []string {
	var out []string
	var b strings.Builder
	n := 0
	for _, w := range strings.Fields(s) {
		wl := utf8.RuneCountInString(w)
		if n > 0 && n+1+wl > limit {
			out = append(out, b.String())
			b.Reset()
			n = 0
		}
		if n > 0 {
			b.WriteByte(' ')
			n++
		}
		b.WriteString(w)
		n += wl
	}
	if n > 0 {
		out = append(out, b.String())
	}
	return out
}
