package exporter

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"

	"github.com/evalplatform/evalreport/consts"
	"github.com/evalplatform/evalreport/internal/model"
)

const (
	minMicroSegmentPct = 3
	questionBigrams    = 10
	distChartHeight    = 120
)

// scale is the 1-5 answer scale every quantitative question reports on
var scale = []string{"1", "2", "3", "4", "5"}

// scaleKeys returns the five scale values followed by any other values the
// distribution carries.
func scaleKeys(dist model.Distribution) []string {
	keys := append([]string(nil), scale...)
	for _, k := range dist.Keys() {
		if !slices.Contains(scale, k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// questionLabel is the display name of a question
func questionLabel(q model.QuestionResult, index int) string {
	if q.QuestionNumber == "" {
		return "Pregunta " + strconv.Itoa(index+1)
	}
	return "Pregunta " + q.QuestionNumber
}

// shortLabel is the compact column header used in the comparison table
func shortLabel(q model.QuestionResult, index int) string {
	if q.QuestionNumber == "" {
		return "P" + strconv.Itoa(index+1)
	}
	return "P" + q.QuestionNumber
}

// indexedQuestion keeps a question's position in the input
type indexedQuestion struct {
	index int
	q     model.QuestionResult
}

// GenerateMultiHTMLReport renders the multi-question report as a
// standalone HTML document. Questions keep their input order.
func GenerateMultiHTMLReport(data *model.MultiExportData, opts Options) string {
	opts = opts.withDefaults()
	if data == nil {
		data = &model.MultiExportData{}
	}

	loc := newLocalizer(opts.Locale)
	now := loc.LongDate(opts.Now())
	file := data.Config.SourceFile()
	groupBy := data.Config.GroupByColumn()

	var quant, qual []indexedQuestion
	totalResponses := 0
	for i, q := range data.Questions {
		totalResponses += q.TotalResponses
		switch {
		case q.IsQuantitative():
			quant = append(quant, indexedQuestion{i, q})
		case q.IsQualitative():
			qual = append(qual, indexedQuestion{i, q})
		}
	}
	groups := distinctGroups(data.Questions)

	var sb strings.Builder
	writeHead(&sb, "Reporte Multi-pregunta - "+file, opts.ChartJSURL, multiStyles)

	fmt.Fprintf(&sb, `
<div class="header">
  <h1>📊 Reporte de Evaluaciones Docentes</h1>
  <p>%s</p>
  <div class="meta">
    <span>📅 %s</span>
    <span>❓ %d preguntas</span>
    <span>📝 %s respuestas totales</span>
`, escapeHTML(file), now, len(data.Questions), loc.Int(totalResponses))
	if groupBy != "" {
		fmt.Fprintf(&sb, "    <span>🏢 Agrupado por %s</span>\n", escapeHTML(groupBy))
	}
	sb.WriteString("  </div>\n</div>\n")

	sb.WriteString("\n<div class=\"cards\">\n")
	writeCard(&sb, "❓ Preguntas", loc.Int(len(data.Questions)))
	writeCard(&sb, "📈 Cuantitativas", loc.Int(len(quant)))
	writeCard(&sb, "💬 Cualitativas", loc.Int(len(qual)))
	writeCard(&sb, "📝 Respuestas totales", loc.Int(totalResponses))
	writeCard(&sb, "🏢 Grupos", loc.Int(len(groups)))
	sb.WriteString("</div>\n")

	writeAISummary(&sb, data.AISummary, opts.EscapeAISummary)

	if len(quant) > 0 {
		writeQuantSummary(&sb, loc, quant)
	}
	if groupBy != "" {
		writeComparison(&sb, opts, groupBy, quant)
	}

	sb.WriteString("\n<div class=\"section questions\">\n  <h2 class=\"section-title\">Detalle por Pregunta</h2>\n")
	for i, q := range data.Questions {
		switch {
		case q.IsQuantitative():
			writeQuantCard(&sb, loc, i, q)
		case q.IsQualitative():
			writeQualCard(&sb, loc, i, q)
		default:
			writeEmptyCard(&sb, i, q)
		}
	}
	sb.WriteString("</div>\n")

	writeFooter(&sb, consts.ProjectName, now)

	scripts := make([]string, 0, len(quant))
	for _, iq := range quant {
		scripts = append(scripts, distributionScript(iq.index, iq.q.Quantitative.Distribution))
	}
	writeScripts(&sb, scripts)
	return sb.String()
}

// distinctGroups returns every group name found in any question
func distinctGroups(questions []model.QuestionResult) map[string]struct{} {
	groups := make(map[string]struct{})
	for _, q := range questions {
		for name := range q.QuantByGroup {
			groups[name] = struct{}{}
		}
		for name := range q.QualByGroup {
			groups[name] = struct{}{}
		}
	}
	return groups
}

func writeQuantSummary(sb *strings.Builder, loc *localizer, quant []indexedQuestion) {
	sb.WriteString(`
<div class="section">
  <h2 class="section-title">Resumen Cuantitativo</h2>
  <table class="quant-summary">
    <thead><tr><th>Pregunta</th><th class="num">Promedio</th><th class="num">Mediana</th><th class="num">Desv. Est.</th><th class="num">Respuestas</th><th>Distribución</th></tr></thead>
    <tbody>`)
	for _, iq := range quant {
		s := iq.q.Quantitative.Summary
		fmt.Fprintf(sb, `
    <tr>
      <td><strong>%s</strong></td>
      <td class="num">%s</td>
      <td class="num">%s</td>
      <td class="num">%s</td>
      <td class="num">%s</td>
      <td>%s</td>
    </tr>`, escapeHTML(questionLabel(iq.q, iq.index)), meanSpan(s.Mean), fixed(s.Median, 1), fixed(s.StdDev, 2), loc.Int(s.Valid), microBar("micro-bar", iq.q.Quantitative.Distribution))
	}
	sb.WriteString(`</tbody>
  </table>
</div>
`)
}

// meanSpan renders a mean with its tier color
func meanSpan(mean float64) string {
	return fmt.Sprintf(`<span class="mean %s">%s</span>`, MeanColor(mean), fixed(mean, 2))
}

// microBar renders one segment per scale value. Every segment is at least
// minMicroSegmentPct wide, including empty ones.
func microBar(class string, dist model.Distribution) string {
	var sb strings.Builder
	sb.WriteString(`<div class="` + class + `">`)
	for i, k := range scaleKeys(dist) {
		item := dist[k]
		width := max(item.Pct, minMicroSegmentPct)
		fmt.Fprintf(&sb, `<span class="seg" style="width:%s%%;background:%s" title="%s: %s%%"></span>`,
			formatPct(width), distColor(i), escapeHTML(k), formatPct(item.Pct))
	}
	sb.WriteString("</div>")
	return sb.String()
}

// writeComparison writes the group by question table of means. It is only
// emitted when at least one quantitative question carries groups.
func writeComparison(sb *strings.Builder, opts Options, groupBy string, quant []indexedQuestion) {
	seen := make(map[string]struct{})
	for _, iq := range quant {
		for name := range iq.q.QuantByGroup {
			seen[name] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	collate.New(opts.Locale).SortStrings(names)

	sb.WriteString(`
<div class="section">
  <h2 class="section-title">Comparativo por Grupo</h2>
  <table class="compare-table">
    <thead><tr><th>` + escapeHTML(groupBy) + `</th>`)
	for _, iq := range quant {
		fmt.Fprintf(sb, `<th class="num" title="%s">%s</th>`, escapeHTML(questionLabel(iq.q, iq.index)), escapeHTML(shortLabel(iq.q, iq.index)))
	}
	sb.WriteString("</tr></thead>\n    <tbody>")

	for _, name := range names {
		fmt.Fprintf(sb, "\n    <tr>\n      <td><strong>%s</strong></td>", escapeHTML(name))
		for _, iq := range quant {
			if g, ok := iq.q.QuantByGroup[name]; ok {
				fmt.Fprintf(sb, `<td class="num">%s</td>`, meanSpan(g.Summary.Mean))
			} else {
				sb.WriteString(`<td class="num">—</td>`)
			}
		}
		sb.WriteString("\n    </tr>")
	}

	sb.WriteString("\n    <tr class=\"global\">\n      <td><strong>Global</strong></td>")
	for _, iq := range quant {
		fmt.Fprintf(sb, `<td class="num">%s</td>`, meanSpan(iq.q.Quantitative.Summary.Mean))
	}
	sb.WriteString(`
    </tr></tbody>
  </table>
</div>
`)
}

func writeQuestionHeader(sb *strings.Builder, class, badgeClass, badge, label, meta string) {
	fmt.Fprintf(sb, `
<div class="question-card %s">
  <div class="question-header">
    <span class="q-badge %s">%s</span>
    <h3>%s</h3>
    <span class="q-meta">%s</span>
  </div>
`, class, badgeClass, badge, escapeHTML(label), meta)
}

func writeStatBox(sb *strings.Builder, label, value, hint string) {
	fmt.Fprintf(sb, `    <div class="stat-box"><div class="label">%s</div><div class="value">%s</div>`, label, value)
	if hint != "" {
		fmt.Fprintf(sb, `<div class="hint">%s</div>`, hint)
	}
	sb.WriteString("</div>\n")
}

func writeQuantCard(sb *strings.Builder, loc *localizer, index int, q model.QuestionResult) {
	res := q.Quantitative
	s := res.Summary
	writeQuestionHeader(sb, "question-quant", "q-badge-quant", "Cuantitativa",
		questionLabel(q, index), loc.Int(q.TotalResponses)+" respuestas")

	sb.WriteString("  <div class=\"stat-grid\">\n")
	writeStatBox(sb, "Promedio", meanSpan(s.Mean), "Mín. "+fixed(s.Min, 0)+" · Máx. "+fixed(s.Max, 0))
	writeStatBox(sb, "Mediana", fixed(s.Median, 1), "")
	writeStatBox(sb, "Desv. Est.", fixed(s.StdDev, 2), "")
	writeStatBox(sb, "Respuestas", loc.Int(s.Valid), "de "+loc.Int(s.Total))
	writeStatBox(sb, "Inválidas", loc.Int(s.Invalid), "")
	sb.WriteString("  </div>\n")

	sb.WriteString("  <div class=\"dist-grid\">\n")
	for i, k := range scaleKeys(res.Distribution) {
		item := res.Distribution[k]
		color := distColor(i)
		fmt.Fprintf(sb, `    <div class="dist-box" style="background:%s1a"><div class="dist-pct" style="color:%s">%s%%</div><div class="dist-label">%s · %s</div></div>
`, color, color, formatPct(item.Pct), escapeHTML(k), loc.Int(item.Count))
	}
	sb.WriteString("  </div>\n")
	sb.WriteString("  " + microBar("dist-bar", res.Distribution) + "\n")
	fmt.Fprintf(sb, "  <div class=\"chart-wrap\"><canvas id=\"%s\" height=\"%d\"></canvas></div>\n", distChartID(index), distChartHeight)

	if len(q.QuantByGroup) > 0 {
		writeQuantGroupTable(sb, loc, q.QuantByGroup)
	}
	sb.WriteString("</div>\n")
}

// writeQuantGroupTable ranks groups by mean, highest first
func writeQuantGroupTable(sb *strings.Builder, loc *localizer, byGroup map[string]model.QuantitativeResult) {
	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := byGroup[names[i]].Summary.Mean, byGroup[names[j]].Summary.Mean
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})

	sb.WriteString(`  <div class="subsection"><h4>Por grupo</h4>
  <table class="group-table">
    <thead><tr><th>#</th><th>Grupo</th><th class="num">Promedio</th><th class="num">Mediana</th><th class="num">Desv.</th><th class="num">Resp.</th></tr></thead>
    <tbody>`)
	for i, name := range names {
		s := byGroup[name].Summary
		fmt.Fprintf(sb, `
    <tr><td>%d</td><td><strong>%s</strong></td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td></tr>`,
			i+1, escapeHTML(name), meanSpan(s.Mean), fixed(s.Median, 1), fixed(s.StdDev, 2), loc.Int(s.Valid))
	}
	sb.WriteString("</tbody>\n  </table></div>\n")
}

func writeQualCard(sb *strings.Builder, loc *localizer, index int, q model.QuestionResult) {
	d := *q.Qualitative
	writeQuestionHeader(sb, "question-qual", "q-badge-qual", "Cualitativa",
		questionLabel(q, index), loc.Int(q.TotalResponses)+" respuestas")

	g := newGroupStat("", d)
	sb.WriteString("  <div class=\"stat-grid\">\n")
	writeStatBox(sb, "Respuestas", loc.Int(d.Summary.TotalResponses), "")
	writeStatBox(sb, "Válidas", loc.Int(d.Summary.ValidResponses), "")
	writeStatBox(sb, "Long. Promedio", loc.Int(roundHalfUp(d.Summary.AvgLength)), "")
	writeStatBox(sb, "Sugerencias", loc.Int(len(d.Suggestions)), "")
	writeStatBox(sb, "Positivo", strconv.Itoa(g.pos)+"%", strconv.Itoa(g.neg)+"% negativo")
	sb.WriteString("  </div>\n")

	writeSentimentRow(sb, d.Sentiment, g.pos, g.neu, g.neg)
	writeSentimentBar(sb, g.pos, g.neu, g.neg)

	if len(d.TopPhrases) > 0 {
		bigrams := make([]string, 0, questionBigrams)
		for _, p := range d.TopPhrases[:min(len(d.TopPhrases), questionBigrams)] {
			bigrams = append(bigrams, tag("tag tag-green", p.Phrase, p.Count))
		}
		fmt.Fprintf(sb, "          <div class=\"subsection\"><h4>Bigramas</h4><div class=\"tags\">%s</div></div>\n", strings.Join(bigrams, " "))
	}
	writeAnalysisDetail(sb, d, groupCardExcerpts)

	if len(q.QualByGroup) > 0 {
		sb.WriteString(`  <div class="subsection"><h4>Por grupo</h4>
  <table class="group-table">
    <thead><tr><th>#</th><th>Grupo</th><th>Respuestas</th><th>% Positivo</th><th>% Negativo</th><th>Sugerencias</th></tr></thead>
    <tbody>`)
		for i, gs := range groupsByPositive(q.QualByGroup) {
			writeRankingRow(sb, loc, i+1, gs)
		}
		sb.WriteString("</tbody>\n  </table></div>\n")
	}
	sb.WriteString("</div>\n")
}

func writeEmptyCard(sb *strings.Builder, index int, q model.QuestionResult) {
	writeQuestionHeader(sb, "question-empty", "q-badge-empty", "Sin datos", questionLabel(q, index), "")
	sb.WriteString("  <p class=\"no-data\">No hay datos disponibles para esta pregunta</p>\n</div>\n")
}

func distributionScript(index int, dist model.Distribution) string {
	keys := scaleKeys(dist)
	chart := distributionChart{
		CanvasID: distChartID(index),
		Labels:   keys,
		Counts:   make([]int, 0, len(keys)),
		Colors:   make([]string, 0, len(keys)),
	}
	for i, k := range keys {
		chart.Counts = append(chart.Counts, dist[k].Count)
		chart.Colors = append(chart.Colors, distColor(i))
	}
	return renderChart("distribution", chart)
}
