package exporter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evalplatform/evalreport/consts"
	"github.com/evalplatform/evalreport/internal/model"
)

// Display limits of the single-question report
const (
	legacyTopWords        = 12
	legacyChartGroups     = 12
	legacyHighlights      = 5
	groupCardWords        = 10
	groupCardTrigrams     = 5
	groupCardNames        = 5
	groupCardExcerpts     = 3
	highNegativeThreshold = 20
	minGroupChartHeight   = 80
	groupChartRowHeight   = 25
	minInlineSegmentPct   = 2
)

const noneFound = `<p style="color:#94a3b8;font-size:13px;">No se encontraron</p>`

// groupStat is one group with its sentiment shares precomputed
type groupStat struct {
	name          string
	data          model.GroupData
	pos, neu, neg int
}

func newGroupStat(name string, d model.GroupData) groupStat {
	valid := d.Summary.ValidResponses
	return groupStat{
		name: name,
		data: d,
		pos:  Percent(d.Sentiment.Positivo, valid),
		neu:  Percent(d.Sentiment.Neutro, valid),
		neg:  Percent(d.Sentiment.Negativo, valid),
	}
}

// groupsByVolume returns the groups ordered by valid responses, largest
// first. Ties fall back to the group name so output is stable.
func groupsByVolume(byGroup map[string]model.GroupData) []groupStat {
	stats := make([]groupStat, 0, len(byGroup))
	for name, d := range byGroup {
		stats = append(stats, newGroupStat(name, d))
	}
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i].data.Summary.ValidResponses, stats[j].data.Summary.ValidResponses
		if a != b {
			return a > b
		}
		return stats[i].name < stats[j].name
	})
	return stats
}

// groupsByPositive returns the groups ordered by positive share
func groupsByPositive(byGroup map[string]model.GroupData) []groupStat {
	stats := groupsByVolume(byGroup)
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].pos > stats[j].pos
	})
	return stats
}

// GenerateHTMLReport renders the single-question report as a standalone
// HTML document.
func GenerateHTMLReport(data *model.ExportData, opts Options) string {
	opts = opts.withDefaults()
	if data == nil {
		data = &model.ExportData{}
	}

	loc := newLocalizer(opts.Locale)
	now := loc.LongDate(opts.Now())
	file := data.Config.SourceFile()
	general := data.General
	summary := general.Summary
	grouped := data.ByGroup != nil
	groupCount := len(data.ByGroup)

	var sb strings.Builder
	writeHead(&sb, "Reporte de Evaluaciones - "+file, opts.ChartJSURL)

	fmt.Fprintf(&sb, `
<div class="header">
  <h1>📊 Reporte de Evaluaciones Docentes</h1>
  <p>%s</p>
  <div class="meta">
    <span>📅 %s</span>
    <span>📝 %s respuestas totales</span>
    <span>✅ %s válidas</span>
    <span>🏢 %d departamentos</span>
  </div>
</div>
`, escapeHTML(file), now, loc.Int(summary.TotalResponses), loc.Int(summary.ValidResponses), groupCount)

	sb.WriteString("\n<div class=\"cards\">\n")
	writeCard(&sb, "📊 Total Respuestas", loc.Int(summary.TotalResponses))
	writeCard(&sb, "✅ Válidas", loc.Int(summary.ValidResponses))
	writeCard(&sb, "📏 Long. Promedio", loc.Int(roundHalfUp(summary.AvgLength)))
	writeCard(&sb, "💡 Sugerencias", loc.Int(len(general.Suggestions)))
	writeCard(&sb, "🏢 Departamentos", loc.Int(groupCount))
	sb.WriteString("</div>\n")

	writeAISummary(&sb, data.AISummary, opts.EscapeAISummary)

	sb.WriteString(`
<div class="charts-grid">
  <div class="chart-box">
    <h3>Distribución de Sentimiento</h3>
    <canvas id="sentimentChart"></canvas>
  </div>
  <div class="chart-box">
    <h3>Palabras más Frecuentes</h3>
    <canvas id="wordsChart"></canvas>
  </div>
</div>
`)

	var byVolume []groupStat
	if grouped {
		byVolume = groupsByVolume(data.ByGroup)
		chartHeight := max(minGroupChartHeight, groupCount*groupChartRowHeight)

		fmt.Fprintf(&sb, `
<div class="charts-grid">
  <div class="chart-box" style="grid-column: 1 / -1;">
    <h3>Sentimiento por Departamento</h3>
    <canvas id="deptChart" height="%d"></canvas>
  </div>
</div>
`, chartHeight)

		sb.WriteString(`
<div class="section">
  <h2 class="section-title">Ranking de Departamentos</h2>
  <table class="ranking-table">
    <thead><tr><th>#</th><th>Departamento</th><th>Respuestas</th><th>% Positivo</th><th>% Negativo</th><th>Sugerencias</th></tr></thead>
    <tbody>`)
		for i, g := range groupsByPositive(data.ByGroup) {
			writeRankingRow(&sb, loc, i+1, g)
		}
		sb.WriteString(`</tbody>
  </table>
</div>

<div class="section">
  <h2 class="section-title">Detalle por Departamento</h2>
  <p style="font-size:13px;color:#64748b;margin-bottom:16px;">Haz clic en cada departamento para expandir su análisis</p>
`)
		for _, g := range byVolume {
			writeGroupCard(&sb, loc, g)
		}
		sb.WriteString("</div>\n")
	}

	sb.WriteString(`
<div class="section">
  <h2 class="section-title">Respuestas Destacadas</h2>
  <div class="subsection"><h4>✨ Positivas</h4>
    `)
	writeExcerpts(&sb, general.Highlights.Positive, legacyHighlights, "response-pos")
	if len(general.Highlights.Positive) == 0 {
		sb.WriteString(noneFound)
	}
	sb.WriteString(`
  </div>
  <div class="subsection"><h4>⚠️ Áreas de Oportunidad</h4>
    `)
	writeExcerpts(&sb, general.Highlights.Negative, legacyHighlights, "response-neg")
	if len(general.Highlights.Negative) == 0 {
		sb.WriteString(noneFound)
	}
	sb.WriteString("\n  </div>\n")
	if len(general.Suggestions) > 0 {
		sb.WriteString(`  <div class="subsection"><h4>💡 Sugerencias</h4>
    `)
		writeExcerpts(&sb, general.Suggestions, legacyHighlights, "response-sug")
		sb.WriteString("\n  </div>\n")
	}
	sb.WriteString("</div>\n")

	writeFooter(&sb, consts.ProjectName, now)
	writeScripts(&sb, legacyCharts(general, byVolume, grouped))
	return sb.String()
}

// legacyCharts builds the chart scripts in the order the canvases appear
func legacyCharts(general model.GroupData, byVolume []groupStat, grouped bool) []string {
	total := general.Summary.ValidResponses
	if total == 0 {
		total = 1
	}

	words := general.TopWords[:min(len(general.TopWords), legacyTopWords)]
	wc := wordsChart{Labels: make([]string, 0, len(words)), Values: make([]int, 0, len(words)), Color: colorWords}
	for _, w := range words {
		wc.Labels = append(wc.Labels, w.Word)
		wc.Values = append(wc.Values, w.Count)
	}

	scripts := []string{
		renderChart("sentiment", sentimentChart{
			Positive: general.Sentiment.Positivo,
			Neutral:  general.Sentiment.Neutro,
			Negative: general.Sentiment.Negativo,
			Total:    total,
			Colors:   []string{colorPositive, colorNeutral, colorNegative},
		}),
		renderChart("words", wc),
	}

	if grouped {
		top := byVolume[:min(len(byVolume), legacyChartGroups)]
		gc := groupsChart{
			Labels:        make([]string, 0, len(top)),
			Positive:      make([]int, 0, len(top)),
			Negative:      make([]int, 0, len(top)),
			PositiveColor: colorPositive,
			NegativeColor: colorNegative,
		}
		for _, g := range top {
			gc.Labels = append(gc.Labels, g.name)
			gc.Positive = append(gc.Positive, g.pos)
			gc.Negative = append(gc.Negative, g.neg)
		}
		scripts = append(scripts, renderChart("groups", gc))
	}
	return scripts
}

func writeCard(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "  <div class=\"card\"><div class=\"label\">%s</div><div class=\"value\">%s</div></div>\n", label, value)
}

func writeAISummary(sb *strings.Builder, summary string, escape bool) {
	if summary == "" {
		return
	}
	sb.WriteString("\n<div class=\"ai-summary\"><h2>🤖 Resumen generado por IA</h2>")
	sb.WriteString(renderAISummary(summary, escape))
	sb.WriteString("</div>\n")
}

func writeRankingRow(sb *strings.Builder, loc *localizer, rank int, g groupStat) {
	negClass := ""
	if g.neg >= highNegativeThreshold {
		negClass = "badge-neg"
	}
	fmt.Fprintf(sb, `
    <tr>
      <td>%d</td>
      <td><strong>%s</strong></td>
      <td>%s</td>
      <td><span class="badge-pos">%d%%</span></td>
      <td><span class="%s">%d%%</span></td>
      <td>%d</td>
    </tr>`, rank, escapeHTML(g.name), loc.Int(g.data.Summary.ValidResponses), g.pos, negClass, g.neg, len(g.data.Suggestions))
}

// writeGroupCard writes one collapsible group card
func writeGroupCard(sb *strings.Builder, loc *localizer, g groupStat) {
	d := g.data
	fmt.Fprintf(sb, `
      <div class="dept-card">
        <div class="dept-header" onclick="this.parentElement.classList.toggle('open')">
          <div>
            <h3>%s</h3>
            <span class="dept-meta">%s respuestas · Long. prom: %d chars</span>
          </div>
          <div class="dept-badges">
            <span class="badge-pos">%d%% pos</span>
            <span class="badge-neg">%d%% neg</span>
            <span class="chevron">▼</span>
          </div>
        </div>
        <div class="dept-body">
`, escapeHTML(g.name), loc.Int(d.Summary.ValidResponses), roundHalfUp(d.Summary.AvgLength), g.pos, g.neg)

	writeSentimentRow(sb, d.Sentiment, g.pos, g.neu, g.neg)
	writeSentimentBar(sb, g.pos, g.neu, g.neg)
	writeAnalysisDetail(sb, d, groupCardExcerpts)

	sb.WriteString("        </div>\n      </div>\n")
}

func writeSentimentRow(sb *strings.Builder, s model.Sentiment, pos, neu, neg int) {
	fmt.Fprintf(sb, `          <div class="sentiment-row">
            <div class="sentiment-block pos"><div class="sentiment-num">%d%%</div><div class="sentiment-label">Positivo (%d)</div></div>
            <div class="sentiment-block neu"><div class="sentiment-num">%d%%</div><div class="sentiment-label">Neutro (%d)</div></div>
            <div class="sentiment-block neg"><div class="sentiment-num">%d%%</div><div class="sentiment-label">Negativo (%d)</div></div>
          </div>
`, pos, s.Positivo, neu, s.Neutro, neg, s.Negativo)
}

// writeSentimentBar writes the inline positive/neutral/negative bar. Empty
// shares get no segment; tiny ones are widened so they stay visible.
func writeSentimentBar(sb *strings.Builder, pos, neu, neg int) {
	sb.WriteString(`          <div class="dist-bar sentiment-bar">`)
	for _, seg := range []struct {
		pct   int
		color string
	}{{pos, colorPositive}, {neu, colorNeutral}, {neg, colorNegative}} {
		if seg.pct <= 0 {
			continue
		}
		fmt.Fprintf(sb, `<span class="seg" style="width:%d%%;background:%s"></span>`, max(seg.pct, minInlineSegmentPct), seg.color)
	}
	sb.WriteString("</div>\n")
}

// writeAnalysisDetail writes the tag clouds and excerpts of one analysis
// slice. Keywords are always listed; other blocks only when non-empty.
func writeAnalysisDetail(sb *strings.Builder, d model.GroupData, excerpts int) {
	words := make([]string, 0, groupCardWords)
	for _, w := range d.TopWords[:min(len(d.TopWords), groupCardWords)] {
		words = append(words, tag("tag", w.Word, w.Count))
	}
	trigrams := make([]string, 0, groupCardTrigrams)
	for _, t := range d.TopTrigrams[:min(len(d.TopTrigrams), groupCardTrigrams)] {
		trigrams = append(trigrams, tag("tag tag-blue", t.Phrase, t.Count))
	}
	names := make([]string, 0, groupCardNames)
	for _, n := range d.TopNames[:min(len(d.TopNames), groupCardNames)] {
		names = append(names, tag("tag tag-purple", n.Name, n.Count))
	}

	fmt.Fprintf(sb, "          <div class=\"subsection\"><h4>Palabras clave</h4><div class=\"tags\">%s</div></div>\n", strings.Join(words, " "))
	if len(trigrams) > 0 {
		fmt.Fprintf(sb, "          <div class=\"subsection\"><h4>Frases frecuentes</h4><div class=\"tags\">%s</div></div>\n", strings.Join(trigrams, " "))
	}
	if len(names) > 0 {
		fmt.Fprintf(sb, "          <div class=\"subsection\"><h4>👤 Nombres mencionados</h4><div class=\"tags\">%s</div></div>\n", strings.Join(names, " "))
	}
	writeExcerptBlock(sb, "✨ Respuestas positivas", d.Highlights.Positive, excerpts, "response-pos")
	writeExcerptBlock(sb, "⚠️ Áreas de oportunidad", d.Highlights.Negative, excerpts, "response-neg")
	writeExcerptBlock(sb, "💡 Sugerencias", d.Suggestions, excerpts, "response-sug")
}

func tag(class, label string, count int) string {
	return fmt.Sprintf(`<span class="%s">%s (%d)</span>`, class, escapeHTML(label), count)
}

func writeExcerptBlock(sb *strings.Builder, title string, items []string, limit int, class string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "          <div class=\"subsection\"><h4>%s</h4>", title)
	writeExcerpts(sb, items, limit, class)
	sb.WriteString("</div>\n")
}

func writeExcerpts(sb *strings.Builder, items []string, limit int, class string) {
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, `<div class="response %s">%s</div>`, class, escapeHTML(item))
	}
}
