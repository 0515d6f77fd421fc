package exporter

import (
	"strconv"
	"strings"
	"text/template"
)

// Chart.js bootstrapping. Data arrays are baked in as JSON at generation
// time; callbacks stay as JavaScript source, so these are text templates
// rather than marshaled config objects.
var chartTemplates = template.Must(template.New("charts").Funcs(template.FuncMap{
	"json": jsonValue,
}).Parse(`
{{- define "sentiment" -}}
new Chart(document.getElementById('sentimentChart'), {
  type: 'doughnut',
  data: {
    labels: ['Positivo', 'Neutro', 'Negativo'],
    datasets: [{
      data: [{{.Positive}}, {{.Neutral}}, {{.Negative}}],
      backgroundColor: {{json .Colors}},
      borderWidth: 0
    }]
  },
  options: {
    responsive: true,
    plugins: {
      legend: { position: 'bottom' },
      tooltip: { callbacks: { label: function(c) { return c.label + ': ' + c.raw.toLocaleString() + ' (' + Math.round(c.raw/{{.Total}}*100) + '%)'; } } }
    }
  }
});
{{- end -}}

{{- define "words" -}}
new Chart(document.getElementById('wordsChart'), {
  type: 'bar',
  data: {
    labels: {{json .Labels}},
    datasets: [{ data: {{json .Values}}, backgroundColor: '{{.Color}}', borderRadius: 4 }]
  },
  options: {
    indexAxis: 'y',
    responsive: true,
    plugins: { legend: { display: false } },
    scales: { x: { grid: { display: false } } }
  }
});
{{- end -}}

{{- define "groups" -}}
new Chart(document.getElementById('deptChart'), {
  type: 'bar',
  data: {
    labels: {{json .Labels}},
    datasets: [
      { label: 'Positivo', data: {{json .Positive}}, backgroundColor: '{{.PositiveColor}}' },
      { label: 'Negativo', data: {{json .Negative}}, backgroundColor: '{{.NegativeColor}}' }
    ]
  },
  options: {
    indexAxis: 'y',
    responsive: true,
    scales: { x: { stacked: false, max: 100, ticks: { callback: v => v + '%' } }, y: { stacked: false } },
    plugins: { tooltip: { callbacks: { label: function(c) { return c.dataset.label + ': ' + c.raw + '%'; } } } }
  }
});
{{- end -}}

{{- define "distribution" -}}
new Chart(document.getElementById('{{.CanvasID}}'), {
  type: 'bar',
  data: {
    labels: {{json .Labels}},
    datasets: [{ label: 'Respuestas', data: {{json .Counts}}, backgroundColor: {{json .Colors}}, borderRadius: 4 }]
  },
  options: {
    responsive: true,
    plugins: {
      legend: { display: false },
      tooltip: { callbacks: { label: function(c) { return c.raw.toLocaleString() + ' respuestas'; } } }
    },
    scales: { y: { beginAtZero: true, ticks: { precision: 0 } }, x: { grid: { display: false } } }
  }
});
{{- end -}}
`))

type sentimentChart struct {
	Positive, Neutral, Negative int
	// Total is the tooltip denominator, never zero
	Total  int
	Colors []string
}

type wordsChart struct {
	Labels []string
	Values []int
	Color  string
}

type groupsChart struct {
	Labels                       []string
	Positive, Negative           []int
	PositiveColor, NegativeColor string
}

type distributionChart struct {
	CanvasID string
	Labels   []string
	Counts   []int
	Colors   []string
}

// renderChart executes one named chart template. The templates only
// reference fields of the types above, so execution cannot fail at runtime
// for well-typed input.
func renderChart(name string, data any) string {
	var sb strings.Builder
	if err := chartTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		return "/* chart " + name + " unavailable */"
	}
	return sb.String()
}

// distChartID is the canvas id of the i-th question's distribution chart
func distChartID(index int) string {
	return "distChart_" + strconv.Itoa(index)
}
