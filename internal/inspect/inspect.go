// Package inspect summarizes an analysis document for the terminal.
package inspect

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/internal/report/exporter"
)

// Summary is the terminal view of a document
type Summary struct {
	Kind          model.Kind
	SchemaVersion int
	SourceFile    string
	GroupBy       string
	HasAISummary  bool

	// Legacy documents
	TotalResponses int
	ValidResponses int
	Positive       int
	Neutral        int
	Negative       int
	Groups         []GroupLine

	// Multi documents
	Questions    []QuestionLine
	Quantitative int
	Qualitative  int
	Empty        int
	Grouped      int
}

// GroupLine is one group of a legacy document
type GroupLine struct {
	Name        string
	Responses   int
	PositivePct int
	NegativePct int
}

// QuestionLine is one question of a multi document
type QuestionLine struct {
	Label     string
	Type      model.AnalysisType
	Responses int
	// Mean and Tier are set for quantitative questions
	Mean float64
	Tier string
	// PositivePct is set for qualitative questions
	PositivePct int
	// Groups is the size of the per-group breakdown, zero without one
	Groups int
}

// Summarize builds the summary of doc
func Summarize(doc *model.Document) Summary {
	s := Summary{
		Kind:          doc.Kind,
		SchemaVersion: doc.SchemaVersion,
		SourceFile:    doc.SourceFile(),
		GroupBy:       doc.Config().GroupByColumn(),
		HasAISummary:  strings.TrimSpace(doc.AISummary()) != "",
	}

	switch {
	case doc.Legacy != nil:
		summarizeLegacy(&s, doc.Legacy)
	case doc.Multi != nil:
		summarizeMulti(&s, doc.Multi)
	}
	return s
}

func summarizeLegacy(s *Summary, data *model.ExportData) {
	g := data.General
	s.TotalResponses = g.Summary.TotalResponses
	s.ValidResponses = g.Summary.ValidResponses
	s.Positive = g.Sentiment.Positivo
	s.Neutral = g.Sentiment.Neutro
	s.Negative = g.Sentiment.Negativo

	for name, gd := range data.ByGroup {
		valid := gd.Summary.ValidResponses
		s.Groups = append(s.Groups, GroupLine{
			Name:        name,
			Responses:   valid,
			PositivePct: exporter.Percent(gd.Sentiment.Positivo, valid),
			NegativePct: exporter.Percent(gd.Sentiment.Negativo, valid),
		})
	}
	sort.Slice(s.Groups, func(i, j int) bool {
		if s.Groups[i].Responses != s.Groups[j].Responses {
			return s.Groups[i].Responses > s.Groups[j].Responses
		}
		return s.Groups[i].Name < s.Groups[j].Name
	})
}

func summarizeMulti(s *Summary, data *model.MultiExportData) {
	for i := range data.Questions {
		q := &data.Questions[i]
		label := q.QuestionNumber
		if label == "" {
			label = fmt.Sprint(i + 1)
		}
		line := QuestionLine{
			Label:     "P" + label,
			Type:      q.AnalysisType,
			Responses: q.TotalResponses,
		}
		s.TotalResponses += q.TotalResponses
		if q.HasGroups() {
			s.Grouped++
			line.Groups = len(q.QuantByGroup) + len(q.QualByGroup)
		}

		switch {
		case q.IsQuantitative():
			s.Quantitative++
			line.Mean = q.Quantitative.Summary.Mean
			line.Tier = exporter.MeanColor(line.Mean)
		case q.IsQualitative():
			s.Qualitative++
			line.PositivePct = exporter.Percent(q.Qualitative.Sentiment.Positivo, q.Qualitative.Summary.ValidResponses)
		default:
			s.Empty++
		}
		s.Questions = append(s.Questions, line)
	}
}

// tierColors maps mean tiers to terminal colors
var tierColors = map[string]color.Attribute{
	exporter.MeanClassTop:  color.FgGreen,
	exporter.MeanClassGood: color.FgBlue,
	exporter.MeanClassMid:  color.FgYellow,
	exporter.MeanClassLow:  color.FgRed,
}

// Print writes the summary to w
func Print(w io.Writer, s Summary) {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(0, 2)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("14"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	source := s.SourceFile
	if source == "" {
		source = "(sin archivo)"
	}
	fmt.Fprintln(w, boxStyle.Render(titleStyle.Render("📊 "+source)))

	fmt.Fprintf(w, "  kind: %s (schema v%d)\n", s.Kind, s.SchemaVersion)
	if s.GroupBy != "" {
		fmt.Fprintf(w, "  group by: %s\n", s.GroupBy)
	}
	if s.HasAISummary {
		fmt.Fprintln(w, "  AI summary: yes")
	} else {
		fmt.Fprintln(w, dim.Render("  AI summary: no"))
	}
	fmt.Fprintln(w)

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	switch s.Kind {
	case model.KindLegacy:
		fmt.Fprintln(w, sectionStyle.Render("Sentiment"))
		fmt.Fprintf(w, "  responses: %d total, %d valid\n", s.TotalResponses, s.ValidResponses)
		green.Fprintf(w, "  positive %d (%d%%)\n", s.Positive, exporter.Percent(s.Positive, s.ValidResponses))
		yellow.Fprintf(w, "  neutral  %d (%d%%)\n", s.Neutral, exporter.Percent(s.Neutral, s.ValidResponses))
		red.Fprintf(w, "  negative %d (%d%%)\n", s.Negative, exporter.Percent(s.Negative, s.ValidResponses))

		if len(s.Groups) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Groups (%d)", len(s.Groups))))
			for _, g := range s.Groups {
				line := fmt.Sprintf("  %-30s %5d  +%3d%%  -%3d%%", g.Name, g.Responses, g.PositivePct, g.NegativePct)
				if g.NegativePct >= 20 {
					red.Fprintln(w, line)
				} else {
					fmt.Fprintln(w, line)
				}
			}
		}

	case model.KindMulti:
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Questions (%d)", len(s.Questions))))
		fmt.Fprintf(w, "  %d quantitative, %d qualitative, %d without data, %d responses\n",
			s.Quantitative, s.Qualitative, s.Empty, s.TotalResponses)
		if s.Grouped > 0 {
			fmt.Fprintf(w, "  %d with a per-group breakdown\n", s.Grouped)
		}
		for _, q := range s.Questions {
			switch q.Type {
			case model.AnalysisQuantitative:
				if q.Tier == "" {
					fmt.Fprintln(w, dim.Render(fmt.Sprintf("  %-6s sin datos", q.Label)))
					continue
				}
				c := color.New(tierColors[q.Tier])
				c.Fprintf(w, "  %-6s mean %.2f  (%d resp.%s)\n", q.Label, q.Mean, q.Responses, groupsNote(q.Groups))
			case model.AnalysisQualitative:
				fmt.Fprintf(w, "  %-6s +%d%%  (%d resp.%s)\n", q.Label, q.PositivePct, q.Responses, groupsNote(q.Groups))
			default:
				fmt.Fprintln(w, dim.Render(fmt.Sprintf("  %-6s sin datos", q.Label)))
			}
		}
	}
}

func groupsNote(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf(", %d groups", n)
}
