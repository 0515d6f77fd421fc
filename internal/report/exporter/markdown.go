package exporter

import (
	"regexp"
	"strings"
)

// The AI summary is rendered with a small fixed rule set rather than a
// Markdown parser: headings, bold, italic, flat lists and paragraphs.
// Anything else (tables, code, links) stays literal text.
var (
	mdH3        = regexp.MustCompile(`(?m)^### (.+)$`)
	mdH2        = regexp.MustCompile(`(?m)^## (.+)$`)
	mdH1        = regexp.MustCompile(`(?m)^# (.+)$`)
	mdStarItem  = regexp.MustCompile(`(?m)^\* (.+)$`)
	mdBold      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdItalic    = regexp.MustCompile(`\*(.+?)\*`)
	mdDashItem  = regexp.MustCompile(`(?m)^- (.+)$`)
	mdBulletRun = regexp.MustCompile(`(?:<li>.*</li>\n?)+`)
	mdNumItem   = regexp.MustCompile(`(?m)^\d+\.[ \t](.+)$`)
	mdNumRun    = regexp.MustCompile(`(?:<li class="numbered">.*</li>\n?)+`)
)

// markdownToHTML renders the AI summary. The input is not escaped here;
// callers decide whether the summary is trusted.
func markdownToHTML(md string) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")

	md = mdH3.ReplaceAllString(md, `<h3 class="section-subtitle">$1</h3>`)
	md = mdH2.ReplaceAllString(md, `<h2 class="section-title">$1</h2>`)
	md = mdH1.ReplaceAllString(md, `<h1 class="report-title">$1</h1>`)

	// "* item" must become a list item before "*" is read as emphasis
	md = mdStarItem.ReplaceAllString(md, `<li>$1</li>`)
	md = mdBold.ReplaceAllString(md, `<strong>$1</strong>`)
	md = mdItalic.ReplaceAllString(md, `<em>$1</em>`)
	md = mdDashItem.ReplaceAllString(md, `<li>$1</li>`)
	md = mdBulletRun.ReplaceAllStringFunc(md, func(run string) string {
		return wrapList(run, `<ul class="bullet-list">`, `</ul>`)
	})

	md = mdNumItem.ReplaceAllString(md, `<li class="numbered">$1</li>`)
	md = mdNumRun.ReplaceAllStringFunc(md, func(run string) string {
		return wrapList(run, `<ol class="numbered-list">`, `</ol>`)
	})

	md = strings.ReplaceAll(md, "\n\n", "</p><p>")
	md = strings.ReplaceAll(md, "\n", "<br>")
	return "<p>" + md + "</p>"
}

// wrapList joins a run of list items into one list. A line break that ended
// the run is kept after the closing tag so the text that follows still gets
// its <br> or paragraph break.
func wrapList(run, openTag, closeTag string) string {
	items := strings.TrimSuffix(run, "\n")
	tail := run[len(items):]
	return openTag + strings.ReplaceAll(items, "\n", "") + closeTag + tail
}

// renderAISummary renders the summary, escaping it first when the caller
// does not trust its source.
func renderAISummary(summary string, escape bool) string {
	if escape {
		summary = escapeHTML(summary)
	}
	return markdownToHTML(summary)
}
