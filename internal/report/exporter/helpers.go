package exporter

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// escapeHTML neutralizes the characters that could open a tag, end an
// attribute value or start an entity. The ampersand goes first so the
// other replacements are not double-escaped.
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	text = strings.ReplaceAll(text, `"`, "&quot;")
	return text
}

// roundHalfUp rounds like JavaScript's Math.round for the non-negative
// values used in reports.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Percent returns round(count/total*100), treating a zero total as 1 so
// empty slices yield 0.
func Percent(count, total int) int {
	if total == 0 {
		total = 1
	}
	return roundHalfUp(float64(count) / float64(total) * 100)
}

// fixed formats v with exactly n decimals, independent of locale
func fixed(v float64, n int) string {
	return strconv.FormatFloat(v, 'f', n, 64)
}

// formatPct prints a distribution percentage without a trailing ".0"
func formatPct(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// jsonValue marshals v for embedding in a script block. encoding/json
// escapes <, > and & so embedded labels cannot close the script element.
func jsonValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

// localizer formats numbers and dates for one locale
type localizer struct {
	tag     language.Tag
	printer *message.Printer
}

func newLocalizer(tag language.Tag) *localizer {
	return &localizer{tag: tag, printer: message.NewPrinter(tag)}
}

// Int formats an integer with the locale's digit grouping
func (l *localizer) Int(n int) string {
	return l.printer.Sprintf("%d", n)
}

var monthNames = map[string][12]string{
	"es": {"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	"en": {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	"pt": {"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
}

// LongDate formats t as a long date, e.g. "16 de octubre de 2026" for
// Spanish. Languages without a month table fall back to Spanish.
func (l *localizer) LongDate(t time.Time) string {
	base, _ := l.tag.Base()
	switch base.String() {
	case "en":
		return monthNames["en"][t.Month()-1] + " " + strconv.Itoa(t.Day()) + ", " + strconv.Itoa(t.Year())
	case "pt":
		return strconv.Itoa(t.Day()) + " de " + monthNames["pt"][t.Month()-1] + " de " + strconv.Itoa(t.Year())
	default:
		return strconv.Itoa(t.Day()) + " de " + monthNames["es"][t.Month()-1] + " de " + strconv.Itoa(t.Year())
	}
}

var extensionPattern = regexp.MustCompile(`\.[^.]+$`)

// stripExtension removes the last dot-delimited suffix
func stripExtension(file string) string {
	return extensionPattern.ReplaceAllString(file, "")
}

// sanitizeFilename replaces characters that are unsafe in file paths and
// header values. Spaces and accents are kept.
func sanitizeFilename(name string) string {
	result := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, name)

	result = strings.TrimSpace(result)
	if result == "" || result == "." || result == ".." {
		return "reporte"
	}
	if runes := []rune(result); len(runes) > 200 {
		result = string(runes[:200])
	}
	return result
}
