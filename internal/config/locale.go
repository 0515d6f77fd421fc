package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/evalplatform/evalreport/consts"
)

// ParseLocale parses a BCP 47 tag such as "es-MX". POSIX-style values
// like "es_MX.UTF-8" are accepted. An empty value yields the default locale.
func ParseLocale(value string) (language.Tag, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = consts.DefaultLocale
	}
	value, _, _ = strings.Cut(value, ".")
	value = strings.ReplaceAll(value, "_", "-")

	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", value, err)
	}
	return tag, nil
}

// LocaleTag returns the configured export locale, falling back to the
// default when the configured value does not parse.
func (c *ExportConfig) LocaleTag() language.Tag {
	tag, err := ParseLocale(c.Locale)
	if err != nil {
		return language.MustParse(consts.DefaultLocale)
	}
	return tag
}
