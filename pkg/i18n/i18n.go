// Package i18n localizes battle text. Messages are English format strings
// that double as catalog keys; other languages register translations
// against those keys.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported lists the languages with registered catalogs. English is the
// source language and needs no entries.
var Supported = []language.Tag{
	language.English,
	language.Chinese,
}

var matcher = language.NewMatcher(Supported)

// Localizer prints messages in a single language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocalizer returns a Localizer for the closest supported match of lang.
// Empty or unparseable input falls back to English.
func NewLocalizer(lang string) *Localizer {
	tag := Match(lang)
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// Match resolves a BCP 47 string (e.g. "zh-CN", "en-US") to a supported tag.
func Match(lang string) language.Tag {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return language.English
	}
	desired, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(desired) == 0 {
		return language.English
	}
	_, idx, _ := matcher.Match(desired...)
	return Supported[idx]
}

// T formats key in the localizer's language.
func (l *Localizer) T(key string, args ...any) string {
	if l == nil {
		return fmt.Sprintf(key, args...)
	}
	return l.printer.Sprintf(key, args...)
}

// Name translates a fixed label such as a type or stat name. It takes no
// arguments, so callers can pass labels held in variables.
func (l *Localizer) Name(key string) string {
	if l == nil {
		return key
	}
	return l.printer.Sprintf(message.Key(key, key))
}

// Lang returns the base language code, e.g. "en" or "zh".
func (l *Localizer) Lang() string {
	if l == nil {
		return "en"
	}
	base, _ := l.tag.Base()
	return base.String()
}

// Register adds translations for tag. Keys are the English format strings.
func Register(tag language.Tag, entries map[string]string) error {
	for key, msg := range entries {
		if err := message.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("failed to register %q for %s: %w", key, tag, err)
		}
	}
	return nil
}

// MustRegister is Register for package init, panicking on a bad entry.
func MustRegister(tag language.Tag, entries map[string]string) {
	if err := Register(tag, entries); err != nil {
		panic(err)
	}
}
