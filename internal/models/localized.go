package models

import "strings"

// LocalizedString holds vi/en variants of a piece of copy.
type LocalizedString struct {
	Vi string `json:"vi,omitempty" yaml:"vi,omitempty"`
	En string `json:"en,omitempty" yaml:"en,omitempty"`
}

// Clean trims both locales and reports whether anything is left.
func (l LocalizedString) Clean() (LocalizedString, bool) {
	out := LocalizedString{
		Vi: strings.TrimSpace(l.Vi),
		En: strings.TrimSpace(l.En),
	}
	return out, out.Vi != "" || out.En != ""
}

// Resolve returns the variant for the locale, falling back to the other one.
func (l LocalizedString) Resolve(locale string) string {
	if locale == "vi" && l.Vi != "" {
		return l.Vi
	}
	if l.En != "" {
		return l.En
	}
	return l.Vi
}
