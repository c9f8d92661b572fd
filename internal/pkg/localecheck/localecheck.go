// Package localecheck implements the locale and currency validity contract
// using golang.org/x/text.
package localecheck

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Checker validates BCP 47 language tags and ISO 4217 currency codes.
type Checker struct{}

func New() Checker { return Checker{} }

// LanguageValid reports whether code parses as a recognized language tag.
func (Checker) LanguageValid(code string) bool {
	_, err := language.Parse(code)
	return err == nil
}

// CurrencyValid reports whether code is a well-formed ISO 4217 currency unit.
func (Checker) CurrencyValid(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}
