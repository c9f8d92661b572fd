package localecheck

import "testing"

func TestLanguageValid(t *testing.T) {
	checker := New()

	valid := []string{"en", "es", "en-US", "pt-BR"}
	for _, tag := range valid {
		if !checker.LanguageValid(tag) {
			t.Errorf("expected %q to be a valid language tag", tag)
		}
	}

	invalid := []string{"", "not a language", "english!!"}
	for _, tag := range invalid {
		if checker.LanguageValid(tag) {
			t.Errorf("expected %q to be rejected", tag)
		}
	}
}

func TestCurrencyValid(t *testing.T) {
	checker := New()

	valid := []string{"USD", "EUR", "MXN"}
	for _, code := range valid {
		if !checker.CurrencyValid(code) {
			t.Errorf("expected %q to be a valid currency code", code)
		}
	}

	invalid := []string{"", "U$D", "DOLLARS"}
	for _, code := range invalid {
		if checker.CurrencyValid(code) {
			t.Errorf("expected %q to be rejected", code)
		}
	}
}
