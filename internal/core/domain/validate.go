package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// MinPasswordLength is the shortest password accepted on change or registration.
const MinPasswordLength = 7

// CodeChecker reports whether locale and currency identifiers are recognized.
// Implemented outside the domain (x/text); injected so the validators stay pure.
type CodeChecker interface {
	LanguageValid(code string) bool
	CurrencyValid(code string) bool
}

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v *Violation) Error() string { return v.Message }

// Violations collects every failure found in one validation pass, so clients
// get full multi-field feedback. As an error it reads as the first failure.
type Violations []Violation

func (vs Violations) Error() string {
	if len(vs) == 0 {
		return "validation failed"
	}
	return vs[0].Message
}

// fieldValidator checks one field of the merged candidate record, normalizing
// it in place (defaults) or reporting a violation.
type fieldValidator func(a *Account, codes CodeChecker) *Violation

// accountValidators is the ordered validation pass applied to the whole record
// before every write. Partial updates run the full list, not just the changed
// fields, so cross-field invariants hold on the merged result.
var accountValidators = []fieldValidator{
	validateRole,
	validateUsername,
	validateEmail,
	validateGender,
	validateBirthDate,
	validateLanguage,
	validateCurrency,
}

// ValidateAccount normalizes defaults and runs every field validator against
// the candidate record. It returns nil when the record is valid.
func ValidateAccount(a *Account, codes CodeChecker) Violations {
	var vs Violations
	for _, validate := range accountValidators {
		if v := validate(a, codes); v != nil {
			vs = append(vs, *v)
		}
	}
	return vs
}

func validateRole(a *Account, _ CodeChecker) *Violation {
	if a.Role == "" {
		a.Role = DefaultRole
		return nil
	}
	if a.Role != RoleSeller && a.Role != RoleCustomer {
		return &Violation{Field: "role", Message: "role is not valid"}
	}
	return nil
}

func validateUsername(a *Account, _ CodeChecker) *Violation {
	if a.Username == "" || containsWhitespace(a.Username) {
		return &Violation{Field: "username", Message: "username is not valid"}
	}
	return nil
}

func validateEmail(a *Account, _ CodeChecker) *Violation {
	if !strings.Contains(a.Email, "@") || containsWhitespace(a.Email) {
		return &Violation{Field: "email", Message: "email is not valid"}
	}
	return nil
}

func validateGender(a *Account, _ CodeChecker) *Violation {
	if a.Gender == "" {
		a.Gender = DefaultGender
		return nil
	}
	if a.Gender != GenderMale && a.Gender != GenderFemale {
		return &Violation{Field: "gender", Message: "gender is not valid"}
	}
	return nil
}

// validateBirthDate accepts the empty string as "unset"; anything else must be
// a real calendar date in DD-MM-YYYY form (31-02-2020 is rejected).
func validateBirthDate(a *Account, _ CodeChecker) *Violation {
	if a.BirthDate == "" {
		return nil
	}
	if _, err := time.Parse(BirthDateLayout, a.BirthDate); err != nil {
		return &Violation{Field: "birth_date", Message: "birth_date is not valid"}
	}
	return nil
}

func validateLanguage(a *Account, codes CodeChecker) *Violation {
	if a.Language == "" {
		a.Language = DefaultLanguage
		return nil
	}
	if !codes.LanguageValid(a.Language) {
		return &Violation{Field: "language", Message: "language is not valid"}
	}
	return nil
}

func validateCurrency(a *Account, codes CodeChecker) *Violation {
	if a.Currency == "" {
		a.Currency = DefaultCurrency
		return nil
	}
	if !codes.CurrencyValid(a.Currency) {
		return &Violation{Field: "currency", Message: "currency is not valid"}
	}
	return nil
}

// ValidatePassword enforces the password policy used on registration and
// password change: minimum length, no whitespace, confirmation must match.
// It is separate from the schema validators because the schema only ever
// carries the hash.
func ValidatePassword(newPassword, confirmPassword string) *Violation {
	if len(newPassword) < MinPasswordLength {
		return &Violation{
			Field:   "new_password",
			Message: fmt.Sprintf("new password must be at least %d characters long", MinPasswordLength),
		}
	}
	if containsWhitespace(newPassword) {
		return &Violation{Field: "new_password", Message: "new password must not contain spaces"}
	}
	if newPassword != confirmPassword {
		return &Violation{Field: "confirm_password", Message: "new password and confirm password does not match"}
	}
	return nil
}

func containsWhitespace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
