package storage

import (
	"regexp"
	"strings"

	"simplecrm/internal/apperr"
	"simplecrm/internal/models"
)

// Allowed character classes. Names accept Latin and Cyrillic letters plus
// space, hyphen and apostrophe; phones accept digits and common punctuation.
var (
	nameAllowed  = regexp.MustCompile(`^[A-Za-zА-Яа-яЁё' -]+$`)
	phoneAllowed = regexp.MustCompile(`^[0-9+()\- ]+$`)
)

// validateAndNormalize checks name, email and phone in that order, failing
// on the first rule violated, and returns a copy of fields ready for
// storage: name and email trimmed, phone in canonical form.
func validateAndNormalize(fields models.ContactFields) (models.ContactFields, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	rawEmail := fields.Email
	fields.Email = strings.TrimSpace(fields.Email)

	if fields.Name == "" || !nameAllowed.MatchString(fields.Name) {
		return fields, &apperr.ValidationError{
			Field:  "name",
			Reason: "must contain only letters, spaces, hyphens or apostrophes",
		}
	}
	// A whitespace-only email is present-but-broken, not absent.
	if rawEmail != "" {
		if !strings.Contains(fields.Email, "@") ||
			strings.HasPrefix(fields.Email, "@") ||
			strings.HasSuffix(fields.Email, "@") {
			return fields, &apperr.ValidationError{
				Field:  "email",
				Reason: "must contain '@' somewhere in the middle",
			}
		}
	}
	if fields.Phone != "" && !phoneAllowed.MatchString(fields.Phone) {
		return fields, &apperr.ValidationError{
			Field:  "phone",
			Reason: "may contain only digits, spaces, '+', parentheses and '-'",
		}
	}

	fields.Phone = NormalizePhone(fields.Phone)
	return fields, nil
}

// NormalizePhone reduces raw phone input to its canonical stored form:
// digits plus an optional leading '+'. Display-time formatting is then a
// pure function of the stored value.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if strings.HasPrefix(raw, "+") {
		return "+" + digits.String()
	}
	return digits.String()
}
