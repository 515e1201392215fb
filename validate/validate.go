// Package validate implements the signup field policy.
//
// Each field has one check; Signup runs all of them and returns every
// failure at once so a form can display all errors simultaneously.
package validate

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind classifies a field validation failure.
type Kind string

const (
	Required        Kind = "required"
	InvalidLength   Kind = "invalid_length"
	InvalidFormat   Kind = "invalid_format"
	PolicyViolation Kind = "policy_violation"
)

// FieldError reports one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is the full set of failures from a compound validation.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

const (
	nameMinLen    = 20
	nameMaxLen    = 60
	addressMaxLen = 400
	passwordMin   = 8
	passwordMax   = 16

	specialChars = `!@#$%^&*(),.?":{}|<>`
)

// Name requires a length between 20 and 60 characters.
func Name(s string) error {
	if len(s) < nameMinLen || len(s) > nameMaxLen {
		return FieldError{
			Field:   "name",
			Kind:    InvalidLength,
			Message: fmt.Sprintf("name must be between %d and %d characters", nameMinLen, nameMaxLen),
		}
	}
	return nil
}

// Email requires a local@domain.tld shape: a non-empty local part, a single
// '@', a domain with a dot that has characters on both sides, and no
// whitespace anywhere.
func Email(s string) error {
	invalid := FieldError{
		Field:   "email",
		Kind:    InvalidFormat,
		Message: "email address is not valid",
	}

	if strings.ContainsFunc(s, unicode.IsSpace) {
		return invalid
	}
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		return invalid
	}
	domain := s[at+1:]
	if strings.ContainsRune(domain, '@') {
		return invalid
	}
	// The tld check anchors on the last dot so a trailing dot fails.
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return invalid
	}
	return nil
}

// Address must be present and no longer than 400 characters.
func Address(s string) error {
	if strings.TrimSpace(s) == "" {
		return FieldError{
			Field:   "address",
			Kind:    Required,
			Message: "address is required",
		}
	}
	if len(s) > addressMaxLen {
		return FieldError{
			Field:   "address",
			Kind:    InvalidLength,
			Message: fmt.Sprintf("address must not exceed %d characters", addressMaxLen),
		}
	}
	return nil
}

// Password requires 8-16 characters with at least one uppercase ASCII
// letter and one special character.
func Password(s string) error {
	ok := len(s) >= passwordMin && len(s) <= passwordMax
	if ok {
		hasUpper := false
		hasSpecial := false
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c >= 'A' && c <= 'Z' {
				hasUpper = true
			}
			if strings.IndexByte(specialChars, c) >= 0 {
				hasSpecial = true
			}
		}
		ok = hasUpper && hasSpecial
	}
	if !ok {
		return FieldError{
			Field:   "password",
			Kind:    PolicyViolation,
			Message: fmt.Sprintf("password must be %d-%d characters with at least one uppercase letter and one special character", passwordMin, passwordMax),
		}
	}
	return nil
}

// Signup validates all four signup fields and returns the complete set of
// failures, or nil when every field passes. It never short-circuits.
func Signup(name, email, address, password string) error {
	var errs Errors
	for _, err := range []error{Name(name), Email(email), Address(address), Password(password)} {
		if err != nil {
			errs = append(errs, err.(FieldError))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
