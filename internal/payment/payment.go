// Package payment validates the simulated card fields collected at checkout.
// No charge is ever made; the gateway is a stub and always succeeds.
package payment

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidCard is the sentinel all field-level failures wrap.
var ErrInvalidCard = errors.New("invalid card details")

type Card struct {
	Number string
	Expiry string
	CVV    string
	Holder string
}

// ValidationError reports every failed field at once rather than
// short-circuiting on the first, so the caller can surface all of them in a
// single round trip.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}

	return "invalid card details: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidCard
}

// Validate checks each card field and returns the card with the number
// normalized (spaces stripped). On failure the returned error is a
// *ValidationError wrapping ErrInvalidCard and listing every bad field.
func Validate(c Card) (Card, error) {
	fields := make(map[string]string)

	number, err := validateNumber(c.Number)
	if err != nil {
		fields["card_number"] = err.Error()
	}

	if err := validateExpiry(c.Expiry); err != nil {
		fields["card_expiry"] = err.Error()
	}

	if err := validateCVV(c.CVV); err != nil {
		fields["card_cvv"] = err.Error()
	}

	if len(fields) > 0 {
		return Card{}, &ValidationError{Fields: fields}
	}

	c.Number = number
	return c, nil
}

func validateNumber(s string) (string, error) {
	number := strings.ReplaceAll(s, " ", "")

	if len(number) < 13 || len(number) > 19 {
		return "", errors.New("invalid card number length")
	}

	if !isDigits(number) {
		return "", errors.New("card number must contain only digits")
	}

	return number, nil
}

// validateExpiry only checks the MM/YY shape: one separator, two parts. It
// deliberately does not check that the parts are numeric or that the date is
// in the future.
func validateExpiry(s string) error {
	if !strings.Contains(s, "/") {
		return errors.New("use MM/YY format")
	}

	if len(strings.Split(s, "/")) != 2 {
		return errors.New("use MM/YY format")
	}

	return nil
}

func validateCVV(s string) error {
	if len(s) != 3 || !isDigits(s) {
		return errors.New("CVV must be 3 digits")
	}

	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
