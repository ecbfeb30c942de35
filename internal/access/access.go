// Package access generates the two credentials a booking carries: an opaque
// 128-bit booking ID and a short human-shareable access code scanned at the
// gym door.
package access

import (
	"strings"

	"github.com/google/uuid"
)

// codePrefix brands access codes so that staff can tell them apart from
// arbitrary strings on a screenshot.
const codePrefix = "MM-"

// codeLen is the number of random characters after the prefix.
const codeLen = 8

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// NewBookingID returns a fresh random UUID suitable as a public-facing
// booking reference.
func (g *Generator) NewBookingID() uuid.UUID {
	return uuid.New()
}

// NewAccessCode returns a code of the form "MM-XXXXXXXX" where X is an
// uppercase hex character drawn from a cryptographically random UUID.
//
// Eight hex characters are ~32 bits of entropy, so collisions across the
// whole bookings table are rare but possible; the store's unique index is
// the authority and the booking engine retries with a fresh code on a
// uniqueness violation.
func (g *Generator) NewAccessCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return codePrefix + strings.ToUpper(raw[:codeLen])
}
