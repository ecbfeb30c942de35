package payment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() Card {
	return Card{
		Number: "1234 5678 9012 3456",
		Expiry: "12/27",
		CVV:    "123",
		Holder: "A CUSTOMER",
	}
}

func TestValidate_NormalizesNumber(t *testing.T) {
	got, err := Validate(validCard())
	require.NoError(t, err)
	assert.Equal(t, "1234567890123456", got.Number)
}

func TestValidate_NumberLength(t *testing.T) {
	c := validCard()
	c.Number = "123"

	_, err := Validate(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCard)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["card_number"], "length")
}

func TestValidate_NumberDigitsOnly(t *testing.T) {
	c := validCard()
	c.Number = "1234 5678 9012 345X"

	_, err := Validate(c)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["card_number"], "digits")
}

func TestValidate_Expiry(t *testing.T) {
	cases := []struct {
		expiry string
		ok     bool
	}{
		{"12/27", true},
		{"1/2", true},
		// Shape-only check: non-numeric parts pass on purpose.
		{"ab/cd", true},
		{"1227", false},
		{"12/27/01", false},
		{"", false},
	}

	for _, tc := range cases {
		c := validCard()
		c.Expiry = tc.expiry

		_, err := Validate(c)
		if tc.ok {
			assert.NoError(t, err, "expiry %q", tc.expiry)
		} else {
			assert.Error(t, err, "expiry %q", tc.expiry)
		}
	}
}

func TestValidate_CVV(t *testing.T) {
	for _, bad := range []string{"", "12", "1234", "12a"} {
		c := validCard()
		c.CVV = bad
		_, err := Validate(c)
		assert.Error(t, err, "cvv %q", bad)
	}
}

func TestValidate_CollectsAllFieldErrors(t *testing.T) {
	_, err := Validate(Card{Number: "42", Expiry: "1227", CVV: "7"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, verr.Error(), "card_number")
	assert.Contains(t, verr.Error(), "card_expiry")
	assert.Contains(t, verr.Error(), "card_cvv")
}
