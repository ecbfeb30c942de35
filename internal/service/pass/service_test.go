package pass

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:         uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		AccessCode: "MM-1A2B3C4D",
		StartDate:  time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, time.April, 13, 0, 0, 0, 0, time.UTC),
	}
}

func TestRender_ProducesPNG(t *testing.T) {
	r := NewRenderer()

	img, err := r.Render(sampleBooking(), "Iron Temple")
	require.NoError(t, err)
	require.NotEmpty(t, img)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestRender_DeterministicForSamePayload(t *testing.T) {
	r := NewRenderer()

	a, err := r.Render(sampleBooking(), "Iron Temple")
	require.NoError(t, err)
	b, err := r.Render(sampleBooking(), "Iron Temple")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRender_PayloadDependsOnCredential(t *testing.T) {
	r := NewRenderer()

	first, err := r.Render(sampleBooking(), "Iron Temple")
	require.NoError(t, err)

	other := sampleBooking()
	other.AccessCode = "MM-FFFFFFFF"
	second, err := r.Render(other, "Iron Temple")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
