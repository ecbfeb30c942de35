package httpgin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/musclemeter/musclemeter/internal/payment"
	"github.com/musclemeter/musclemeter/internal/service/account"
	"github.com/musclemeter/musclemeter/internal/service/booking"
	"github.com/musclemeter/musclemeter/internal/service/catalog"
	"github.com/musclemeter/musclemeter/internal/service/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, url string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var err error
	c.Request, err = http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	return c, w
}

func TestParseOrigin(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantNil bool
		lat     float64
		lon     float64
	}{
		{name: "both present", query: "lat=17.43&lon=78.40", lat: 17.43, lon: 78.40},
		{name: "missing lon", query: "lat=17.43", wantNil: true},
		{name: "missing lat", query: "lon=78.40", wantNil: true},
		{name: "empty", query: "", wantNil: true},
		{name: "garbage lat", query: "lat=abc&lon=78.40", wantNil: true},
		{name: "garbage lon", query: "lat=17.43&lon=abc", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t, "/gyms?"+tt.query)

			origin := parseOrigin(c)
			if tt.wantNil {
				assert.Nil(t, origin)
				return
			}

			require.NotNil(t, origin)
			assert.Equal(t, tt.lat, origin.Lat)
			assert.Equal(t, tt.lon, origin.Lon)
		})
	}
}

func TestRespondErrStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{booking.ErrGymNotFound, http.StatusNotFound},
		{booking.ErrGymInactive, http.StatusConflict},
		{booking.ErrPlanNotFound, http.StatusNotFound},
		{booking.ErrNotACustomer, http.StatusForbidden},
		{booking.ErrBookingNotFound, http.StatusNotFound},
		{discovery.ErrGymNotFound, http.StatusNotFound},
		{catalog.ErrNotAnOwner, http.StatusForbidden},
		{catalog.ErrNotGymOwner, http.StatusForbidden},
		{catalog.ErrGymNotFound, http.StatusNotFound},
		{catalog.ErrInvalidLocation, http.StatusBadRequest},
		{catalog.ErrInvalidPlan, http.StatusBadRequest},
		{account.ErrPrincipalNotFound, http.StatusNotFound},
		{account.ErrNotACustomer, http.StatusForbidden},
		{account.ErrInvalidLocation, http.StatusBadRequest},
		{payment.ErrInvalidCard, http.StatusBadRequest},
		{booking.ErrAccessCodeExhausted, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			c, w := testContext(t, "/")

			// Errors arrive wrapped with an operation prefix.
			respondErr(c, fmt.Errorf("service.op: %w", tt.err))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondErrCardFieldDetail(t *testing.T) {
	c, w := testContext(t, "/")

	_, err := payment.Validate(payment.Card{
		Number: "12",
		Expiry: "1230",
		CVV:    "99",
		Holder: "A",
	})
	require.Error(t, err)

	respondErr(c, fmt.Errorf("service.booking.Create: %w", err))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "card_number")
	assert.Contains(t, resp.Fields, "card_expiry")
	assert.Contains(t, resp.Fields, "card_cvv")
}

func TestRespondErrUnknownIsInternal(t *testing.T) {
	c, w := testContext(t, "/")

	respondErr(c, fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Internal detail never leaks to the client.
	assert.Equal(t, "internal error", resp.Error)
}
