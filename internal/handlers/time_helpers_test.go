package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

func testContext(id string, actor *bookingdomain.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	if actor != nil {
		c.Set(middleware.ContextActor, *actor)
	}
	return c, w
}

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate(nil)
	require.NoError(t, err)
	assert.Nil(t, d)

	empty := ""
	d, err = parseOptionalDate(&empty)
	require.NoError(t, err)
	assert.Nil(t, d)

	s := "2025-06-03"
	d, err = parseOptionalDate(&s)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03", timezone.DateKey(*d))
	assert.Equal(t, timezone.Shop(), d.Location())

	bad := "03/06/2025"
	_, err = parseOptionalDate(&bad)
	assert.Error(t, err)
}

func TestIDParam(t *testing.T) {
	c, _ := testContext("42", nil)
	id, ok := idParam(c)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"0", "-1", "x"} {
		c, w := testContext(raw, nil)
		_, ok := idParam(c)
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		assert.Contains(t, w.Body.String(), "invalid_id")
	}
}

func TestStylistParam(t *testing.T) {
	cases := []struct {
		name  string
		actor bookingdomain.Actor
		ok    bool
	}{
		{"own schedule", bookingdomain.Actor{ID: 10, Role: models.RoleBarber}, true},
		{"admin", bookingdomain.Actor{ID: 1, Role: models.RoleAdmin}, true},
		{"other stylist", bookingdomain.Actor{ID: 11, Role: models.RoleBarber}, false},
		{"customer with same id", bookingdomain.Actor{ID: 10, Role: models.RoleCustomer}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := testContext("10", &tc.actor)
			id, ok := stylistParam(c)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, uint(10), id)
			} else {
				assert.Equal(t, http.StatusForbidden, w.Code)
			}
		})
	}
}
