package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	d := NewDate(2024, time.March, 9)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-09"`, string(b))

	var parsed Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-12-31"`), &parsed))
	assert.Equal(t, "2024-12-31", parsed.String())

	assert.Error(t, json.Unmarshal([]byte(`"31/12/2024"`), &parsed))
	assert.Error(t, json.Unmarshal([]byte(`20241231`), &parsed))

	zero, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(zero))
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"time", time.Date(2024, 5, 1, 15, 4, 5, 0, time.FixedZone("x", 3600)), "2024-05-01"},
		{"string", "2024-05-02", "2024-05-02"},
		{"bytes with time", []byte("2024-05-03 00:00:00+00:00"), "2024-05-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.input))
			assert.Equal(t, tt.want, d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := NewDate(2024, 1, 2).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", v)
}

func TestTimeOfDay_Valid(t *testing.T) {
	assert.True(t, Morning.Valid())
	assert.True(t, Evening.Valid())
	assert.False(t, TimeOfDay(3).Valid())
	assert.False(t, TimeOfDay(-1).Valid())
}

func TestOwnedBy(t *testing.T) {
	author := uint(7)
	assert.True(t, (&Post{}).OwnedBy(1), "authorless post is open")
	assert.True(t, (&Post{AuthorID: &author}).OwnedBy(7))
	assert.False(t, (&Post{AuthorID: &author}).OwnedBy(8))
	assert.False(t, (&Comment{AuthorID: &author}).OwnedBy(8))
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, 1, 3, 10)
	assert.Equal(t, 4, p.TotalPages)

	empty := NewPage[int](nil, 1, 20, 0)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewConflictError("dup", nil), http.StatusBadRequest},
		{NewNotFoundError("Post", 1), http.StatusNotFound},
		{NewForbiddenError("no"), http.StatusForbidden},
		{NewUnauthorizedError("who"), http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", NewNotFoundError("Tag", 2)), http.StatusNotFound},
		{fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondWithError_HidesInternalCause(t *testing.T) {
	app := fiber.New()
	app.Get("/app", func(c *fiber.Ctx) error {
		return RespondError(c, NewInternalError(errors.New("pq: password authentication failed")))
	})
	app.Get("/raw", func(c *fiber.Ctx) error {
		return RespondWithError(c, http.StatusInternalServerError, errors.New("secret detail"))
	})

	for _, path := range []string{"/app", "/raw"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Internal server error", body.Detail)
		assert.Equal(t, CodeInternal, body.Code)
	}
}
