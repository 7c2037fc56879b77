package server

import (
	"net/http"
	"testing"

	"meetup/internal/models"
	"meetup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndVerify(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]string{
		"email":     "grace@example.com",
		"firstName": "Grace",
		"lastName":  "Hopper",
		"password":  "Compiler-Pioneer1",
	}

	resp := env.do(t, http.MethodPost, "/api/users", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[map[string]any](t, resp)
	assert.Equal(t, "grace@example.com", user["email"])
	assert.Equal(t, false, user["verified"])
	assert.NotContains(t, user, "password")

	resp = env.do(t, http.MethodPost, "/api/users", "", body)
	assertError(t, resp, http.StatusBadRequest, models.CodeConflict)

	weak := map[string]string{"email": "weak@example.com", "firstName": "W", "lastName": "K", "password": "password"}
	resp = env.do(t, http.MethodPost, "/api/users", "", weak)
	assertError(t, resp, http.StatusBadRequest, models.CodeValidation)

	var stored models.User
	require.NoError(t, env.db.Where("email = ?", "grace@example.com").First(&stored).Error)
	require.NotNil(t, stored.VerificationKey)

	resp = env.do(t, http.MethodPost, "/api/users/verify", "", map[string]string{"key": "not-a-key"})
	assertError(t, resp, http.StatusNotFound, models.CodeNotFound)

	resp = env.do(t, http.MethodPost, "/api/users/verify", "", map[string]string{"key": *stored.VerificationKey})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode[map[string]any](t, resp)["verified"])

	token := testutil.MintToken(t, testutil.TestJWT, stored.ID)
	resp = env.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[map[string]any](t, resp)
	assert.Equal(t, "Grace", me["firstName"])
	assert.Equal(t, true, me["verified"])
}
