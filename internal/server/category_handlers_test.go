package server

import (
	"fmt"
	"net/http"
	"testing"

	"meetup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandlers(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.member(t)

	resp := env.do(t, http.MethodPost, "/api/posts/categories", token, map[string]string{"title": "Study"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	study := decode[models.Category](t, resp)
	assert.Equal(t, "Study", study.Title)

	resp = env.do(t, http.MethodPost, "/api/posts/categories", token, map[string]string{"title": "Study"})
	body := assertError(t, resp, http.StatusBadRequest, models.CodeConflict)
	assert.Equal(t, "Category with this title already exists", body.Detail)

	resp = env.do(t, http.MethodPost, "/api/posts/categories", token, map[string]string{})
	assertError(t, resp, http.StatusBadRequest, models.CodeValidation)

	resp = env.do(t, http.MethodPut, fmt.Sprintf("/api/posts/categories/%d", study.ID), token,
		map[string]string{"title": "Study group"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Study group", decode[models.Category](t, resp).Title)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/posts/categories/%d", study.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/posts/categories/%d", study.ID), token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/posts/categories/%d", study.ID), "", nil)
	assertError(t, resp, http.StatusNotFound, models.CodeNotFound)
	resp = env.do(t, http.MethodPut, fmt.Sprintf("/api/posts/categories/%d", study.ID), token,
		map[string]string{"title": "Again"})
	assertError(t, resp, http.StatusNotFound, models.CodeNotFound)

	resp = env.do(t, http.MethodGet, "/api/posts/categories", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]models.Category](t, resp))

	resp = env.do(t, http.MethodGet, "/api/posts/categories/abc", "", nil)
	body = assertError(t, resp, http.StatusBadRequest, models.CodeValidation)
	assert.Equal(t, "Invalid ID", body.Detail)
}
