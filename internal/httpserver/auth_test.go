package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLoginEndpoints(t *testing.T) {
	app := newTestApp(t)

	rec := app.doJSON(http.MethodPost, "/auth/register", `{"email":"buyer@example.com","password":"secret123","first_name":"Иван"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret123", "password material never leaves the server")

	rec = app.doJSON(http.MethodPost, "/auth/register", `{"email":"buyer@example.com","password":"another"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.doJSON(http.MethodPost, "/auth/register", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.doJSON(http.MethodPost, "/auth/login", `{"email":"buyer@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var token string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "accessToken" {
			token = cookie.Value
			assert.True(t, cookie.HttpOnly)
		}
	}
	require.NotEmpty(t, token, "login must set the access token cookie")

	// The cookie authenticates order history access.
	req := app.do(http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, req.Code)

	rec = app.doAuthed(http.MethodGet, "/orders", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	app := newTestApp(t)

	rec := app.doJSON(http.MethodPost, "/auth/register", `{"email":"buyer@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.doJSON(http.MethodPost, "/auth/login", `{"email":"buyer@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.doJSON(http.MethodPost, "/auth/login", `{"email":"nobody@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
