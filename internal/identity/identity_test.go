package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func runMiddleware(t *testing.T, req *http.Request) (Identity, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got Identity
	h := Middleware(testSecret)(func(c echo.Context) error {
		got = From(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return got, rec
}

func TestMiddleware_AccessTokenWins(t *testing.T) {
	token, err := AccessToken(42, testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "stale-session"})

	id, _ := runMiddleware(t, req)
	assert.True(t, id.Authenticated())
	assert.Equal(t, uint(42), id.UserID)
	assert.Equal(t, "user:42", id.Key())
}

func TestMiddleware_IssuesSessionCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)

	id, rec := runMiddleware(t, req)
	require.False(t, id.Authenticated())
	require.NotEmpty(t, id.SessionKey)

	var issued *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "cart_session" {
			issued = cookie
		}
	}
	require.NotNil(t, issued, "first contact must set the session cookie")
	assert.Equal(t, id.SessionKey, issued.Value)
	assert.True(t, issued.HttpOnly)
}

func TestMiddleware_ReusesSessionCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "existing-key"})

	id, rec := runMiddleware(t, req)
	assert.Equal(t, "existing-key", id.SessionKey)
	assert.Equal(t, "session:existing-key", id.Key())
	assert.Empty(t, rec.Result().Cookies(), "no new cookie when one already exists")
}

func TestMiddleware_InvalidTokenFallsBackToSession(t *testing.T) {
	wrong, err := AccessToken(42, []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: wrong})
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "sess-1"})

	id, _ := runMiddleware(t, req)
	assert.False(t, id.Authenticated())
	assert.Equal(t, "sess-1", id.SessionKey)
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	expired, err := AccessToken(42, testSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: expired})
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "sess-1"})

	id, _ := runMiddleware(t, req)
	assert.False(t, id.Authenticated())
}

func TestFrom_WithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	id := From(c)
	assert.False(t, id.Authenticated())
	assert.Empty(t, id.SessionKey)
}
