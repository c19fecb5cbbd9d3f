package httpserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/db"
	"github.com/oreshnik/storefront/internal/hypertext"
	"github.com/oreshnik/storefront/internal/models"
	"github.com/oreshnik/storefront/internal/repo"
	"github.com/oreshnik/storefront/internal/service"
)

var testJWTSecret = []byte("test-secret")

type testApp struct {
	echo *echo.Echo
	repo *repo.GormRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(gdb))

	r := &repo.GormRepo{DB: gdb}

	renderer, err := hypertext.NewRenderer()
	require.NoError(t, err)

	cartSvc := &service.CartService{Repo: r}
	checkoutSvc := &service.CheckoutService{Repo: r}
	authSvc := &service.AuthService{Repo: r}

	e := echo.New()
	Register(e, Deps{
		Cart: &CartHTTP{Svc: cartSvc, Renderer: renderer},
		Checkout: &CheckoutHTTP{
			Svc:        checkoutSvc,
			Cart:       cartSvc,
			Users:      authSvc,
			Renderer:   renderer,
			SuccessURL: "/thank-you",
		},
		Payment: &PaymentHTTP{
			Svc:        &service.PaymentService{Repo: r},
			Renderer:   renderer,
			SuccessURL: "/thank-you",
		},
		Catalog:   &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Auth:      &AuthHTTP{Svc: authSvc, JWTSecret: testJWTSecret},
		JWTSecret: testJWTSecret,
	})

	return &testApp{echo: e, repo: r}
}

var productSeq int

func (a *testApp) seedProduct(t *testing.T, title string, price int64, live bool) models.Product {
	t.Helper()

	productSeq++
	p := models.Product{
		Slug:  fmt.Sprintf("product-%d", productSeq),
		SKU:   fmt.Sprintf("SKU-%d", productSeq),
		Title: title,
		Price: price,
		Live:  live,
	}
	require.NoError(t, a.repo.DB.Create(&p).Error)
	return p
}

// do runs a request pinned to one anonymous session so a test can issue
// several calls against the same cart.
func (a *testApp) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "test-session"})

	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) doAuthed(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})

	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) doJSON(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "test-session"})

	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}
