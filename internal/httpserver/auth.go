package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oreshnik/storefront/internal/identity"
	"github.com/oreshnik/storefront/internal/logging"
	"github.com/oreshnik/storefront/internal/models"
	"github.com/oreshnik/storefront/internal/service"
)

const accessTokenTTL = 24 * time.Hour

type AuthHTTP struct {
	Svc       *service.AuthService
	JWTSecret []byte
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	AddressLine string `json:"address_line"`
	CompanyName string `json:"company_name"`
	OKPO        string `json:"okpo"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user := models.User{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		City:        req.City,
		AddressLine: req.AddressLine,
		CompanyName: req.CompanyName,
		OKPO:        req.OKPO,
	}
	if err := h.Svc.Register(ctx, &user, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "email and password required")
		case errors.Is(err, service.ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		default:
			return internalError(c, err)
		}
	}

	l.Info("user registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrNotFound) {
			l.Warn("login_failed", "email", req.Email)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return internalError(c, err)
	}

	token, err := identity.AccessToken(user.ID, h.JWTSecret, accessTokenTTL)
	if err != nil {
		return internalError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(accessTokenTTL),
	})

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}
