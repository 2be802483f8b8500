package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/model"
	"go.uber.org/zap"
)

const oauthStateCookie = "oauth_state"

func (h *Handler) Register(c echo.Context) error {
	var req model.UserCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authSvc.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c echo.Context) error {
	var req model.AuthRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tokens, err := h.authSvc.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tokens)
}

func (h *Handler) Refresh(c echo.Context) error {
	var req model.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tokens, err := h.authSvc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return c.JSON(http.StatusOK, tokens)
}

func (h *Handler) Verify(c echo.Context) error {
	var req model.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims, err := h.authSvc.Verify(req.Token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"username": claims.Profile.Username,
		"role":     claims.Profile.Role,
	})
}

// GoogleRedirect starts the authorization-code flow. The random state
// is pinned in a short-lived cookie and checked on callback.
func (h *Handler) GoogleRedirect(c echo.Context) error {
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

func (h *Handler) GoogleCallback(c echo.Context) error {
	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return echo.NewHTTPError(http.StatusBadRequest, "state mismatch")
	}
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	ctx := c.Request().Context()
	token, err := h.provider.Exchange(ctx, code)
	if err != nil {
		h.log.Warn("oauth exchange", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "code exchange failed")
	}
	info, err := h.provider.UserInfo(ctx, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "userinfo failed")
	}

	tokens, err := h.authSvc.LoginWithProvider(ctx, info.Email, info.Email)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tokens)
}
