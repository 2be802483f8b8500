package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/svazquez/biblioteca-service/internal/model"
)

func (h *Handler) CreateCategory(c echo.Context) error {
	var req model.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cat, err := h.svc.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *Handler) GetCategory(c echo.Context) error {
	cat, err := h.svc.GetCategory(c.Request().Context(), c.Param("categoryUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *Handler) ListCategories(c echo.Context) error {
	page, size, err := parsePaging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var active *bool
	if activeParam := c.QueryParam("active"); activeParam != "" {
		v, err := strconv.ParseBool(activeParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active is invalid")
		}
		active = &v
	}

	cats, err := h.svc.ListCategories(c.Request().Context(), active, page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *Handler) UpdateCategory(c echo.Context) error {
	var req model.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cat, err := h.svc.UpdateCategory(c.Request().Context(), c.Param("categoryUid"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *Handler) DeleteCategory(c echo.Context) error {
	if err := h.svc.DeleteCategory(c.Request().Context(), c.Param("categoryUid")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
