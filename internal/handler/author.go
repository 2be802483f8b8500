package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/svazquez/biblioteca-service/internal/model"
)

func (h *Handler) CreateAuthor(c echo.Context) error {
	var req model.CreateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	author, err := h.svc.CreateAuthor(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *Handler) GetAuthor(c echo.Context) error {
	author, err := h.svc.GetAuthor(c.Request().Context(), c.Param("authorUid"))
	if err != nil {
		return httpError(err)
	}
	type response struct {
		model.Author
		FullName string `json:"fullName"`
	}
	return c.JSON(http.StatusOK, response{Author: author, FullName: author.FullName()})
}

func (h *Handler) ListAuthors(c echo.Context) error {
	page, size, err := parsePaging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	authors, err := h.svc.ListAuthors(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, authors)
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	var req model.UpdateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	author, err := h.svc.UpdateAuthor(c.Request().Context(), c.Param("authorUid"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	if err := h.svc.DeleteAuthor(c.Request().Context(), c.Param("authorUid")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
