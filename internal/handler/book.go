package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/svazquez/biblioteca-service/internal/model"
)

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.svc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.svc.GetBook(c.Request().Context(), c.Param("bookUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	page, size, err := parsePaging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	filter := model.BookFilter{
		AuthorUid:   c.QueryParam("authorUid"),
		CategoryUid: c.QueryParam("categoryUid"),
	}
	if availableParam := c.QueryParam("available"); availableParam != "" {
		if filter.Available, err = strconv.ParseBool(availableParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "available is invalid")
		}
	}
	if activeParam := c.QueryParam("active"); activeParam != "" {
		v, err := strconv.ParseBool(activeParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active is invalid")
		}
		filter.Active = &v
	}

	books, err := h.svc.ListBooks(c.Request().Context(), filter, page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// isbn is immutable once assigned; reject the patch instead of
	// silently dropping the field
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if _, ok := raw["isbn"]; ok {
		return echo.NewHTTPError(http.StatusBadRequest, "isbn is immutable")
	}

	var req model.UpdateBookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.svc.UpdateBook(c.Request().Context(), c.Param("bookUid"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	if err := h.svc.DeleteBook(c.Request().Context(), c.Param("bookUid")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
