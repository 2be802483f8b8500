package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/svazquez/biblioteca-service/internal/model"
	"github.com/svazquez/biblioteca-service/pkg/auth"
)

func (h *Handler) CreateLoan(c echo.Context) error {
	var req model.CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" {
		req.Username = auth.UsernameFromContext(c.Request().Context())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loan, err := h.svc.CreateLoan(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) GetLoan(c echo.Context) error {
	loan, err := h.svc.GetLoan(c.Request().Context(), c.Param("loanUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) ListLoans(c echo.Context) error {
	page, size, err := parsePaging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	filter := model.LoanFilter{
		Username: c.QueryParam("username"),
		Status:   model.LoanStatus(c.QueryParam("status")),
	}
	if overdueParam := c.QueryParam("overdue"); overdueParam != "" {
		if filter.Overdue, err = strconv.ParseBool(overdueParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "overdue is invalid")
		}
	}
	// non-admin callers only see their own loans
	ctx := c.Request().Context()
	if auth.RoleFromContext(ctx) != model.RoleAdmin {
		filter.Username = auth.UsernameFromContext(ctx)
	}

	loans, err := h.svc.ListLoans(ctx, filter, page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	loan, err := h.svc.ReturnLoan(c.Request().Context(), c.Param("loanUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) UpdateLoanStatus(c echo.Context) error {
	var req model.UpdateLoanStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loan, err := h.svc.UpdateLoanStatus(c.Request().Context(), c.Param("loanUid"), req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) DeleteLoan(c echo.Context) error {
	if err := h.svc.DeleteLoan(c.Request().Context(), c.Param("loanUid")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
