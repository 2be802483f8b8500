package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/pkg/auth"
	md "github.com/svazquez/biblioteca-service/pkg/middleware"
	"github.com/svazquez/biblioteca-service/pkg/validate"
	"go.uber.org/zap"
)

type Handler struct {
	svc      LibraryService
	authSvc  AuthService
	provider OAuthProvider
	tokens   *auth.Manager
	log      *zap.Logger
}

func New(svc LibraryService, authSvc AuthService, provider OAuthProvider, tokens *auth.Manager, log *zap.Logger) *Handler {
	return &Handler{
		svc:      svc,
		authSvc:  authSvc,
		provider: provider,
		tokens:   tokens,
		log:      log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	authAPI := api.Group("/auth")
	authAPI.POST("/register", h.Register)
	authAPI.POST("/login", h.Login)
	authAPI.POST("/refresh", h.Refresh)
	authAPI.POST("/verify", h.Verify)
	authAPI.GET("/google/redirect", h.GoogleRedirect)
	authAPI.GET("/google/callback", h.GoogleCallback)

	protected := api.Group("", md.JwtAuthentication(h.tokens))

	protected.GET("/categories", h.ListCategories)
	protected.GET("/categories/:categoryUid", h.GetCategory)
	protected.POST("/categories", h.CreateCategory, md.AdminOnly)
	protected.PATCH("/categories/:categoryUid", h.UpdateCategory, md.AdminOnly)
	protected.DELETE("/categories/:categoryUid", h.DeleteCategory, md.AdminOnly)

	protected.GET("/authors", h.ListAuthors)
	protected.GET("/authors/:authorUid", h.GetAuthor)
	protected.POST("/authors", h.CreateAuthor, md.AdminOnly)
	protected.PATCH("/authors/:authorUid", h.UpdateAuthor, md.AdminOnly)
	protected.DELETE("/authors/:authorUid", h.DeleteAuthor, md.AdminOnly)

	protected.GET("/books", h.ListBooks)
	protected.GET("/books/:bookUid", h.GetBook)
	protected.POST("/books", h.CreateBook, md.AdminOnly)
	protected.PATCH("/books/:bookUid", h.UpdateBook, md.AdminOnly)
	protected.DELETE("/books/:bookUid", h.DeleteBook, md.AdminOnly)

	protected.GET("/loans", h.ListLoans)
	protected.GET("/loans/:loanUid", h.GetLoan)
	protected.POST("/loans", h.CreateLoan)
	protected.POST("/loans/:loanUid/return", h.ReturnLoan)
	protected.PATCH("/loans/:loanUid/status", h.UpdateLoanStatus)
	protected.DELETE("/loans/:loanUid", h.DeleteLoan, md.AdminOnly)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps domain errors onto response codes. All four domain
// rejections are deterministic and caller-correctable.
func httpError(err error) *echo.HTTPError {
	var (
		validationErr *errs.ValidationError
		conflictErr   *errs.ConflictError
		integrityErr  *errs.IntegrityError
	)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &validationErr):
		return echo.NewHTTPError(http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &conflictErr):
		return echo.NewHTTPError(http.StatusConflict, conflictErr.Error())
	case errors.As(err, &integrityErr):
		return echo.NewHTTPError(http.StatusConflict, integrityErr.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func parsePaging(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return 0, 0, errors.New("page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return 0, 0, errors.New("size is invalid")
		}
	}
	return page, size, nil
}
