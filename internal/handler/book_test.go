package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/handler"
	"github.com/svazquez/biblioteca-service/internal/model"
	"github.com/svazquez/biblioteca-service/pkg/auth"
	"github.com/svazquez/biblioteca-service/pkg/validate"
	"go.uber.org/zap"

	service_mocks "github.com/svazquez/biblioteca-service/internal/handler/mocks"
)

func newTestHandler(t *testing.T) (*handler.Handler, *service_mocks.MockLibraryService, *echo.Echo) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	svc := service_mocks.NewMockLibraryService(c)
	authSvc := service_mocks.NewMockAuthService(c)
	provider := service_mocks.NewMockOAuthProvider(c)
	log := zap.NewExample().Named("test")
	h := handler.New(svc, authSvc, provider, auth.NewManager(auth.Config{Key: "test-key"}), log)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	return h, svc, e
}

func TestHandler_ListBooks(t *testing.T) {
	t.Parallel()
	type input struct {
		query  string
		filter model.BookFilter
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService, inp input)

	books := model.ListBooks{
		Paging: model.Paging{TotalElements: 1},
		Items: []model.Book{
			{
				BookUid:    "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
				Title:      "Cien anos de soledad",
				ISBN:       "9780307474728",
				AuthorUid:  "83575e12-7ce0-48ee-9931-51919ff3c9ee",
				AuthorName: "Gabriel Garcia Marquez",
				Language:   "Spanish",
				Stock:      1,
				Status:     model.BookStatusAvailable,
				Price:      15.50,
				Active:     true,
			},
		},
	}
	booksJSON, err := json.Marshal(books)
	require.NoError(t, err)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService, inp input) {
				r.EXPECT().
					ListBooks(gomock.Any(), inp.filter, 0, 0).
					Return(books, nil)
			},
			input: input{query: ""},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: string(booksJSON),
			},
		},
		{
			name: "ok. available filter",
			mockBehavior: func(r *service_mocks.MockLibraryService, inp input) {
				r.EXPECT().
					ListBooks(gomock.Any(), inp.filter, 0, 0).
					Return(model.ListBooks{Items: []model.Book{}}, nil)
			},
			input: input{
				query:  "?available=true&categoryUid=6f9619ff-8b86-4d01-b42d-00cf4fc964ff",
				filter: model.BookFilter{Available: true, CategoryUid: "6f9619ff-8b86-4d01-b42d-00cf4fc964ff"},
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":0,"pageSize":0,"totalElements":0,"items":[]}`,
			},
		},
		{
			name:         "err. bad available param",
			mockBehavior: func(r *service_mocks.MockLibraryService, inp input) {},
			input:        input{query: "?available=maybe"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"available is invalid"}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockLibraryService, inp input) {
				r.EXPECT().
					ListBooks(gomock.Any(), inp.filter, 0, 0).
					Return(model.ListBooks{}, errors.New("db internal"))
			},
			input: input{query: ""},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc, e := newTestHandler(t)
			e.GET("/books", h.ListBooks)

			tt.mockBehavior(svc, tt.input)

			r := httptest.NewRequest(http.MethodGet, "/books"+tt.input.query, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.JSONEq(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_CreateBook(t *testing.T) {
	t.Parallel()

	validBody := func(price float64, rating string) string {
		return fmt.Sprintf(`{
			"title": "Cien anos de soledad",
			"isbn": "9780307474728",
			"authorUid": "83575e12-7ce0-48ee-9931-51919ff3c9ee",
			"price": %v,
			"rating": %s
		}`, price, rating)
	}

	var tests = []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
	}{
		{
			name: "ok",
			body: validBody(10.00, "0.00"),
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateBook(gomock.Any(), gomock.Any()).
					Return(model.Book{BookUid: "f7cdc58f-2caf-4b15-9727-f89dcc629b27"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "ok. minimal price",
			body: validBody(0.01, "5.00"),
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateBook(gomock.Any(), gomock.Any()).
					Return(model.Book{}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "err. zero price",
			body:         validBody(0.00, "0.00"),
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "err. rating above range",
			body:         validBody(10.00, "5.01"),
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "err. short isbn",
			body:         `{"title":"x","isbn":"123","authorUid":"83575e12-7ce0-48ee-9931-51919ff3c9ee","price":1}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "err. duplicate isbn",
			body: validBody(10.00, "0.00"),
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateBook(gomock.Any(), gomock.Any()).
					Return(model.Book{}, errs.NewConflictError("book", "isbn"))
			},
			expectedCode: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc, e := newTestHandler(t)
			e.POST("/books", h.CreateBook)

			tt.mockBehavior(svc)

			r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestHandler_UpdateBook_ISBNImmutable(t *testing.T) {
	t.Parallel()
	h, _, e := newTestHandler(t)
	e.PATCH("/books/:bookUid", h.UpdateBook)

	r := httptest.NewRequest(http.MethodPatch, "/books/f7cdc58f-2caf-4b15-9727-f89dcc629b27",
		strings.NewReader(`{"isbn":"9999999999999"}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"message":"isbn is immutable"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_DeleteBook(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					DeleteBook(gomock.Any(), "f7cdc58f-2caf-4b15-9727-f89dcc629b27").
					Return(nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "err. referenced by loans",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					DeleteBook(gomock.Any(), "f7cdc58f-2caf-4b15-9727-f89dcc629b27").
					Return(errs.NewIntegrityError("book", "loans"))
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "err. not found",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					DeleteBook(gomock.Any(), "f7cdc58f-2caf-4b15-9727-f89dcc629b27").
					Return(errs.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc, e := newTestHandler(t)
			e.DELETE("/books/:bookUid", h.DeleteBook)

			tt.mockBehavior(svc)

			r := httptest.NewRequest(http.MethodDelete, "/books/f7cdc58f-2caf-4b15-9727-f89dcc629b27", http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
