package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/model"

	service_mocks "github.com/svazquez/biblioteca-service/internal/handler/mocks"
)

const loanUid = "1b4b60d1-74e5-4cb7-a01c-0b67c9be54f4"

func TestHandler_CreateLoan(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
	}{
		{
			name: "ok",
			body: `{"bookUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","username":"lector","expectedReturnDate":"2026-09-15"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateLoan(gomock.Any(), gomock.Any()).
					Return(model.Loan{LoanUid: loanUid, Status: model.LoanStatusActive}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			// no temporal validation at creation: a past date is accepted
			name: "ok. expected date already past",
			body: `{"bookUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","username":"lector","expectedReturnDate":"2020-01-01"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateLoan(gomock.Any(), gomock.Any()).
					Return(model.Loan{LoanUid: loanUid, Status: model.LoanStatusActive}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "err. missing book",
			body:         `{"username":"lector","expectedReturnDate":"2026-09-15"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "err. book not found",
			body: `{"bookUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","username":"lector","expectedReturnDate":"2026-09-15"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateLoan(gomock.Any(), gomock.Any()).
					Return(model.Loan{}, errs.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc, e := newTestHandler(t)
			e.POST("/loans", h.CreateLoan)

			tt.mockBehavior(svc)

			r := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestHandler_ReturnLoan(t *testing.T) {
	t.Parallel()
	returnedAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ReturnLoan(gomock.Any(), loanUid).
					Return(model.Loan{
						LoanUid:          loanUid,
						Status:           model.LoanStatusReturned,
						ActualReturnDate: &returnedAt,
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "err. already returned",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ReturnLoan(gomock.Any(), loanUid).
					Return(model.Loan{}, errs.NewValidationError("status", "only active loans can be returned"))
			},
			expectedCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc, e := newTestHandler(t)
			e.POST("/loans/:loanUid/return", h.ReturnLoan)

			tt.mockBehavior(svc)

			r := httptest.NewRequest(http.MethodPost, "/loans/"+loanUid+"/return", http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestHandler_UpdateLoanStatus(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
	}{
		{
			name: "ok. explicit overdue",
			body: `{"status":"overdue"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					UpdateLoanStatus(gomock.Any(), loanUid, model.LoanStatusOverdue).
					Return(model.Loan{LoanUid: loanUid, Status: model.LoanStatusOverdue}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "err. unknown status",
			body:         `{"status":"misplaced"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "err. terminal state",
			body: `{"status":"lost"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					UpdateLoanStatus(gomock.Any(), loanUid, model.LoanStatusLost).
					Return(model.Loan{}, errs.NewValidationError("status", "transition from returned to lost is not allowed"))
			},
			expectedCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc, e := newTestHandler(t)
			e.PATCH("/loans/:loanUid/status", h.UpdateLoanStatus)

			tt.mockBehavior(svc)

			r := httptest.NewRequest(http.MethodPatch, "/loans/"+loanUid+"/status", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestHandler_ListLoans_Overdue(t *testing.T) {
	t.Parallel()
	h, svc, e := newTestHandler(t)
	e.GET("/loans", h.ListLoans)

	svc.EXPECT().
		ListLoans(gomock.Any(), model.LoanFilter{Overdue: true}, 0, 0).
		Return(model.ListLoans{Items: []model.Loan{}}, nil)

	r := httptest.NewRequest(http.MethodGet, "/loans?overdue=true", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}
