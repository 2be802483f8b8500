package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/model"
	"github.com/svazquez/biblioteca-service/internal/repository"
)

// stubRepo overrides only the methods a given test touches.
type stubRepo struct {
	repository.Repository
	getLoan          func(ctx context.Context, loanUid string) (model.Loan, error)
	updateLoanStatus func(ctx context.Context, loanUid string, from, to model.LoanStatus, returnedAt *time.Time) (model.Loan, error)
	getUser          func(ctx context.Context, username string) (model.User, error)
	createUser       func(ctx context.Context, username, email, passwordHash, role string) (model.User, error)
}

func (s *stubRepo) GetLoan(ctx context.Context, loanUid string) (model.Loan, error) {
	return s.getLoan(ctx, loanUid)
}

func (s *stubRepo) UpdateLoanStatus(ctx context.Context, loanUid string, from, to model.LoanStatus, returnedAt *time.Time) (model.Loan, error) {
	return s.updateLoanStatus(ctx, loanUid, from, to, returnedAt)
}

func (s *stubRepo) GetUser(ctx context.Context, username string) (model.User, error) {
	return s.getUser(ctx, username)
}

func (s *stubRepo) CreateUser(ctx context.Context, username, email, passwordHash, role string) (model.User, error) {
	return s.createUser(ctx, username, email, passwordHash, role)
}

func newTestService(repo repository.Repository, now time.Time) *Service {
	s := NewService(repo, nil, zap.NewNop())
	s.nowFunc = func() time.Time { return now }
	return s
}

func TestService_ReturnLoan(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

	t.Run("active loan returned", func(t *testing.T) {
		t.Parallel()
		repo := &stubRepo{
			getLoan: func(ctx context.Context, loanUid string) (model.Loan, error) {
				return model.Loan{LoanUid: loanUid, Status: model.LoanStatusActive}, nil
			},
			updateLoanStatus: func(ctx context.Context, loanUid string, from, to model.LoanStatus, returnedAt *time.Time) (model.Loan, error) {
				require.Equal(t, model.LoanStatusActive, from)
				require.Equal(t, model.LoanStatusReturned, to)
				require.NotNil(t, returnedAt)
				require.Equal(t, now, *returnedAt)
				return model.Loan{LoanUid: loanUid, Status: to, ActualReturnDate: returnedAt}, nil
			},
		}
		loan, err := newTestService(repo, now).ReturnLoan(context.Background(), "uid-1")
		require.NoError(t, err)
		require.Equal(t, model.LoanStatusReturned, loan.Status)
	})

	t.Run("returned loan stays returned", func(t *testing.T) {
		t.Parallel()
		repo := &stubRepo{
			getLoan: func(ctx context.Context, loanUid string) (model.Loan, error) {
				return model.Loan{LoanUid: loanUid, Status: model.LoanStatusReturned}, nil
			},
		}
		_, err := newTestService(repo, now).ReturnLoan(context.Background(), "uid-1")
		var vErr *errs.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, "status", vErr.Field)
	})

	t.Run("overdue loan cannot be returned", func(t *testing.T) {
		t.Parallel()
		repo := &stubRepo{
			getLoan: func(ctx context.Context, loanUid string) (model.Loan, error) {
				return model.Loan{LoanUid: loanUid, Status: model.LoanStatusOverdue}, nil
			},
		}
		_, err := newTestService(repo, now).ReturnLoan(context.Background(), "uid-1")
		var vErr *errs.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("missing loan", func(t *testing.T) {
		t.Parallel()
		repo := &stubRepo{
			getLoan: func(ctx context.Context, loanUid string) (model.Loan, error) {
				return model.Loan{}, errs.ErrNotFound
			},
		}
		_, err := newTestService(repo, now).ReturnLoan(context.Background(), "uid-1")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_UpdateLoanStatus(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	pastDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	futureDate := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)

	var tests = []struct {
		name      string
		loan      model.Loan
		to        model.LoanStatus
		wantErr   string
		wantFinal model.LoanStatus
	}{
		{
			name:      "active to overdue with past expected date",
			loan:      model.Loan{Status: model.LoanStatusActive, ExpectedReturnDate: pastDate},
			to:        model.LoanStatusOverdue,
			wantFinal: model.LoanStatusOverdue,
		},
		{
			name:    "active to overdue before expected date",
			loan:    model.Loan{Status: model.LoanStatusActive, ExpectedReturnDate: futureDate},
			to:      model.LoanStatusOverdue,
			wantErr: "expected return date has not passed yet",
		},
		{
			name: "active to overdue after a recorded return",
			loan: model.Loan{
				Status:             model.LoanStatusActive,
				ExpectedReturnDate: pastDate,
				ActualReturnDate:   &now,
			},
			to:      model.LoanStatusOverdue,
			wantErr: "loan already has a recorded return",
		},
		{
			name:      "active to lost",
			loan:      model.Loan{Status: model.LoanStatusActive, ExpectedReturnDate: futureDate},
			to:        model.LoanStatusLost,
			wantFinal: model.LoanStatusLost,
		},
		{
			name:      "overdue to lost",
			loan:      model.Loan{Status: model.LoanStatusOverdue, ExpectedReturnDate: pastDate},
			to:        model.LoanStatusLost,
			wantFinal: model.LoanStatusLost,
		},
		{
			name:    "overdue back to active",
			loan:    model.Loan{Status: model.LoanStatusOverdue, ExpectedReturnDate: pastDate},
			to:      model.LoanStatusActive,
			wantErr: "transition from overdue to active is not allowed",
		},
		{
			name:    "overdue to returned",
			loan:    model.Loan{Status: model.LoanStatusOverdue, ExpectedReturnDate: pastDate},
			to:      model.LoanStatusReturned,
			wantErr: "transition from overdue to returned is not allowed",
		},
		{
			name:    "returned is terminal",
			loan:    model.Loan{Status: model.LoanStatusReturned},
			to:      model.LoanStatusLost,
			wantErr: "transition from returned to lost is not allowed",
		},
		{
			name:    "lost is terminal",
			loan:    model.Loan{Status: model.LoanStatusLost},
			to:      model.LoanStatusActive,
			wantErr: "transition from lost to active is not allowed",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &stubRepo{
				getLoan: func(ctx context.Context, loanUid string) (model.Loan, error) {
					loan := tt.loan
					loan.LoanUid = loanUid
					return loan, nil
				},
				updateLoanStatus: func(ctx context.Context, loanUid string, from, to model.LoanStatus, returnedAt *time.Time) (model.Loan, error) {
					require.Equal(t, tt.loan.Status, from)
					if to != model.LoanStatusReturned {
						require.Nil(t, returnedAt)
					}
					return model.Loan{LoanUid: loanUid, Status: to, ActualReturnDate: returnedAt}, nil
				},
			}

			loan, err := newTestService(repo, now).UpdateLoanStatus(context.Background(), "uid-1", tt.to)
			if tt.wantErr != "" {
				var vErr *errs.ValidationError
				require.ErrorAs(t, err, &vErr)
				require.Contains(t, vErr.Reason, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantFinal, loan.Status)
		})
	}
}
