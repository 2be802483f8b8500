package service

import (
	"context"
	"time"

	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/model"
	"github.com/svazquez/biblioteca-service/internal/repository"
	"github.com/svazquez/biblioteca-service/pkg/auth"
	"go.uber.org/zap"
)

type Service struct {
	log     *zap.Logger
	repo    repository.Repository
	tokens  *auth.Manager
	nowFunc func() time.Time
}

func NewService(repo repository.Repository, tokens *auth.Manager, log *zap.Logger) *Service {
	return &Service{
		log:     log,
		repo:    repo,
		tokens:  tokens,
		nowFunc: time.Now,
	}
}

func (s *Service) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error) {
	return s.repo.CreateCategory(ctx, req)
}

func (s *Service) GetCategory(ctx context.Context, categoryUid string) (model.Category, error) {
	return s.repo.GetCategory(ctx, categoryUid)
}

func (s *Service) ListCategories(ctx context.Context, active *bool, page, size int) (model.ListCategories, error) {
	return s.repo.ListCategories(ctx, active, page, size)
}

func (s *Service) UpdateCategory(ctx context.Context, categoryUid string, req model.UpdateCategoryRequest) (model.Category, error) {
	return s.repo.UpdateCategory(ctx, categoryUid, req)
}

func (s *Service) DeleteCategory(ctx context.Context, categoryUid string) error {
	return s.repo.DeleteCategory(ctx, categoryUid)
}

func (s *Service) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	return s.repo.CreateAuthor(ctx, req)
}

func (s *Service) GetAuthor(ctx context.Context, authorUid string) (model.Author, error) {
	return s.repo.GetAuthor(ctx, authorUid)
}

func (s *Service) ListAuthors(ctx context.Context, page, size int) (model.ListAuthors, error) {
	return s.repo.ListAuthors(ctx, page, size)
}

func (s *Service) UpdateAuthor(ctx context.Context, authorUid string, req model.UpdateAuthorRequest) (model.Author, error) {
	return s.repo.UpdateAuthor(ctx, authorUid, req)
}

func (s *Service) DeleteAuthor(ctx context.Context, authorUid string) error {
	return s.repo.DeleteAuthor(ctx, authorUid)
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	createdBy := auth.UsernameFromContext(ctx)
	return s.repo.CreateBook(ctx, req, createdBy)
}

func (s *Service) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	return s.repo.GetBook(ctx, bookUid)
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter, page, size int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, filter, page, size)
}

func (s *Service) UpdateBook(ctx context.Context, bookUid string, req model.UpdateBookRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, bookUid, req)
}

func (s *Service) DeleteBook(ctx context.Context, bookUid string) error {
	return s.repo.DeleteBook(ctx, bookUid)
}

func (s *Service) CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error) {
	return s.repo.CreateLoan(ctx, req)
}

func (s *Service) GetLoan(ctx context.Context, loanUid string) (model.Loan, error) {
	return s.repo.GetLoan(ctx, loanUid)
}

func (s *Service) ListLoans(ctx context.Context, filter model.LoanFilter, page, size int) (model.ListLoans, error) {
	return s.repo.ListLoans(ctx, filter, page, size)
}

func (s *Service) DeleteLoan(ctx context.Context, loanUid string) error {
	return s.repo.DeleteLoan(ctx, loanUid)
}

// ReturnLoan closes an active loan and records the return time.
// Returned is terminal.
func (s *Service) ReturnLoan(ctx context.Context, loanUid string) (model.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, loanUid)
	if err != nil {
		return model.Loan{}, err
	}
	if loan.Status != model.LoanStatusActive {
		return model.Loan{}, errs.NewValidationError("status",
			"only active loans can be returned")
	}
	now := s.nowFunc().UTC()
	return s.repo.UpdateLoanStatus(ctx, loanUid, model.LoanStatusActive, model.LoanStatusReturned, &now)
}

// loanTransitions lists every legal explicit status change. Returned
// and lost are terminal and have no outgoing edges. Nothing here runs
// on a timer: a loan past its expected return date stays active until
// a caller moves it.
var loanTransitions = map[model.LoanStatus][]model.LoanStatus{
	model.LoanStatusActive:  {model.LoanStatusReturned, model.LoanStatusOverdue, model.LoanStatusLost},
	model.LoanStatusOverdue: {model.LoanStatusLost},
}

func (s *Service) UpdateLoanStatus(ctx context.Context, loanUid string, to model.LoanStatus) (model.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, loanUid)
	if err != nil {
		return model.Loan{}, err
	}

	allowed := false
	for _, next := range loanTransitions[loan.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return model.Loan{}, errs.NewValidationError("status",
			"transition from "+string(loan.Status)+" to "+string(to)+" is not allowed")
	}

	now := s.nowFunc().UTC()
	var returnedAt *time.Time
	switch to {
	case model.LoanStatusReturned:
		returnedAt = &now
	case model.LoanStatusOverdue:
		if loan.ActualReturnDate != nil {
			return model.Loan{}, errs.NewValidationError("status",
				"loan already has a recorded return")
		}
		if !loan.ExpectedReturnDate.Before(now.Truncate(24 * time.Hour)) {
			return model.Loan{}, errs.NewValidationError("status",
				"expected return date has not passed yet")
		}
	}

	return s.repo.UpdateLoanStatus(ctx, loanUid, loan.Status, to, returnedAt)
}
