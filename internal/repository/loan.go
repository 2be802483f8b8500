package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/model"
	"go.uber.org/zap"
)

var loanColumns = []string{
	"l.id", "l.loan_uid", "b.book_uid", "b.title as book_title", "u.username",
	"l.loan_date", "l.expected_return_date", "l.actual_return_date",
	"l.status", "l.notes",
}

func (r *repository) selectLoans() sq.SelectBuilder {
	return qb.Select(loanColumns...).
		From(loanTableName + " l").
		Join(bookTableName + " b on b.id = l.book_id").
		Join(userTableName + " u on u.id = l.user_id")
}

// CreateLoan accepts an expected_return_date already in the past: there
// is no temporal validation at creation, and classification as overdue
// only ever happens through an explicit status update.
func (r *repository) CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error) {
	bookID, err := r.lookupID(ctx, bookTableName, "book_uid", req.BookUid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Loan{}, errors.Wrap(errs.ErrNotFound, "book")
		}
		return model.Loan{}, err
	}
	userID, err := r.lookupID(ctx, userTableName, "username", req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Loan{}, errors.Wrap(errs.ErrNotFound, "user")
		}
		return model.Loan{}, err
	}

	loanUid := uuid.New().String()
	q, args, err := qb.Insert(loanTableName).
		Columns("loan_uid", "book_id", "user_id", "expected_return_date", "status", "notes").
		Values(loanUid, bookID, userID, req.ExpectedReturnDate.Format(time.DateOnly), model.LoanStatusActive, req.Notes).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		r.log.Debug("CreateLoan", zap.String("q", q), zap.Error(err))
		return model.Loan{}, mapWriteErr(err)
	}
	return r.GetLoan(ctx, loanUid)
}

func (r *repository) GetLoan(ctx context.Context, loanUid string) (model.Loan, error) {
	q, args, err := r.selectLoans().
		Where(sq.Eq{"l.loan_uid": loanUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) ListLoans(ctx context.Context, filter model.LoanFilter, page, size int) (model.ListLoans, error) {
	q := r.selectLoans().OrderBy("l.loan_date desc")

	if filter.Username != "" {
		q = q.Where(sq.Eq{"u.username": filter.Username})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"l.status": filter.Status})
	}
	if filter.Overdue {
		// computed at query time; the stored status is left untouched
		q = q.Where("l.expected_return_date < current_date").
			Where(sq.Eq{"l.status": model.LoanStatusActive})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListLoans{}, err
	}
	r.log.Debug("ListLoans", zap.String("query", query), zap.Any("args", args))

	var loans []model.Loan
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return model.ListLoans{}, err
	}

	return model.ListLoans{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(loans),
		},
		Items: loans,
	}, nil
}

// UpdateLoanStatus moves the loan from one status to another in a
// single guarded statement: a concurrent transition out of `from` makes
// this a no-op that reports not found to the caller.
func (r *repository) UpdateLoanStatus(ctx context.Context, loanUid string, from, to model.LoanStatus, returnedAt *time.Time) (model.Loan, error) {
	q := qb.Update(loanTableName).
		Set("status", to).
		Where(sq.Eq{"loan_uid": loanUid}).
		Where(sq.Eq{"status": from}).
		Suffix("returning loan_uid")

	if returnedAt != nil {
		q = q.Set("actual_return_date", *returnedAt)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var uid string
	if err := r.db.GetContext(ctx, &uid, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, mapWriteErr(err)
	}
	return r.GetLoan(ctx, uid)
}

func (r *repository) DeleteLoan(ctx context.Context, loanUid string) error {
	res, err := r.db.ExecContext(ctx,
		`delete from loans where loan_uid = $1`, loanUid)
	if err != nil {
		return mapDeleteErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
