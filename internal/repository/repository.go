package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/model"
	"go.uber.org/zap"
)

type Repository interface {
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error)
	GetCategory(ctx context.Context, categoryUid string) (model.Category, error)
	ListCategories(ctx context.Context, active *bool, page, size int) (model.ListCategories, error)
	UpdateCategory(ctx context.Context, categoryUid string, req model.UpdateCategoryRequest) (model.Category, error)
	DeleteCategory(ctx context.Context, categoryUid string) error

	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)
	GetAuthor(ctx context.Context, authorUid string) (model.Author, error)
	ListAuthors(ctx context.Context, page, size int) (model.ListAuthors, error)
	UpdateAuthor(ctx context.Context, authorUid string, req model.UpdateAuthorRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, authorUid string) error

	CreateBook(ctx context.Context, req model.CreateBookRequest, createdBy string) (model.Book, error)
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter, page, size int) (model.ListBooks, error)
	UpdateBook(ctx context.Context, bookUid string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookUid string) error

	CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error)
	GetLoan(ctx context.Context, loanUid string) (model.Loan, error)
	ListLoans(ctx context.Context, filter model.LoanFilter, page, size int) (model.ListLoans, error)
	UpdateLoanStatus(ctx context.Context, loanUid string, from, to model.LoanStatus, returnedAt *time.Time) (model.Loan, error)
	DeleteLoan(ctx context.Context, loanUid string) error

	CreateUser(ctx context.Context, username, email, passwordHash, role string) (model.User, error)
	GetUser(ctx context.Context, username string) (model.User, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	categoryTableName = `categories`
	authorTableName   = `authors`
	bookTableName     = `books`
	loanTableName     = `loans`
	userTableName     = `users`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// mapWriteErr translates postgres constraint violations into domain
// errors. Uniqueness and referential integrity are enforced by the
// storage engine, so concurrent writers are serialized here, not by
// application locks.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case "categories_name_key":
			return errs.NewConflictError("category", "name")
		case "authors_first_name_last_name_key":
			return errs.NewConflictError("author", "first_name,last_name")
		case "books_isbn_key":
			return errs.NewConflictError("book", "isbn")
		case "users_username_key":
			return errs.NewConflictError("user", "username")
		}
		return errs.NewConflictError(pgErr.TableName, pgErr.ConstraintName)
	case pgerrcode.ForeignKeyViolation:
		// on insert/update a violated FK means the referenced row
		// vanished after the uid lookup; report the missing referent
		switch pgErr.ConstraintName {
		case "books_author_id_fkey":
			return errors.Wrap(errs.ErrNotFound, "author")
		case "books_category_id_fkey":
			return errors.Wrap(errs.ErrNotFound, "category")
		case "books_created_by_fkey", "loans_user_id_fkey":
			return errors.Wrap(errs.ErrNotFound, "user")
		case "loans_book_id_fkey":
			return errors.Wrap(errs.ErrNotFound, "book")
		}
		return errors.Wrap(errs.ErrNotFound, pgErr.ConstraintName)
	case pgerrcode.CheckViolation:
		switch pgErr.ConstraintName {
		case "books_price_check":
			return errs.NewValidationError("price", "must be >= 0.01")
		case "books_rating_check":
			return errs.NewValidationError("rating", "must be between 0.00 and 5.00")
		case "books_stock_check":
			return errs.NewValidationError("stock", "must be >= 0")
		case "books_pages_check":
			return errs.NewValidationError("pages", "must be >= 1")
		}
		return errs.NewValidationError(pgErr.ConstraintName, "check violation")
	}
	return err
}

// mapDeleteErr is mapWriteErr for delete statements, where a violated
// FK means protected rows still reference the target.
func mapDeleteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		switch pgErr.ConstraintName {
		case "books_author_id_fkey":
			return errs.NewIntegrityError("author", "books")
		case "loans_book_id_fkey":
			return errs.NewIntegrityError("book", "loans")
		case "loans_user_id_fkey":
			return errs.NewIntegrityError("user", "loans")
		}
		return errs.NewIntegrityError(pgErr.TableName, pgErr.ConstraintName)
	}
	return mapWriteErr(err)
}
