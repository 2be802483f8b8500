package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/model"
	"go.uber.org/zap"
)

var authorColumns = []string{
	"id", "author_uid", "first_name", "last_name",
	"birth_date", "country", "biography", "photo_url", "created_at",
}

func (r *repository) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	var birthDate interface{}
	if req.BirthDate != nil {
		birthDate = req.BirthDate.Time
	}
	q, args, err := qb.Insert(authorTableName).
		Columns("author_uid", "first_name", "last_name", "birth_date", "country", "biography", "photo_url").
		Values(uuid.New(), req.FirstName, req.LastName, birthDate, req.Country, req.Biography, req.PhotoUrl).
		Suffix("returning " + joinColumns(authorColumns)).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}

	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		r.log.Debug("CreateAuthor", zap.String("q", q), zap.Error(err))
		return model.Author{}, mapWriteErr(err)
	}
	return author, nil
}

func (r *repository) GetAuthor(ctx context.Context, authorUid string) (model.Author, error) {
	q, args, err := qb.Select(authorColumns...).
		From(authorTableName).
		Where(sq.Eq{"author_uid": authorUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}

	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) ListAuthors(ctx context.Context, page, size int) (model.ListAuthors, error) {
	q := qb.Select(authorColumns...).
		From(authorTableName).
		OrderBy("last_name asc", "first_name asc")

	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListAuthors{}, err
	}

	var authors []model.Author
	if err := r.db.SelectContext(ctx, &authors, query, args...); err != nil {
		return model.ListAuthors{}, err
	}

	return model.ListAuthors{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(authors),
		},
		Items: authors,
	}, nil
}

// UpdateAuthor revalidates the (first_name, last_name) pair against the
// unique index when either half changes.
func (r *repository) UpdateAuthor(ctx context.Context, authorUid string, req model.UpdateAuthorRequest) (model.Author, error) {
	// a patch with no fields is a no-op; an update statement with zero
	// set clauses would not build
	if req.FirstName == nil && req.LastName == nil && req.BirthDate == nil &&
		req.Country == nil && req.Biography == nil && req.PhotoUrl == nil {
		return r.GetAuthor(ctx, authorUid)
	}

	q := qb.Update(authorTableName).
		Where(sq.Eq{"author_uid": authorUid}).
		Suffix("returning " + joinColumns(authorColumns))

	if req.FirstName != nil {
		q = q.Set("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		q = q.Set("last_name", *req.LastName)
	}
	if req.BirthDate != nil {
		q = q.Set("birth_date", req.BirthDate.Time)
	}
	if req.Country != nil {
		q = q.Set("country", *req.Country)
	}
	if req.Biography != nil {
		q = q.Set("biography", *req.Biography)
	}
	if req.PhotoUrl != nil {
		q = q.Set("photo_url", *req.PhotoUrl)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.Author{}, err
	}

	var author model.Author
	if err := r.db.GetContext(ctx, &author, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, mapWriteErr(err)
	}
	return author, nil
}

// DeleteAuthor fails with an integrity error while any book still
// references the author (books.author_id is ON DELETE RESTRICT).
func (r *repository) DeleteAuthor(ctx context.Context, authorUid string) error {
	res, err := r.db.ExecContext(ctx,
		`delete from authors where author_uid = $1`, authorUid)
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
