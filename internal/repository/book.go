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

var bookColumns = []string{
	"b.id", "b.book_uid", "b.title", "b.subtitle", "b.isbn",
	"a.author_uid", "a.first_name || ' ' || a.last_name as author_name",
	"c.category_uid", "b.publisher", "b.publication_date", "b.pages",
	"b.language", "b.description", "b.cover_url", "b.stock", "b.status",
	"b.price", "b.rating", "b.active", "b.created_at", "b.updated_at",
	"u.username as created_by",
}

func (r *repository) selectBooks() sq.SelectBuilder {
	return qb.Select(bookColumns...).
		From(bookTableName + " b").
		Join(authorTableName + " a on a.id = b.author_id").
		LeftJoin(categoryTableName + " c on c.id = b.category_id").
		LeftJoin(userTableName + " u on u.id = b.created_by")
}

// lookupID resolves a business uid to the surrogate id. The insert or
// update still carries the FK constraint, so a referent deleted between
// lookup and write surfaces as a constraint error, not a dangling row.
func (r *repository) lookupID(ctx context.Context, table, uidColumn, uid string) (int, error) {
	q, args, err := qb.Select("id").
		From(table).
		Where(sq.Eq{uidColumn: uid}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int
	if err := r.db.GetContext(ctx, &id, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errs.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest, createdBy string) (model.Book, error) {
	authorID, err := r.lookupID(ctx, authorTableName, "author_uid", req.AuthorUid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Book{}, errors.Wrap(errs.ErrNotFound, "author")
		}
		return model.Book{}, err
	}

	var categoryID interface{}
	if req.CategoryUid != nil {
		id, err := r.lookupID(ctx, categoryTableName, "category_uid", *req.CategoryUid)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return model.Book{}, errors.Wrap(errs.ErrNotFound, "category")
			}
			return model.Book{}, err
		}
		categoryID = id
	}

	var creatorID interface{}
	if createdBy != "" {
		if id, err := r.lookupID(ctx, userTableName, "username", createdBy); err == nil {
			creatorID = id
		}
	}

	stock := 1
	if req.Stock != nil {
		stock = *req.Stock
	}
	status := model.BookStatusAvailable
	if req.Status != "" {
		status = req.Status
	}
	language := "Spanish"
	if req.Language != "" {
		language = req.Language
	}
	rating := 0.00
	if req.Rating != nil {
		rating = *req.Rating
	}
	var pubDate interface{}
	if req.PublicationDate != nil {
		pubDate = req.PublicationDate.Time
	}

	bookUid := uuid.New().String()
	q, args, err := qb.Insert(bookTableName).
		Columns("book_uid", "title", "subtitle", "isbn", "author_id", "category_id",
			"publisher", "publication_date", "pages", "language", "description",
			"cover_url", "stock", "status", "price", "rating", "created_by").
		Values(bookUid, req.Title, req.Subtitle, req.ISBN, authorID, categoryID,
			req.Publisher, pubDate, req.Pages, language, req.Description,
			req.CoverUrl, stock, status, req.Price, rating, creatorID).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		r.log.Debug("CreateBook", zap.String("q", q), zap.Error(err))
		return model.Book{}, mapWriteErr(err)
	}
	return r.GetBook(ctx, bookUid)
}

func (r *repository) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	q, args, err := r.selectBooks().
		Where(sq.Eq{"b.book_uid": bookUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter, page, size int) (model.ListBooks, error) {
	q := r.selectBooks().OrderBy("b.created_at desc")

	if filter.AuthorUid != "" {
		q = q.Where(sq.Eq{"a.author_uid": filter.AuthorUid})
	}
	if filter.CategoryUid != "" {
		q = q.Where(sq.Eq{"c.category_uid": filter.CategoryUid})
	}
	if filter.Available {
		q = q.Where(sq.Eq{"b.status": model.BookStatusAvailable}).
			Where(sq.Gt{"b.stock": 0})
	}
	if filter.Active != nil {
		q = q.Where(sq.Eq{"b.active": *filter.Active})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

// UpdateBook applies the changed fields and refreshes updated_at in the
// same statement. The isbn is not updatable.
func (r *repository) UpdateBook(ctx context.Context, bookUid string, req model.UpdateBookRequest) (model.Book, error) {
	q := qb.Update(bookTableName).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"book_uid": bookUid}).
		Suffix("returning book_uid")

	if req.Title != nil {
		q = q.Set("title", *req.Title)
	}
	if req.Subtitle != nil {
		q = q.Set("subtitle", *req.Subtitle)
	}
	if req.AuthorUid != nil {
		id, err := r.lookupID(ctx, authorTableName, "author_uid", *req.AuthorUid)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return model.Book{}, errors.Wrap(errs.ErrNotFound, "author")
			}
			return model.Book{}, err
		}
		q = q.Set("author_id", id)
	}
	if req.CategoryUid != nil {
		id, err := r.lookupID(ctx, categoryTableName, "category_uid", *req.CategoryUid)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return model.Book{}, errors.Wrap(errs.ErrNotFound, "category")
			}
			return model.Book{}, err
		}
		q = q.Set("category_id", id)
	}
	if req.Publisher != nil {
		q = q.Set("publisher", *req.Publisher)
	}
	if req.PublicationDate != nil {
		q = q.Set("publication_date", req.PublicationDate.Time)
	}
	if req.Pages != nil {
		q = q.Set("pages", *req.Pages)
	}
	if req.Language != nil {
		q = q.Set("language", *req.Language)
	}
	if req.Description != nil {
		q = q.Set("description", *req.Description)
	}
	if req.CoverUrl != nil {
		q = q.Set("cover_url", *req.CoverUrl)
	}
	if req.Stock != nil {
		q = q.Set("stock", *req.Stock)
	}
	if req.Status != nil {
		q = q.Set("status", *req.Status)
	}
	if req.Price != nil {
		q = q.Set("price", *req.Price)
	}
	if req.Rating != nil {
		q = q.Set("rating", *req.Rating)
	}
	if req.Active != nil {
		q = q.Set("active", *req.Active)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var uid string
	if err := r.db.GetContext(ctx, &uid, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, mapWriteErr(err)
	}
	return r.GetBook(ctx, uid)
}

// DeleteBook fails while loans still reference the book
// (loans.book_id is ON DELETE RESTRICT).
func (r *repository) DeleteBook(ctx context.Context, bookUid string) error {
	res, err := r.db.ExecContext(ctx,
		`delete from books where book_uid = $1`, bookUid)
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
