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

var categoryColumns = []string{"id", "category_uid", "name", "description", "active", "created_at"}

func (r *repository) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	q, args, err := qb.Insert(categoryTableName).
		Columns("category_uid", "name", "description", "active").
		Values(uuid.New(), req.Name, req.Description, active).
		Suffix("returning " + joinColumns(categoryColumns)).
		ToSql()
	if err != nil {
		return model.Category{}, err
	}

	var cat model.Category
	if err := r.db.GetContext(ctx, &cat, q, args...); err != nil {
		r.log.Debug("CreateCategory", zap.String("q", q), zap.Error(err))
		return model.Category{}, mapWriteErr(err)
	}
	return cat, nil
}

func (r *repository) GetCategory(ctx context.Context, categoryUid string) (model.Category, error) {
	q, args, err := qb.Select(categoryColumns...).
		From(categoryTableName).
		Where(sq.Eq{"category_uid": categoryUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Category{}, err
	}

	var cat model.Category
	if err := r.db.GetContext(ctx, &cat, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, errs.ErrNotFound
		}
		return model.Category{}, err
	}
	return cat, nil
}

func (r *repository) ListCategories(ctx context.Context, active *bool, page, size int) (model.ListCategories, error) {
	q := qb.Select(categoryColumns...).
		From(categoryTableName).
		OrderBy("name asc")

	if active != nil {
		q = q.Where(sq.Eq{"active": *active})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListCategories{}, err
	}

	var cats []model.Category
	if err := r.db.SelectContext(ctx, &cats, query, args...); err != nil {
		return model.ListCategories{}, err
	}

	return model.ListCategories{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(cats),
		},
		Items: cats,
	}, nil
}

func (r *repository) UpdateCategory(ctx context.Context, categoryUid string, req model.UpdateCategoryRequest) (model.Category, error) {
	// a patch with no fields is a no-op; an update statement with zero
	// set clauses would not build
	if req.Name == nil && req.Description == nil && req.Active == nil {
		return r.GetCategory(ctx, categoryUid)
	}

	q := qb.Update(categoryTableName).
		Where(sq.Eq{"category_uid": categoryUid}).
		Suffix("returning " + joinColumns(categoryColumns))

	if req.Name != nil {
		q = q.Set("name", *req.Name)
	}
	if req.Description != nil {
		q = q.Set("description", *req.Description)
	}
	if req.Active != nil {
		q = q.Set("active", *req.Active)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.Category{}, err
	}

	var cat model.Category
	if err := r.db.GetContext(ctx, &cat, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, errs.ErrNotFound
		}
		return model.Category{}, mapWriteErr(err)
	}
	return cat, nil
}

// DeleteCategory never blocks on dependent books: books.category_id is
// declared ON DELETE SET NULL, so the reference is cleared in the same
// statement.
func (r *repository) DeleteCategory(ctx context.Context, categoryUid string) error {
	res, err := r.db.ExecContext(ctx,
		`delete from categories where category_uid = $1`, categoryUid)
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
