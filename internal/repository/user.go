package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/model"
)

var userColumns = []string{"id", "username", "email", "password", "role", "created_at"}

func (r *repository) CreateUser(ctx context.Context, username, email, passwordHash, role string) (model.User, error) {
	q, args, err := qb.Insert(userTableName).
		Columns("username", "email", "password", "role").
		Values(username, email, passwordHash, role).
		Suffix("returning " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		return model.User{}, mapWriteErr(err)
	}
	return user, nil
}

func (r *repository) GetUser(ctx context.Context, username string) (model.User, error) {
	q, args, err := qb.Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}
