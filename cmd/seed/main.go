package main

import (
	"context"
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/svazquez/biblioteca-service/config"
	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/model"
	"github.com/svazquez/biblioteca-service/internal/repository"
	"github.com/svazquez/biblioteca-service/internal/service"
	"github.com/svazquez/biblioteca-service/migrations"
	"github.com/svazquez/biblioteca-service/pkg/auth"
	"github.com/svazquez/biblioteca-service/pkg/logger"
	"github.com/svazquez/biblioteca-service/pkg/postgres"
	"go.uber.org/zap"
)

// Seeds the catalog through the same service operations as any API
// caller: no constraint is bypassed. Re-running is idempotent; every
// create falls back to the existing row on a uniqueness conflict.
func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Print("load envs from .env ", zap.Error(err))
	}
	cfg := config.NewConfig()
	log := logger.NewLogger(cfg.Log, "seed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	svc := service.NewService(repo, auth.NewManager(cfg.JWT), log)

	if err := seed(ctx, svc, log); err != nil {
		log.Fatal("seed", zap.Error(err))
	}
	log.Info("seed finished")
}

func seed(ctx context.Context, svc *service.Service, log *zap.Logger) error {
	if _, err := svc.RegisterAdmin(ctx, model.UserCreateRequest{
		Username: "admin",
		Email:    "admin@biblioteca.local",
		Password: "admin-biblioteca",
	}); err != nil && !isConflict(err) {
		return errors.Wrap(err, "admin user")
	}

	if _, err := svc.RegisterUser(ctx, model.UserCreateRequest{
		Username: "lector",
		Email:    "lector@biblioteca.local",
		Password: "lector-biblioteca",
	}); err != nil && !isConflict(err) {
		return errors.Wrap(err, "reader user")
	}

	fiction, err := getOrCreateCategory(ctx, svc, model.CreateCategoryRequest{
		Name:        "Fiction",
		Description: "Novels and short stories",
	})
	if err != nil {
		return err
	}
	if _, err := getOrCreateCategory(ctx, svc, model.CreateCategoryRequest{
		Name:        "History",
		Description: "Historical works",
	}); err != nil {
		return err
	}

	marquez, err := getOrCreateAuthor(ctx, svc, model.CreateAuthorRequest{
		FirstName: "Gabriel",
		LastName:  "Garcia Marquez",
		Country:   "Colombia",
	})
	if err != nil {
		return err
	}
	allende, err := getOrCreateAuthor(ctx, svc, model.CreateAuthorRequest{
		FirstName: "Isabel",
		LastName:  "Allende",
		Country:   "Chile",
	})
	if err != nil {
		return err
	}

	soledad, err := getOrCreateBook(ctx, svc, model.CreateBookRequest{
		Title:       "Cien anos de soledad",
		ISBN:        "9780307474728",
		AuthorUid:   marquez.AuthorUid,
		CategoryUid: &fiction.CategoryUid,
		Publisher:   "Sudamericana",
		Price:       15.50,
	})
	if err != nil {
		return err
	}
	if _, err := getOrCreateBook(ctx, svc, model.CreateBookRequest{
		Title:       "La casa de los espiritus",
		ISBN:        "9788401242185",
		AuthorUid:   allende.AuthorUid,
		CategoryUid: &fiction.CategoryUid,
		Publisher:   "Plaza & Janes",
		Price:       12.00,
	}); err != nil {
		return err
	}

	existing, err := svc.ListLoans(ctx, model.LoanFilter{Username: "lector"}, 0, 0)
	if err != nil {
		return err
	}
	if len(existing.Items) == 0 {
		loan, err := svc.CreateLoan(ctx, model.CreateLoanRequest{
			BookUid:            soledad.BookUid,
			Username:           "lector",
			ExpectedReturnDate: model.Date{Time: time.Now().AddDate(0, 0, 14)},
			Notes:              "sample loan",
		})
		if err != nil {
			return errors.Wrap(err, "sample loan")
		}
		log.Info("sample loan", zap.String("loanUid", loan.LoanUid))
	}
	return nil
}

func isConflict(err error) bool {
	var conflict *errs.ConflictError
	return errors.As(err, &conflict)
}

// get-or-create helpers: attempt the insert and resolve a uniqueness
// conflict by re-reading, instead of trusting a prior absence check.

func getOrCreateCategory(ctx context.Context, svc *service.Service, req model.CreateCategoryRequest) (model.Category, error) {
	cat, err := svc.CreateCategory(ctx, req)
	if err == nil {
		return cat, nil
	}
	if !isConflict(err) {
		return model.Category{}, errors.Wrap(err, "category "+req.Name)
	}
	list, err := svc.ListCategories(ctx, nil, 0, 0)
	if err != nil {
		return model.Category{}, err
	}
	for _, c := range list.Items {
		if c.Name == req.Name {
			return c, nil
		}
	}
	return model.Category{}, errs.ErrNotFound
}

func getOrCreateAuthor(ctx context.Context, svc *service.Service, req model.CreateAuthorRequest) (model.Author, error) {
	author, err := svc.CreateAuthor(ctx, req)
	if err == nil {
		return author, nil
	}
	if !isConflict(err) {
		return model.Author{}, errors.Wrap(err, "author "+req.LastName)
	}
	list, err := svc.ListAuthors(ctx, 0, 0)
	if err != nil {
		return model.Author{}, err
	}
	for _, a := range list.Items {
		if a.FirstName == req.FirstName && a.LastName == req.LastName {
			return a, nil
		}
	}
	return model.Author{}, errs.ErrNotFound
}

func getOrCreateBook(ctx context.Context, svc *service.Service, req model.CreateBookRequest) (model.Book, error) {
	book, err := svc.CreateBook(ctx, req)
	if err == nil {
		return book, nil
	}
	if !isConflict(err) {
		return model.Book{}, errors.Wrap(err, "book "+req.ISBN)
	}
	list, err := svc.ListBooks(ctx, model.BookFilter{}, 0, 0)
	if err != nil {
		return model.Book{}, err
	}
	for _, b := range list.Items {
		if b.ISBN == req.ISBN {
			return b, nil
		}
	}
	return model.Book{}, errs.ErrNotFound
}
