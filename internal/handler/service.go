package handler

import (
	"context"

	"github.com/svazquez/biblioteca-service/internal/model"
	"github.com/svazquez/biblioteca-service/internal/service"
	"github.com/svazquez/biblioteca-service/pkg/auth"
	"github.com/svazquez/biblioteca-service/pkg/oauth"
	"golang.org/x/oauth2"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
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

	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter, page, size int) (model.ListBooks, error)
	UpdateBook(ctx context.Context, bookUid string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookUid string) error

	CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error)
	GetLoan(ctx context.Context, loanUid string) (model.Loan, error)
	ListLoans(ctx context.Context, filter model.LoanFilter, page, size int) (model.ListLoans, error)
	ReturnLoan(ctx context.Context, loanUid string) (model.Loan, error)
	UpdateLoanStatus(ctx context.Context, loanUid string, to model.LoanStatus) (model.Loan, error)
	DeleteLoan(ctx context.Context, loanUid string) error
}

type AuthService interface {
	RegisterUser(ctx context.Context, req model.UserCreateRequest) (model.User, error)
	Login(ctx context.Context, req model.AuthRequest) (model.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenResponse, error)
	Verify(tokenStr string) (*auth.Claims, error)
	LoginWithProvider(ctx context.Context, username, email string) (model.TokenResponse, error)
}

type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, token *oauth2.Token) (oauth.UserInfo, error)
}

var (
	_ LibraryService = (*service.Service)(nil)
	_ AuthService    = (*service.Service)(nil)
	_ OAuthProvider  = (*oauth.GoogleProvider)(nil)
)
