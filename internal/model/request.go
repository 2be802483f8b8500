package model

import (
	"strings"
	"time"
)

// Date is a day-granularity timestamp serialized as "2006-01-02".
type Date struct {
	time.Time `json:",inline"`
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

type CreateAuthorRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	BirthDate *Date  `json:"birthDate" validate:"omitempty"`
	Country   string `json:"country" validate:"max=100"`
	Biography string `json:"biography"`
	PhotoUrl  string `json:"photoUrl" validate:"omitempty,url"`
}

type UpdateAuthorRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	BirthDate *Date   `json:"birthDate"`
	Country   *string `json:"country" validate:"omitempty,max=100"`
	Biography *string `json:"biography"`
	PhotoUrl  *string `json:"photoUrl" validate:"omitempty,url"`
}

type CreateBookRequest struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Subtitle        string     `json:"subtitle" validate:"max=255"`
	ISBN            string     `json:"isbn" validate:"required,len=13,numeric"`
	AuthorUid       string     `json:"authorUid" validate:"required,uuid"`
	CategoryUid     *string    `json:"categoryUid" validate:"omitempty,uuid"`
	Publisher       string     `json:"publisher" validate:"max=200"`
	PublicationDate *Date      `json:"publicationDate"`
	Pages           *int       `json:"pages" validate:"omitempty,gte=1"`
	Language        string     `json:"language" validate:"max=50"`
	Description     string     `json:"description"`
	CoverUrl        string     `json:"coverUrl" validate:"omitempty,url"`
	Stock           *int       `json:"stock" validate:"omitempty,gte=0"`
	Status          BookStatus `json:"status" validate:"omitempty,oneof=available loaned maintenance lost"`
	Price           float64    `json:"price" validate:"required,gte=0.01"`
	Rating          *float64   `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// UpdateBookRequest carries no isbn on purpose: an assigned isbn is
// immutable, and the handler rejects any attempt to patch it.
type UpdateBookRequest struct {
	Title           *string     `json:"title" validate:"omitempty,min=1,max=255"`
	Subtitle        *string     `json:"subtitle" validate:"omitempty,max=255"`
	AuthorUid       *string     `json:"authorUid" validate:"omitempty,uuid"`
	CategoryUid     *string     `json:"categoryUid" validate:"omitempty,uuid"`
	Publisher       *string     `json:"publisher" validate:"omitempty,max=200"`
	PublicationDate *Date       `json:"publicationDate"`
	Pages           *int        `json:"pages" validate:"omitempty,gte=1"`
	Language        *string     `json:"language" validate:"omitempty,max=50"`
	Description     *string     `json:"description"`
	CoverUrl        *string     `json:"coverUrl" validate:"omitempty,url"`
	Stock           *int        `json:"stock" validate:"omitempty,gte=0"`
	Status          *BookStatus `json:"status" validate:"omitempty,oneof=available loaned maintenance lost"`
	Price           *float64    `json:"price" validate:"omitempty,gte=0.01"`
	Rating          *float64    `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Active          *bool       `json:"active"`
}

type CreateLoanRequest struct {
	BookUid            string `json:"bookUid" validate:"required,uuid"`
	Username           string `json:"username" validate:"required"`
	ExpectedReturnDate Date   `json:"expectedReturnDate" validate:"required"`
	Notes              string `json:"notes"`
}

type UpdateLoanStatusRequest struct {
	Status LoanStatus `json:"status" validate:"required,oneof=active returned overdue lost"`
}

type BookFilter struct {
	AuthorUid   string
	CategoryUid string
	Available   bool
	Active      *bool
}

type LoanFilter struct {
	Username string
	Status   LoanStatus
	Overdue  bool
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
