package model

import (
	"time"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListCategories struct {
	Paging `json:",inline"`
	Items  []Category `json:"items"`
}

type ListAuthors struct {
	Paging `json:",inline"`
	Items  []Author `json:"items"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListLoans struct {
	Paging `json:",inline"`
	Items  []Loan `json:"items"`
}

type Category struct {
	ID          int       `json:"-" db:"id"`
	CategoryUid string    `json:"categoryUid" db:"category_uid"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Author struct {
	ID        int        `json:"-" db:"id"`
	AuthorUid string     `json:"authorUid" db:"author_uid"`
	FirstName string     `json:"firstName" db:"first_name"`
	LastName  string     `json:"lastName" db:"last_name"`
	BirthDate *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	Country   string     `json:"country" db:"country"`
	Biography string     `json:"biography" db:"biography"`
	PhotoUrl  string     `json:"photoUrl" db:"photo_url"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// FullName is the derived display name, "first last".
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

type BookStatus string

const (
	BookStatusAvailable   BookStatus = "available"
	BookStatusLoaned      BookStatus = "loaned"
	BookStatusMaintenance BookStatus = "maintenance"
	BookStatusLost        BookStatus = "lost"
)

type Book struct {
	ID              int        `json:"-" db:"id"`
	BookUid         string     `json:"bookUid" db:"book_uid"`
	Title           string     `json:"title" db:"title"`
	Subtitle        string     `json:"subtitle" db:"subtitle"`
	ISBN            string     `json:"isbn" db:"isbn"`
	AuthorUid       string     `json:"authorUid" db:"author_uid"`
	AuthorName      string     `json:"authorName" db:"author_name"`
	CategoryUid     *string    `json:"categoryUid" db:"category_uid"`
	Publisher       string     `json:"publisher" db:"publisher"`
	PublicationDate *time.Time `json:"publicationDate,omitempty" db:"publication_date"`
	Pages           *int       `json:"pages,omitempty" db:"pages"`
	Language        string     `json:"language" db:"language"`
	Description     string     `json:"description" db:"description"`
	CoverUrl        string     `json:"coverUrl" db:"cover_url"`
	Stock           int        `json:"stock" db:"stock"`
	Status          BookStatus `json:"status" db:"status"`
	Price           float64    `json:"price" db:"price"`
	Rating          float64    `json:"rating" db:"rating"`
	Active          bool       `json:"active" db:"active"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
	CreatedBy       *string    `json:"createdBy" db:"created_by"`
}

// IsAvailable holds iff the book can be loaned right now. Status and
// stock are independent; both must agree.
func (b Book) IsAvailable() bool {
	return b.Status == BookStatusAvailable && b.Stock > 0
}

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
	LoanStatusOverdue  LoanStatus = "overdue"
	LoanStatusLost     LoanStatus = "lost"
)

type Loan struct {
	ID                 int        `json:"-" db:"id"`
	LoanUid            string     `json:"loanUid" db:"loan_uid"`
	BookUid            string     `json:"bookUid" db:"book_uid"`
	BookTitle          string     `json:"bookTitle" db:"book_title"`
	Username           string     `json:"username" db:"username"`
	LoanDate           time.Time  `json:"loanDate" db:"loan_date"`
	ExpectedReturnDate time.Time  `json:"expectedReturnDate" db:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actualReturnDate,omitempty" db:"actual_return_date"`
	Status             LoanStatus `json:"status" db:"status"`
	Notes              string     `json:"notes" db:"notes"`
}

// IsOverdue is a read-side classification only: it never changes the
// stored status. The transition to LoanStatusOverdue is an explicit
// update call.
func (l Loan) IsOverdue(now time.Time) bool {
	return l.Status == LoanStatusActive && l.ExpectedReturnDate.Before(now.Truncate(24*time.Hour))
}

type User struct {
	ID        int       `json:"-" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
