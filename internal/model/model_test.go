package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/svazquez/biblioteca-service/internal/model"
)

func TestBook_IsAvailable(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name string
		book model.Book
		want bool
	}{
		{"in stock", model.Book{Status: model.BookStatusAvailable, Stock: 3}, true},
		{"stock exhausted", model.Book{Status: model.BookStatusAvailable, Stock: 0}, false},
		{"loaned out", model.Book{Status: model.BookStatusLoaned, Stock: 3}, false},
		{"in maintenance", model.Book{Status: model.BookStatusMaintenance, Stock: 1}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.book.IsAvailable())
		})
	}
}

func TestLoan_IsOverdue(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	past := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	var tests = []struct {
		name string
		loan model.Loan
		want bool
	}{
		{"active past due", model.Loan{Status: model.LoanStatusActive, ExpectedReturnDate: past}, true},
		{"active not due yet", model.Loan{Status: model.LoanStatusActive, ExpectedReturnDate: future}, false},
		{"due today", model.Loan{Status: model.LoanStatusActive, ExpectedReturnDate: now.Truncate(24 * time.Hour)}, false},
		{"returned late", model.Loan{Status: model.LoanStatusReturned, ExpectedReturnDate: past}, false},
		{"already marked overdue", model.Loan{Status: model.LoanStatusOverdue, ExpectedReturnDate: past}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.loan.IsOverdue(now))
		})
	}
}

func TestAuthor_FullName(t *testing.T) {
	t.Parallel()
	a := model.Author{FirstName: "Gabriel", LastName: "Garcia Marquez"}
	require.Equal(t, "Gabriel Garcia Marquez", a.FullName())
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		var d model.Date
		require.NoError(t, json.Unmarshal([]byte(`"2026-09-15"`), &d))
		require.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), d.Time)

		out, err := json.Marshal(d)
		require.NoError(t, err)
		require.Equal(t, `"2026-09-15"`, string(out))
	})

	t.Run("null is a no-op", func(t *testing.T) {
		t.Parallel()
		var d model.Date
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		require.True(t, d.IsZero())
	})

	t.Run("timestamp format rejected", func(t *testing.T) {
		t.Parallel()
		var d model.Date
		require.Error(t, json.Unmarshal([]byte(`"2026-09-15T10:00:00Z"`), &d))
	})
}
