package catalog

import (
	"cloud.google.com/go/civil"
)

const (
	// LoanPeriodDays is the number of calendar days an issued book may be kept.
	LoanPeriodDays = 14
	// FinePerDay is charged for every whole day a book is returned late.
	FinePerDay int64 = 5
)

// Policy holds the lending rules applied by a Library.
type Policy struct {
	LoanPeriodDays int
	FinePerDay     int64
}

// DefaultPolicy returns the standard two-week loan with the standard fine rate.
func DefaultPolicy() Policy {
	return Policy{LoanPeriodDays: LoanPeriodDays, FinePerDay: FinePerDay}
}

// Book is a single catalog record.
// DueDate is the zero Date unless Issued is true.
type Book struct {
	Title   string
	Author  string
	Issued  bool
	DueDate civil.Date
}

// NewBook returns an available book.
func NewBook(title, author string) Book {
	return Book{Title: title, Author: author}
}

// DaysOverdue is the number of days between the due date and today.
// Zero or negative means the book is not late; a book that is not issued is never late.
func (b Book) DaysOverdue(today civil.Date) int {
	if !b.Issued {
		return 0
	}
	return today.DaysSince(b.DueDate)
}

// Fine is the amount owed if the book were returned today.
func (b Book) Fine(today civil.Date, perDay int64) int64 {
	days := b.DaysOverdue(today)
	if days <= 0 {
		return 0
	}
	return int64(days) * perDay
}

func (b *Book) issue(today civil.Date, loanDays int) civil.Date {
	b.Issued = true
	b.DueDate = today.AddDays(loanDays)
	return b.DueDate
}

func (b *Book) giveBack() {
	b.Issued = false
	b.DueDate = civil.Date{}
}
