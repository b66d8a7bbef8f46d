// Package catalog holds the in-memory book catalog and its lending rules.
package catalog

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"cloud.google.com/go/civil"
	"golang.org/x/text/cases"

	"github.com/bassista/go_library/internal/clock"
	"github.com/bassista/go_library/internal/logger"
)

// Library is the catalog store. It is not safe for concurrent use.
type Library struct {
	books  []Book
	repo   Gateway
	clock  clock.Clock
	policy Policy
}

// Option configures a Library.
type Option func(*Library)

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(l *Library) {
		l.clock = c
	}
}

// WithPolicy replaces the default lending policy.
func WithPolicy(p Policy) Option {
	return func(l *Library) {
		l.policy = p
	}
}

// New loads the catalog through repo. A failed load starts an empty catalog
// and is logged as a warning.
func New(repo Gateway, opts ...Option) (*Library, error) {
	if repo == nil {
		return nil, fmt.Errorf("gateway is nil")
	}
	l := &Library{repo: repo, clock: clock.System{}, policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(l)
	}
	if l.clock == nil {
		return nil, fmt.Errorf("clock is nil")
	}

	res := repo.Load()
	switch {
	case res.Fallback():
		logger.WithComponent("catalog").Warnf("previous catalog discarded (%s), starting empty: %v", res.Outcome, res.Err)
		l.books = []Book{}
	case res.Outcome == OutcomeNoFile:
		logger.WithComponent("catalog").Info("no saved catalog found, starting empty")
		l.books = []Book{}
	default:
		l.books = slices.Clone(res.Books)
		logger.WithComponent("catalog").Debugf("loaded %d books", len(l.books))
	}
	return l, nil
}

// Policy returns the lending policy in effect.
func (l *Library) Policy() Policy {
	return l.policy
}

// Len returns the number of records.
func (l *Library) Len() int {
	return len(l.books)
}

// Add appends an available book and flushes the catalog.
func (l *Library) Add(title, author string) error {
	l.books = append(l.books, NewBook(title, author))
	return l.flush()
}

// List returns every book in insertion order. The sequence can be ranged over
// repeatedly; it reflects the catalog at the time of each iteration.
// ErrNoRecords is returned alongside an empty sequence.
func (l *Library) List() (iter.Seq[Book], error) {
	seq := func(yield func(Book) bool) {
		for _, b := range l.books {
			if !yield(b) {
				return
			}
		}
	}
	if len(l.books) == 0 {
		return seq, ErrNoRecords
	}
	return seq, nil
}

// Search returns the books whose title contains keyword, ignoring case.
// An empty keyword matches every book.
func (l *Library) Search(keyword string) ([]Book, error) {
	needle := fold(keyword)
	var found []Book
	for _, b := range l.books {
		if strings.Contains(fold(b.Title), needle) {
			found = append(found, b)
		}
	}
	if len(found) == 0 {
		return nil, ErrNoMatches
	}
	return found, nil
}

// Issue lends the first available copy of title and returns its due date.
func (l *Library) Issue(title string) (civil.Date, error) {
	i := l.firstMatch(title, false)
	if i < 0 {
		return civil.Date{}, ErrBookUnavailable
	}
	due := l.books[i].issue(l.clock.Today(), l.policy.LoanPeriodDays)
	logger.WithComponent("catalog").Debugf("issued %q, due %s", l.books[i].Title, due)
	return due, l.flush()
}

// Return takes back the first issued copy of title and returns the fine owed.
func (l *Library) Return(title string) (int64, error) {
	i := l.firstMatch(title, true)
	if i < 0 {
		return 0, ErrBookNotIssued
	}
	// The fine depends on the due date, so compute it before clearing.
	fine := l.books[i].Fine(l.clock.Today(), l.policy.FinePerDay)
	l.books[i].giveBack()
	logger.WithComponent("catalog").Debugf("returned %q, fine %d", l.books[i].Title, fine)
	return fine, l.flush()
}

// firstMatch returns the index of the first book titled title with the given
// issued state, or -1.
func (l *Library) firstMatch(title string, issued bool) int {
	want := fold(title)
	for i := range l.books {
		if l.books[i].Issued == issued && fold(l.books[i].Title) == want {
			return i
		}
	}
	return -1
}

func (l *Library) flush() error {
	if err := l.repo.Save(slices.Clone(l.books)); err != nil {
		logger.WithComponent("catalog").Warnf("catalog not saved: %v", err)
		return fmt.Errorf("%w: %w", ErrPersistenceWriteFailed, err)
	}
	return nil
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// Equal reports whether two catalogs hold the same records in the same order.
func Equal(a, b []Book) bool {
	return slices.Equal(a, b)
}
