package catalog

import "errors"

var (
	// ErrBookUnavailable covers both an unknown title and a title whose copies are all issued.
	ErrBookUnavailable = errors.New("book not available or already issued")
	// ErrBookNotIssued covers both an unknown title and a title with no issued copy.
	ErrBookNotIssued = errors.New("book not found or not issued")
	ErrNoRecords     = errors.New("no books in the library")
	ErrNoMatches     = errors.New("no matching books found")

	// ErrPersistenceWriteFailed is returned together with a valid result:
	// the in-memory change stands, only the flush to disk failed.
	ErrPersistenceWriteFailed = errors.New("persist catalog")
)
