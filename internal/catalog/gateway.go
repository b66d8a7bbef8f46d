package catalog

import "fmt"

// Gateway stores and retrieves the whole catalog as one unit.
type Gateway interface {
	Save(books []Book) error
	// Load never fails: problems are reported through LoadResult.
	Load() LoadResult
}

// LoadOutcome says which path a Load took.
type LoadOutcome int

const (
	OutcomeLoaded LoadOutcome = iota
	// OutcomeNoFile is a fresh start: nothing has been saved yet.
	OutcomeNoFile
	OutcomeUnreadable
	OutcomeInvalid
)

func (o LoadOutcome) String() string {
	switch o {
	case OutcomeLoaded:
		return "loaded"
	case OutcomeNoFile:
		return "no-file"
	case OutcomeUnreadable:
		return "unreadable"
	case OutcomeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("LoadOutcome(%d)", int(o))
	}
}

// LoadResult is the outcome of Gateway.Load.
// Books is empty for every outcome except OutcomeLoaded; Err holds the cause of a fallback.
type LoadResult struct {
	Books   []Book
	Outcome LoadOutcome
	Err     error
}

// Fallback reports whether prior state was present but discarded.
func (r LoadResult) Fallback() bool {
	return r.Outcome == OutcomeUnreadable || r.Outcome == OutcomeInvalid
}

// Loaded builds a successful result.
func Loaded(books []Book) LoadResult {
	return LoadResult{Books: books, Outcome: OutcomeLoaded}
}

// EmptyFallback builds a result that starts from an empty catalog.
func EmptyFallback(outcome LoadOutcome, err error) LoadResult {
	return LoadResult{Books: []Book{}, Outcome: outcome, Err: err}
}
