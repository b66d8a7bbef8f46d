package repository

import (
	"context"

	"github.com/bassista/go_library/internal/catalog"
)

// Repository abstracts persistence and watching of the catalog file.
// FileRepository implements this interface.
type Repository interface {
	catalog.Gateway
	StartWatcher(ctx context.Context, onChange func(catalog.LoadResult)) error
}
