package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bassista/go_library/internal/catalog"
	"github.com/bassista/go_library/internal/clock"
	"github.com/bassista/go_library/internal/config"
	"github.com/bassista/go_library/internal/repository"
)

// App is the application container: configuration, the catalog file and the
// catalog loaded from it.
type App struct {
	Config  *config.Config
	Repo    repository.Repository
	Library *catalog.Library
}

// New builds the repository from cfg and loads the catalog through it.
func New(cfg *config.Config, c clock.Clock) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if c == nil {
		return nil, errors.New("clock is nil")
	}

	repo, err := repository.NewFileRepository(cfg.Data.FilePath, repository.Format(strings.ToLower(cfg.Data.Format)))
	if err != nil {
		return nil, fmt.Errorf("cannot init repository: %w", err)
	}

	lib, err := catalog.New(repo, catalog.WithClock(c), catalog.WithPolicy(cfg.Loan.Policy()))
	if err != nil {
		return nil, fmt.Errorf("cannot init catalog: %w", err)
	}

	return &App{Config: cfg, Repo: repo, Library: lib}, nil
}
