package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"

	"github.com/bassista/go_library/internal/catalog"
	"github.com/bassista/go_library/internal/logger"
)

var (
	// ErrReadFailed wraps I/O errors reading an existing catalog file.
	ErrReadFailed = errors.New("read catalog file")
	// ErrFormatInvalid wraps decode and validation errors.
	ErrFormatInvalid = errors.New("invalid catalog file")
)

const watchDebounce = 200 * time.Millisecond

var _ Repository = (*FileRepository)(nil)

// FileRepository handles disk persistence and watching of the catalog file.
type FileRepository struct {
	path      string
	dir       string
	base      string
	codec     Codec
	validator *validator.Validate
	mu        sync.Mutex
}

// NewFileRepository creates a repository for the given file path.
// An empty format is inferred from the path's extension.
func NewFileRepository(path string, format Format) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("data file path is required")
	}
	codec, err := CodecFor(format, path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == "" || dir == "." {
		dir = "."
	}

	return &FileRepository{path: path, dir: dir, base: base, codec: codec, validator: validator.New()}, nil
}

// Path returns the catalog file path.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads, decodes and validates the catalog file. It never fails: a
// missing file or bad content yields an empty catalog and the reason.
func (r *FileRepository) Load() catalog.LoadResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUnlocked()
}

// loadUnlocked reads the file without acquiring the lock (caller must hold it).
func (r *FileRepository) loadUnlocked() catalog.LoadResult {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return catalog.EmptyFallback(catalog.OutcomeNoFile, nil)
		}
		return catalog.EmptyFallback(catalog.OutcomeUnreadable, fmt.Errorf("%w: %w", ErrReadFailed, err))
	}

	var doc Document
	if err := r.codec.Unmarshal(data, &doc); err != nil {
		return catalog.EmptyFallback(catalog.OutcomeInvalid, fmt.Errorf("%w: decode: %w", ErrFormatInvalid, err))
	}

	if err := r.validator.Struct(&doc); err != nil {
		return catalog.EmptyFallback(catalog.OutcomeInvalid, fmt.Errorf("%w: validate: %w", ErrFormatInvalid, err))
	}

	books, err := doc.ToBooks()
	if err != nil {
		return catalog.EmptyFallback(catalog.OutcomeInvalid, fmt.Errorf("%w: %w", ErrFormatInvalid, err))
	}

	return catalog.Loaded(books)
}

// Save validates and writes the whole catalog atomically to disk.
func (r *FileRepository) Save(books []catalog.Book) error {
	doc := NewDocument(books)
	if err := r.validator.Struct(&doc); err != nil {
		return fmt.Errorf("validate before save: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveUnlocked(&doc)
}

// saveUnlocked writes the document without acquiring the lock (caller must hold it).
func (r *FileRepository) saveUnlocked(doc *Document) error {
	payload, err := r.codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(r.dir, r.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), r.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	return nil
}

// StartWatcher reloads the file after changes and passes the result to onChange.
// It watches the parent directory (not the file) so atomic replace sequences
// (temp+rename) are still observed. Events are filtered by basename and
// debounced so a write+chmod/rename burst triggers a single reload. Cancel ctx
// to stop the goroutine and close the watcher.
func (r *FileRepository) StartWatcher(ctx context.Context, onChange func(catalog.LoadResult)) error {
	if onChange == nil {
		return errors.New("onChange callback is required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	reload := func() {
		onChange(r.Load())
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		schedule := func() {
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, reload)
		}
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != r.base {
					continue
				}
				// Remove/Rename means the file was replaced; the reload sees whatever is there now.
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod|fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithComponent("repository").Warnf("watcher error: %v", err)
			}
		}
	}()

	return nil
}
