package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassista/go_library/internal/catalog"
)

var due = civil.Date{Year: 2025, Month: time.April, Day: 1}

func createTestBooks() []catalog.Book {
	return []catalog.Book{
		{Title: "Dune", Author: "Herbert"},
		{Title: "1984", Author: "Orwell", Issued: true, DueDate: due},
		{Title: "", Author: ""},
	}
}

func TestNewFileRepository_Success(t *testing.T) {
	repo, err := NewFileRepository("/tmp/test-library.json", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo == nil {
		t.Error("expected repository to be created")
	}
}

func TestNewFileRepository_EmptyPath(t *testing.T) {
	_, err := NewFileRepository("", FormatJSON)
	if err == nil {
		t.Error("expected error for empty path")
	}
}

func TestNewFileRepository_UnknownFormat(t *testing.T) {
	_, err := NewFileRepository("/tmp/library.dat", Format("xml"))
	if err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFileRepository_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		format Format
		books  []catalog.Book
	}{
		{"json", "library.json", "", createTestBooks()},
		{"yaml by extension", "library.yaml", "", createTestBooks()},
		{"yaml explicit", "library.dat", FormatYAML, createTestBooks()},
		{"empty catalog json", "library.json", "", []catalog.Book{}},
		{"empty catalog yaml", "library.yml", "", []catalog.Book{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			repo, err := NewFileRepository(path, tt.format)
			require.NoError(t, err)

			require.NoError(t, repo.Save(tt.books))

			res := repo.Load()
			require.NoError(t, res.Err)
			assert.Equal(t, catalog.OutcomeLoaded, res.Outcome)
			assert.True(t, catalog.Equal(tt.books, res.Books), "expected %+v, got %+v", tt.books, res.Books)
		})
	}
}

func TestFileRepository_SaveWritesVersionedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	repo, err := NewFileRepository(path, FormatJSON)
	require.NoError(t, err)

	require.NoError(t, repo.Save(createTestBooks()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, jsonAPI.Unmarshal(data, &doc))
	assert.Equal(t, SchemaVersion, doc.Version)
	require.Len(t, doc.Books, 3)
	assert.Equal(t, "", doc.Books[0].DueDate)
	assert.Equal(t, "2025-04-01", doc.Books[1].DueDate)
	assert.NotContains(t, string(data), `"dueDate": ""`)
}

func TestFileRepository_SaveCreatesDirectoryAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	path := filepath.Join(dir, "library.json")
	repo, err := NewFileRepository(path, "")
	require.NoError(t, err)

	require.NoError(t, repo.Save(createTestBooks()))
	require.NoError(t, repo.Save(createTestBooks()[:1]))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "library.json", entries[0].Name())

	res := repo.Load()
	assert.Len(t, res.Books, 1)
}

func TestFileRepository_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	repo, err := NewFileRepository(filepath.Join(blocker, "library.json"), "")
	require.NoError(t, err)

	assert.Error(t, repo.Save(createTestBooks()))
}

func TestFileRepository_Load_FileNotFound(t *testing.T) {
	repo, _ := NewFileRepository("/nonexistent/path/library.json", "")
	res := repo.Load()

	assert.Equal(t, catalog.OutcomeNoFile, res.Outcome)
	assert.NoError(t, res.Err)
	assert.Empty(t, res.Books)
	assert.False(t, res.Fallback())
}

func TestFileRepository_Load_Unreadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory read semantics differ on windows")
	}
	// Reading a directory fails with an I/O error rather than not-exist.
	path := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	repo, _ := NewFileRepository(path, "")
	res := repo.Load()

	assert.Equal(t, catalog.OutcomeUnreadable, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrReadFailed)
	assert.Empty(t, res.Books)
	assert.True(t, res.Fallback())
}

func TestFileRepository_Load_InvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"garbage json", "library.json", "not valid json"},
		{"empty file", "library.json", ""},
		{"binary junk", "library.json", "\xac\xed\x00\x05sr\x00\x13java.util.ArrayList"},
		{"missing version", "library.json", `{"books":[{"title":"Dune","author":"Herbert","issued":false}]}`},
		{"future version", "library.json", `{"version":2,"books":[]}`},
		{"issued without due date", "library.json", `{"version":1,"books":[{"title":"Dune","issued":true}]}`},
		{"due date on available book", "library.json", `{"version":1,"books":[{"title":"Dune","issued":false,"dueDate":"2025-01-01"}]}`},
		{"malformed due date", "library.json", `{"version":1,"books":[{"title":"Dune","issued":true,"dueDate":"01/02/2025"}]}`},
		{"wrong field type", "library.json", `{"version":1,"books":[{"title":42}]}`},
		{"yaml garbage", "library.yaml", "::: not yaml ["},
		{"yaml foreign document", "library.yaml", "name: something else\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			repo, err := NewFileRepository(path, "")
			require.NoError(t, err)

			res := repo.Load()
			assert.Equal(t, catalog.OutcomeInvalid, res.Outcome)
			assert.ErrorIs(t, res.Err, ErrFormatInvalid)
			assert.NotNil(t, res.Books)
			assert.Empty(t, res.Books)
		})
	}
}

func TestFileRepository_Load_HandWrittenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	content := strings.Join([]string{
		"version: 1",
		"books:",
		"  - title: The Hobbit",
		"    author: Tolkien",
		"    issued: true",
		"    dueDate: \"2025-04-01\"",
		"  - title: Dune",
		"    author: Herbert",
		"    issued: false",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo, _ := NewFileRepository(path, "")
	res := repo.Load()
	require.NoError(t, res.Err)

	want := []catalog.Book{
		{Title: "The Hobbit", Author: "Tolkien", Issued: true, DueDate: due},
		{Title: "Dune", Author: "Herbert"},
	}
	assert.Equal(t, want, res.Books)
}

func TestFileRepository_StartWatcher_NilCallback(t *testing.T) {
	repo, _ := NewFileRepository(filepath.Join(t.TempDir(), "library.json"), "")
	err := repo.StartWatcher(context.Background(), nil)
	if err == nil {
		t.Error("expected error for nil callback")
	}
}

func TestFileRepository_StartWatcher_ReloadsOnReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	repo, err := NewFileRepository(path, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan catalog.LoadResult, 8)
	require.NoError(t, repo.StartWatcher(ctx, func(res catalog.LoadResult) {
		results <- res
	}))

	writer, err := NewFileRepository(path, "")
	require.NoError(t, err)
	require.NoError(t, writer.Save(createTestBooks()))

	select {
	case res := <-results:
		assert.Equal(t, catalog.OutcomeLoaded, res.Outcome)
		assert.Len(t, res.Books, 3)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher reload")
	}
}

func TestFileRepository_StartWatcher_BadDir(t *testing.T) {
	repo, _ := NewFileRepository("/nonexistent/dir/library.json", "")
	err := repo.StartWatcher(context.Background(), func(catalog.LoadResult) {})
	if err == nil {
		t.Error("expected error watching a missing directory")
	}
	if errors.Is(err, context.Canceled) {
		t.Error("unexpected cancellation error")
	}
}
