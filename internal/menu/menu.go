// Package menu implements the interactive text front end of the catalog.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/bassista/go_library/internal/catalog"
)

// Catalog is the set of catalog operations the menu drives.
type Catalog interface {
	Add(title, author string) error
	List() (iter.Seq[catalog.Book], error)
	Search(keyword string) ([]catalog.Book, error)
	Issue(title string) (civil.Date, error)
	Return(title string) (int64, error)
}

const (
	choiceAdd = iota + 1
	choiceView
	choiceSearch
	choiceIssue
	choiceReturn
	choiceExit
)

// Menu reads choices from in and prints results to out.
type Menu struct {
	lib      Catalog
	in       *bufio.Scanner
	out      io.Writer
	currency string
}

// New creates a menu over lib. currency prefixes fine amounts.
func New(lib Catalog, in io.Reader, out io.Writer, currency string) *Menu {
	return &Menu{lib: lib, in: bufio.NewScanner(in), out: out, currency: currency}
}

// Run loops until the exit choice or end of input.
func (m *Menu) Run() error {
	for {
		m.printChoices()
		line, ok := m.prompt("Enter choice: ")
		if !ok {
			m.println("\nExiting... Goodbye!")
			return m.in.Err()
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			m.println("Invalid choice.")
			continue
		}

		switch choice {
		case choiceAdd:
			title, ok := m.prompt("Enter Title: ")
			if !ok {
				continue
			}
			author, ok := m.prompt("Enter Author: ")
			if !ok {
				continue
			}
			m.Add(title, author)
		case choiceView:
			m.View()
		case choiceSearch:
			if keyword, ok := m.prompt("Enter keyword to search: "); ok {
				m.Search(keyword)
			}
		case choiceIssue:
			if title, ok := m.prompt("Enter title to issue: "); ok {
				m.Issue(title)
			}
		case choiceReturn:
			if title, ok := m.prompt("Enter title to return: "); ok {
				m.Return(title)
			}
		case choiceExit:
			m.println("Exiting... Goodbye!")
			return nil
		default:
			m.println("Invalid choice.")
		}
	}
}

func (m *Menu) Add(title, author string) {
	err := m.lib.Add(title, author)
	m.println("Book added successfully.")
	m.warnIfUnsaved(err)
}

func (m *Menu) View() {
	books, err := m.lib.List()
	if errors.Is(err, catalog.ErrNoRecords) {
		m.println("No books in the library.")
		return
	}
	m.render(books)
}

func (m *Menu) Search(keyword string) {
	found, err := m.lib.Search(keyword)
	if errors.Is(err, catalog.ErrNoMatches) {
		m.println("No matching books found.")
		return
	}
	m.render(slices.Values(found))
}

func (m *Menu) Issue(title string) {
	due, err := m.lib.Issue(title)
	if errors.Is(err, catalog.ErrBookUnavailable) {
		m.println("Book not available or already issued.")
		return
	}
	m.println("Book issued. Due date: " + due.String())
	m.warnIfUnsaved(err)
}

func (m *Menu) Return(title string) {
	fine, err := m.lib.Return(title)
	if errors.Is(err, catalog.ErrBookNotIssued) {
		m.println("Book not found or not issued.")
		return
	}
	m.println("Book returned.")
	if fine > 0 {
		m.println(fmt.Sprintf("Fine: %s%d", m.currency, fine))
	} else {
		m.println("No fine.")
	}
	m.warnIfUnsaved(err)
}

func (m *Menu) printChoices() {
	m.println("\n--- Library Menu ---")
	m.println("1. Add Book")
	m.println("2. View Books")
	m.println("3. Search Book")
	m.println("4. Issue Book")
	m.println("5. Return Book")
	m.println("6. Exit")
}

// prompt prints label and reads one line; ok is false at end of input.
func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) render(books iter.Seq[catalog.Book]) {
	if err := RenderBooks(m.out, books); err != nil {
		m.println("Error: " + err.Error())
	}
}

func (m *Menu) warnIfUnsaved(err error) {
	if err != nil {
		m.println("Warning: error saving books: " + err.Error())
	}
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}
