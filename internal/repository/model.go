package repository

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/bassista/go_library/internal/catalog"
)

// SchemaVersion is written into every saved document.
const SchemaVersion = 1

// Document represents the persisted catalog.
type Document struct {
	Version int          `json:"version" yaml:"version" validate:"required,eq=1"`
	Books   []BookRecord `json:"books" yaml:"books" validate:"dive"`
}

// BookRecord models a single persisted book.
type BookRecord struct {
	Title   string `json:"title" yaml:"title"`
	Author  string `json:"author" yaml:"author"`
	Issued  bool   `json:"issued" yaml:"issued"`
	DueDate string `json:"dueDate,omitempty" yaml:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// NewDocument encodes books in catalog order.
func NewDocument(books []catalog.Book) Document {
	doc := Document{Version: SchemaVersion, Books: make([]BookRecord, 0, len(books))}
	for _, b := range books {
		rec := BookRecord{Title: b.Title, Author: b.Author, Issued: b.Issued}
		if b.Issued {
			rec.DueDate = b.DueDate.String()
		}
		doc.Books = append(doc.Books, rec)
	}
	return doc
}

// ToBooks decodes the document, enforcing that a due date is present exactly
// when the book is issued.
func (d *Document) ToBooks() ([]catalog.Book, error) {
	books := make([]catalog.Book, 0, len(d.Books))
	for i, rec := range d.Books {
		b := catalog.Book{Title: rec.Title, Author: rec.Author, Issued: rec.Issued}
		switch {
		case rec.Issued && rec.DueDate == "":
			return nil, fmt.Errorf("book %d (%q): issued without due date", i, rec.Title)
		case !rec.Issued && rec.DueDate != "":
			return nil, fmt.Errorf("book %d (%q): due date on available book", i, rec.Title)
		case rec.Issued:
			due, err := civil.ParseDate(rec.DueDate)
			if err != nil {
				return nil, fmt.Errorf("book %d (%q): %w", i, rec.Title, err)
			}
			b.DueDate = due
		}
		books = append(books, b)
	}
	return books, nil
}
