package menu

import (
	"fmt"
	"io"
	"iter"

	"github.com/olekukonko/tablewriter"

	"github.com/bassista/go_library/internal/catalog"
)

// Status describes a book's lending state for display.
func Status(b catalog.Book) string {
	if b.Issued {
		return fmt.Sprintf("Issued (Due: %s)", b.DueDate)
	}
	return "Available"
}

// RenderBooks writes books as a Title/Author/Status table.
func RenderBooks(w io.Writer, books iter.Seq[catalog.Book]) error {
	table := tablewriter.NewTable(w)
	table.Header("Title", "Author", "Status")

	for b := range books {
		if err := table.Append(b.Title, b.Author, Status(b)); err != nil {
			return err
		}
	}

	return table.Render()
}
