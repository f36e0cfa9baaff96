// Package controller applies user commands to the library and hands back
// the refreshed shelves.
package controller

import (
	"fmt"
	"log"

	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/render"
)

// Command is one of CreateBook, UpdateBook, ToggleRead, DeleteBook or BulkLoad.
type Command interface {
	command() string
}

// CreateBook appends a new book built from validated input.
type CreateBook struct {
	Input entities.BookInput
}

// UpdateBook overlays Patch onto the book with ID, keeping its position.
type UpdateBook struct {
	ID    string
	Patch entities.BookPatch
}

// ToggleRead flips the read flag of the book with ID.
type ToggleRead struct {
	ID string
}

// DeleteBook removes the book with ID.
type DeleteBook struct {
	ID string
}

// BulkLoad applies a whole batch in Mode, all or nothing.
type BulkLoad struct {
	Books []entities.Book
	Mode  library.LoadMode
}

func (CreateBook) command() string { return "create" }
func (UpdateBook) command() string { return "update" }
func (ToggleRead) command() string { return "toggle" }
func (DeleteBook) command() string { return "delete" }
func (BulkLoad) command() string   { return "bulk-load" }

// Outcome is what a dispatched command produced. Book is set for commands
// that touch a single book (zero for DeleteBook); Load is set for BulkLoad.
type Outcome struct {
	Book    entities.Book
	Load    library.LoadResult
	Shelves render.Shelves
}

// Controller is safe for concurrent use; the store does its own locking.
type Controller struct {
	store *library.Store
}

func New(store *library.Store) *Controller {
	return &Controller{store: store}
}

// Store returns the library the controller mutates.
func (c *Controller) Store() *library.Store {
	return c.store
}

// Shelves returns the current projection of the library.
func (c *Controller) Shelves() render.Shelves {
	return render.Partition(c.store.All())
}

// Dispatch applies cmd and re-renders. On error the library is unchanged and
// the returned Outcome still carries the current shelves.
func (c *Controller) Dispatch(cmd Command) (Outcome, error) {
	var (
		out Outcome
		err error
	)

	switch cmd := cmd.(type) {
	case CreateBook:
		out.Book = c.store.Create(cmd.Input)
		log.Printf("Created book %s (%q by %s)", out.Book.ID, out.Book.Title, out.Book.Author)
	case UpdateBook:
		out.Book, err = c.store.Update(cmd.ID, cmd.Patch)
		if err == nil {
			log.Printf("Updated book %s", cmd.ID)
		}
	case ToggleRead:
		out.Book, err = c.store.ToggleRead(cmd.ID)
		if err == nil {
			log.Printf("Marked book %s completed=%t", cmd.ID, out.Book.Completed)
		}
	case DeleteBook:
		err = c.store.Delete(cmd.ID)
		if err == nil {
			log.Printf("Deleted book %s", cmd.ID)
		}
	case BulkLoad:
		out.Load, err = c.store.BulkLoad(cmd.Books, cmd.Mode)
		if err == nil {
			log.Printf("Bulk loaded %d books (%s): created=%d replaced=%d removed=%d",
				len(cmd.Books), cmd.Mode, out.Load.Created, out.Load.Replaced, out.Load.Removed)
		}
	case nil:
		err = fmt.Errorf("nil command")
	default:
		err = fmt.Errorf("unsupported command %T", cmd)
	}

	if err != nil {
		log.Printf("Command %s failed: %v", commandName(cmd), err)
		out.Book = entities.Book{}
		out.Load = library.LoadResult{}
	}
	out.Shelves = c.Shelves()
	return out, err
}

func commandName(cmd Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return cmd.command()
}
