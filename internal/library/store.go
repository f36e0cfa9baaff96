// Package library owns the reading list: an ordered collection of books with
// create, update, toggle, delete and bulk-load operations.
//
// The Store is the single source of truth. It hands out copies only, so the
// sole way to change a book is through a Store method.
package library

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mrlokans/readinglist/internal/entities"
)

// LoadMode selects how BulkLoad combines a batch with the current collection.
type LoadMode string

const (
	// LoadModeMerge replaces books whose id is already present (in place) and
	// appends the rest in batch order.
	LoadModeMerge LoadMode = "merge"
	// LoadModeReplace makes the collection exactly the batch.
	LoadModeReplace LoadMode = "replace"
)

// ParseLoadMode maps "", "merge" and "replace" to a LoadMode.
func ParseLoadMode(s string) (LoadMode, bool) {
	switch LoadMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", LoadModeMerge:
		return LoadModeMerge, true
	case LoadModeReplace:
		return LoadModeReplace, true
	}
	return "", false
}

// LoadResult summarises what a bulk load changed.
type LoadResult struct {
	Created  int `json:"created"`
	Replaced int `json:"replaced"`
	Removed  int `json:"removed"`
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the identifier source (uuid v4 by default).
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// Store is an ordered in-memory collection of books. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	books   []entities.Book
	index   map[string]int
	retired map[string]struct{}
	newID   func() string
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		index:   make(map[string]int),
		retired: make(map[string]struct{}),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create appends a book built from an already validated payload and returns it
// with its freshly assigned id.
func (s *Store) Create(input entities.BookInput) entities.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := entities.NewBook(s.freshID(), input)
	s.index[book.ID] = len(s.books)
	s.books = append(s.books, book)
	return book
}

// freshID returns an id that is neither live nor previously deleted.
// Callers must hold the write lock.
func (s *Store) freshID() string {
	for {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, live := s.index[id]; live {
			continue
		}
		if _, used := s.retired[id]; used {
			continue
		}
		return id
	}
}

// Update overlays patch onto the book with the given id, keeping its position.
func (s *Store) Update(id string, patch entities.BookPatch) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return entities.Book{}, notFound(id)
	}
	patch.Apply(&s.books[pos])
	return s.books[pos], nil
}

// ToggleRead flips the completed flag of the book with the given id.
func (s *Store) ToggleRead(id string) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return entities.Book{}, notFound(id)
	}
	s.books[pos].Completed = !s.books[pos].Completed
	return s.books[pos], nil
}

// Delete removes the book with the given id. Its id is never handed out again.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return notFound(id)
	}
	s.books = append(s.books[:pos], s.books[pos+1:]...)
	delete(s.index, id)
	s.retired[id] = struct{}{}
	for i := pos; i < len(s.books); i++ {
		s.index[s.books[i].ID] = i
	}
	return nil
}

// Find looks a book up by id.
func (s *Store) Find(id string) (entities.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return entities.Book{}, false
	}
	return s.books[pos], true
}

// All returns a snapshot of the collection in order. The slice is a copy.
func (s *Store) All() []entities.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Len returns the number of books.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// BulkLoad applies a batch of books that carry their own ids. The batch is
// checked as a whole first; if any item is invalid a *BatchError is returned
// and the collection is left untouched.
func (s *Store) BulkLoad(batch []entities.Book, mode LoadMode) (LoadResult, error) {
	if err := ValidateBatch(batch); err != nil {
		return LoadResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == LoadModeReplace {
		return s.replaceAll(batch), nil
	}

	var result LoadResult
	for _, b := range batch {
		if pos, ok := s.index[b.ID]; ok {
			s.books[pos] = b
			result.Replaced++
			continue
		}
		s.index[b.ID] = len(s.books)
		s.books = append(s.books, b)
		delete(s.retired, b.ID)
		result.Created++
	}
	return result, nil
}

// replaceAll swaps the whole collection for batch. Callers must hold the write lock.
func (s *Store) replaceAll(batch []entities.Book) LoadResult {
	incoming := make(map[string]struct{}, len(batch))
	for _, b := range batch {
		incoming[b.ID] = struct{}{}
	}

	var result LoadResult
	for _, b := range s.books {
		if _, kept := incoming[b.ID]; kept {
			result.Replaced++
			continue
		}
		s.retired[b.ID] = struct{}{}
		result.Removed++
	}
	result.Created = len(batch) - result.Replaced

	s.books = make([]entities.Book, 0, len(batch))
	s.index = make(map[string]int, len(batch))
	for _, b := range batch {
		s.index[b.ID] = len(s.books)
		s.books = append(s.books, b)
		delete(s.retired, b.ID)
	}
	return result
}

// ValidateBatch checks every item of a bulk-load batch and reports all problems at once.
func ValidateBatch(batch []entities.Book) error {
	var problems []BatchProblem
	seen := make(map[string]int, len(batch))
	for i, b := range batch {
		add := func(reason string) {
			problems = append(problems, BatchProblem{Index: i, ID: b.ID, Reason: reason})
		}
		if strings.TrimSpace(b.ID) == "" {
			add("id is required")
		} else if first, dup := seen[b.ID]; dup {
			add("duplicate id (first seen at item " + strconv.Itoa(first) + ")")
		} else {
			seen[b.ID] = i
		}
		if strings.TrimSpace(b.Title) == "" {
			add("title is required")
		}
		if strings.TrimSpace(b.Author) == "" {
			add("author is required")
		}
		if b.Pages < 0 {
			add("pages must not be negative")
		}
		if math.IsNaN(b.Rating) || b.Rating < 0 || b.Rating > entities.MaxRating {
			add("rating must be between 0 and 5")
		}
	}
	if len(problems) > 0 {
		return &BatchError{Problems: problems}
	}
	return nil
}
