// Package render projects a library snapshot into the two shelves shown on
// the page. It never touches the store.
package render

import (
	"strconv"

	"github.com/mrlokans/readinglist/internal/entities"
)

// Shelves is the unread/read partition of a library snapshot.
// Both slices keep the snapshot's relative order.
type Shelves struct {
	Unread []entities.Book `json:"unread"`
	Read   []entities.Book `json:"read"`
}

// Partition splits books on their Completed flag. Every book lands on exactly
// one shelf.
func Partition(books []entities.Book) Shelves {
	s := Shelves{
		Unread: make([]entities.Book, 0, len(books)),
		Read:   make([]entities.Book, 0),
	}
	for _, b := range books {
		if b.Completed {
			s.Read = append(s.Read, b)
		} else {
			s.Unread = append(s.Unread, b)
		}
	}
	return s
}

// HasUnread reports whether the unread shelf should be shown.
func (s Shelves) HasUnread() bool { return len(s.Unread) > 0 }

// HasRead reports whether the read shelf should be shown.
func (s Shelves) HasRead() bool { return len(s.Read) > 0 }

// Total is the number of books across both shelves.
func (s Shelves) Total() int { return len(s.Unread) + len(s.Read) }

// FormatRating renders a rating with one decimal, e.g. "4.8".
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}
