package entities

// MaxRating is the upper bound of the rating scale. Ratings are kept in [0, MaxRating].
const MaxRating = 5.0

// Book is a single tracked title with its read-status flag.
// Books are owned by library.Store; code outside the store only sees copies.
type Book struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Year      int     `json:"year"`
	Pages     int     `json:"pages"`
	Rating    float64 `json:"rating"`
	Completed bool    `json:"completed"`
}

// BookInput is a validated create payload. Rating and Completed default to
// their zero values when the source omits them.
type BookInput struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Year      int     `json:"year"`
	Pages     int     `json:"pages"`
	Rating    float64 `json:"rating"`
	Completed bool    `json:"completed"`
}

// BookPatch is a typed partial update. Nil fields are left untouched.
type BookPatch struct {
	Title     *string
	Author    *string
	Year      *int
	Pages     *int
	Rating    *float64
	Completed *bool
}

// NewBook builds a Book with the given identifier from validated input.
func NewBook(id string, input BookInput) Book {
	return Book{
		ID:        id,
		Title:     input.Title,
		Author:    input.Author,
		Year:      input.Year,
		Pages:     input.Pages,
		Rating:    input.Rating,
		Completed: input.Completed,
	}
}

// Apply overlays the non-nil patch fields onto b. The identifier never changes.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
	if p.Pages != nil {
		b.Pages = *p.Pages
	}
	if p.Rating != nil {
		b.Rating = *p.Rating
	}
	if p.Completed != nil {
		b.Completed = *p.Completed
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Year == nil &&
		p.Pages == nil && p.Rating == nil && p.Completed == nil
}

// Input returns the book's fields as a create payload.
func (b Book) Input() BookInput {
	return BookInput{
		Title:     b.Title,
		Author:    b.Author,
		Year:      b.Year,
		Pages:     b.Pages,
		Rating:    b.Rating,
		Completed: b.Completed,
	}
}
