package forms

import (
	"strings"

	"github.com/mrlokans/readinglist/internal/entities"
)

// BookPayload is the JSON body accepted by the books API. Pointer fields
// distinguish "absent" from "zero" so the same type serves create and patch.
type BookPayload struct {
	Title     *string  `json:"title"`
	Author    *string  `json:"author"`
	Year      *int     `json:"year"`
	Pages     *int     `json:"pages"`
	Rating    *float64 `json:"rating"`
	Completed *bool    `json:"completed"`
}

// Parse validates the payload as a complete book. Rating and completed may
// be omitted.
func (p BookPayload) Parse() (entities.BookInput, error) {
	input := entities.BookInput{
		Title:     trimmed(p.Title),
		Author:    trimmed(p.Author),
		Year:      deref(p.Year),
		Pages:     deref(p.Pages),
		Rating:    deref(p.Rating),
		Completed: deref(p.Completed),
	}

	verr := &ValidationError{}
	if p.Year == nil {
		verr.add("year", "is required")
	}
	if p.Pages == nil {
		verr.add("pages", "is required")
	}
	checkStruct(bookRules{
		Title:  input.Title,
		Author: input.Author,
		Pages:  input.Pages,
		Rating: input.Rating,
	}, verr)
	if err := verr.orNil(); err != nil {
		return entities.BookInput{}, err
	}
	return input, nil
}

// ParsePatch validates only the fields present in the payload. A payload
// with no fields is rejected.
func (p BookPayload) ParsePatch() (entities.BookPatch, error) {
	verr := &ValidationError{}
	var patch entities.BookPatch

	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		checkVar("title", v, ruleText, verr)
		patch.Title = &v
	}
	if p.Author != nil {
		v := strings.TrimSpace(*p.Author)
		checkVar("author", v, ruleText, verr)
		patch.Author = &v
	}
	if p.Pages != nil {
		checkVar("pages", *p.Pages, rulePages, verr)
	}
	if p.Rating != nil {
		checkVar("rating", *p.Rating, ruleRating, verr)
	}
	patch.Year = p.Year
	patch.Pages = p.Pages
	patch.Rating = p.Rating
	patch.Completed = p.Completed

	if patch.IsEmpty() {
		verr.add("book", "no fields to update")
	}
	if err := verr.orNil(); err != nil {
		return entities.BookPatch{}, err
	}
	return patch, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
