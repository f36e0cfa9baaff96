package forms

import (
	"strconv"
	"strings"

	"github.com/mrlokans/readinglist/internal/entities"
)

// BookForm holds the raw fields posted by the HTML add and edit forms.
type BookForm struct {
	Title     string `form:"title"`
	Author    string `form:"author"`
	Year      string `form:"year"`
	Pages     string `form:"pages"`
	Rating    string `form:"rating"`
	Completed string `form:"completed"`
}

// Parse validates the form as a complete book. Year and pages are required;
// an empty rating defaults to zero and an unchecked checkbox means unread.
func (f BookForm) Parse() (entities.BookInput, error) {
	verr := &ValidationError{}

	input := entities.BookInput{
		Title:     strings.TrimSpace(f.Title),
		Author:    strings.TrimSpace(f.Author),
		Year:      parseRequiredInt("year", f.Year, verr),
		Pages:     parseRequiredInt("pages", f.Pages, verr),
		Rating:    parseFloat("rating", f.Rating, verr),
		Completed: ParseCheckbox(f.Completed),
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

// ParsePatch validates the edit form. The edit form always posts every
// field, so the patch sets all of them.
func (f BookForm) ParsePatch() (entities.BookPatch, error) {
	input, err := f.Parse()
	if err != nil {
		return entities.BookPatch{}, err
	}
	return FullPatch(input), nil
}

// FullPatch returns a patch that overwrites every mutable field with input.
func FullPatch(input entities.BookInput) entities.BookPatch {
	return entities.BookPatch{
		Title:     &input.Title,
		Author:    &input.Author,
		Year:      &input.Year,
		Pages:     &input.Pages,
		Rating:    &input.Rating,
		Completed: &input.Completed,
	}
}

// ParseCheckbox reports whether a checkbox value means "checked".
func ParseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func parseRequiredInt(field, raw string, verr *ValidationError) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.add(field, "is required")
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.add(field, "must be a whole number")
		return 0
	}
	return n
}

func parseFloat(field, raw string, verr *ValidationError) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		verr.add(field, "must be a number")
		return 0
	}
	return v
}
