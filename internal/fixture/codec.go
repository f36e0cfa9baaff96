// Package fixture reads and writes the bulk book format: a JSON array of
// book records carrying their own ids.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/mrlokans/readinglist/internal/entities"
)

// MaxSize bounds how much of a fixture document is read.
const MaxSize = 16 << 20

// ErrMalformed wraps every decode failure.
var ErrMalformed = errors.New("malformed fixture")

var codec = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// Decode reads a whole fixture document. A document that is not a JSON
// array of books, carries unknown fields or has trailing data is rejected
// as a whole; no partial result is returned.
func Decode(r io.Reader) ([]entities.Book, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(data []byte) ([]entities.Book, error) {
	if len(data) > MaxSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrMalformed, MaxSize)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformed)
	}

	var books []entities.Book
	if err := codec.Unmarshal(trimmed, &books); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if books == nil {
		books = []entities.Book{}
	}
	return books, nil
}

// Encode writes books as an indented fixture document.
func Encode(w io.Writer, books []entities.Book) error {
	if books == nil {
		books = []entities.Book{}
	}
	data, err := codec.MarshalIndent(books, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	return nil
}
