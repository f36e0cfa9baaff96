package library

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBookNotFound is returned by Update, ToggleRead and Delete when no book has the given id.
var ErrBookNotFound = errors.New("book not found")

// BatchProblem describes one rejected item of a bulk load.
type BatchProblem struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// BatchError is returned by BulkLoad when the batch is rejected. Nothing from
// the batch has been applied.
type BatchError struct {
	Problems []BatchProblem
}

func (e *BatchError) Error() string {
	if len(e.Problems) == 1 {
		p := e.Problems[0]
		return fmt.Sprintf("invalid batch: item %d: %s", p.Index, p.Reason)
	}
	reasons := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		reasons = append(reasons, fmt.Sprintf("item %d: %s", p.Index, p.Reason))
	}
	return fmt.Sprintf("invalid batch (%d problems): %s", len(e.Problems), strings.Join(reasons, "; "))
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrBookNotFound, id)
}
