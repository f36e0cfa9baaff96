// Package forms turns raw request fields into validated book payloads.
// A failed parse returns *ValidationError and never touches the library.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError maps field names (as they appear in the form or JSON body)
// to human readable problems.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid book: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

const (
	ruleText   = "required"
	rulePages  = "gte=0"
	ruleRating = "gte=0,lte=5"
)

// bookRules carries the constraints for a complete book.
type bookRules struct {
	Title  string  `json:"title" validate:"required"`
	Author string  `json:"author" validate:"required"`
	Pages  int     `json:"pages" validate:"gte=0"`
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`
}

func checkStruct(rules bookRules, verr *ValidationError) {
	err := getValidator().Struct(rules)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("book", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		verr.add(fe.Field(), describe(fe.Tag(), fe.Param()))
	}
}

func checkVar(field string, value any, rule string, verr *ValidationError) {
	err := getValidator().Var(value, rule)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		verr.add(field, describe(fieldErrs[0].Tag(), fieldErrs[0].Param()))
		return
	}
	verr.add(field, err.Error())
}

func describe(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", param)
	case "lte":
		return fmt.Sprintf("must be at most %s", param)
	default:
		return "is invalid"
	}
}
