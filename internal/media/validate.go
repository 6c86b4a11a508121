package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidationError reports user input that was rejected before generation.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RangeRequest describes a season range for template generation.
type RangeRequest struct {
	StartSeason       int `validate:"gte=0,ltefield=EndSeason"`
	EndSeason         int `validate:"gte=0"`
	EpisodesPerSeason int `validate:"gte=1"`
}

// Validate checks the season bounds and per-season count.
func (r RangeRequest) Validate() error {
	err := validatorInstance().Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "range", Message: err.Error()}
	}

	fe := fieldErrs[0]
	ve := &ValidationError{Field: fieldName(fe.Field()), Value: fmt.Sprint(fe.Value())}
	switch fe.Tag() {
	case "ltefield":
		ve.Message = "start season cannot be greater than end season"
	case "gte":
		ve.Message = "must be at least " + fe.Param()
	default:
		ve.Message = "failed " + fe.Tag() + " check"
	}
	return ve
}

// ParseCount parses a user supplied episode count. Non-numeric and
// non-positive values are rejected.
func ParseCount(field, raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Message: "must be a whole number"}
	}
	if n < 1 {
		return 0, &ValidationError{Field: field, Value: raw, Message: "must be at least 1"}
	}
	return n, nil
}

// ParseSeason parses a season number. Season 0 is allowed for specials.
func ParseSeason(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Message: "must be a whole number"}
	}
	if n < 0 {
		return 0, &ValidationError{Field: field, Value: raw, Message: "must be at least 0"}
	}
	return n, nil
}

func validateTotal(total int) error {
	if total < 1 {
		return &ValidationError{Field: "episode count", Value: strconv.Itoa(total), Message: "must be at least 1"}
	}
	return nil
}

func fieldName(structField string) string {
	switch structField {
	case "StartSeason":
		return "start season"
	case "EndSeason":
		return "end season"
	case "EpisodesPerSeason":
		return "episodes per season"
	default:
		return structField
	}
}
