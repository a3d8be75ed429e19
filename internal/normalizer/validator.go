package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"schaledb/internal/document"
	"schaledb/internal/models"
)

// Validation errors.
var (
	ErrMissingField = errors.New("missing required field")
	ErrWrongType    = errors.New("unexpected value type")
	ErrNotInteger   = errors.New("value is not an integer")
)

// Source field names. Lookups are case-sensitive.
const (
	FieldID       = "Id"
	FieldName     = "Name"
	FieldCategory = "Category"
	FieldRarity   = "Rarity"
	FieldTier     = "Tier"
	FieldIcon     = "Icon"
)

// ValidationError describes why a single raw record was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

func lookup(f document.Fields, field string) (any, error) {
	v, ok := f[field]
	if !ok {
		return nil, fieldError(field, ErrMissingField)
	}

	return v, nil
}

// intField coerces a JSON integer, an integral JSON number, or a decimal
// integer string.
func intField(f document.Fields, field string) (int, error) {
	v, err := lookup(f, field)
	if err != nil {
		return 0, err
	}

	n, err := toInt(v)
	if err != nil {
		return 0, fieldError(field, err)
	}

	return n, nil
}

// stringField copies a string value verbatim.
func stringField(f document.Fields, field string) (string, error) {
	v, err := lookup(f, field)
	if err != nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", fieldError(field, fmt.Errorf("%w: want string, got %s", ErrWrongType, document.TypeName(v)))
	}

	return s, nil
}

func rarityField(f document.Fields, field string) (models.Rarity, error) {
	v, err := lookup(f, field)
	if err != nil {
		return "", err
	}

	code, ok := v.(string)
	if !ok {
		return "", fieldError(field, fmt.Errorf("%w: got %s", models.ErrInvalidRarity, document.TypeName(v)))
	}

	r, err := models.ParseRarity(code)
	if err != nil {
		return "", fieldError(field, err)
	}

	return r, nil
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case json.Number:
		return numberToInt(x)
	case float64:
		return floatToInt(x, strconv.FormatFloat(x, 'g', -1, 64))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotInteger, x)
		}

		return n, nil
	}

	return 0, fmt.Errorf("%w: want integer, got %s", ErrWrongType, document.TypeName(v))
}

func numberToInt(n json.Number) (int, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 0); err == nil {
		return int(i), nil
	}

	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNotInteger, n)
	}

	return floatToInt(f, n.String())
}

// floatToInt accepts only integral values inside the int range.
func floatToInt(f float64, text string) (int, error) {
	limit := -float64(math.MinInt)
	if math.IsNaN(f) || f != math.Trunc(f) || f < -limit || f >= limit {
		return 0, fmt.Errorf("%w: %s", ErrNotInteger, text)
	}

	return int(f), nil
}
