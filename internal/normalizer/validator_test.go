package normalizer

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"schaledb/internal/document"
	"schaledb/internal/models"
)

func TestIntField(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{name: "Numeric string", value: "10", want: 10},
		{name: "Padded string", value: " 42 ", want: 42},
		{name: "Signed string", value: "-7", want: -7},
		{name: "JSON integer", value: json.Number("5"), want: 5},
		{name: "Integral float", value: json.Number("3.0"), want: 3},
		{name: "Exponent", value: json.Number("1e3"), want: 1000},
		{name: "Plain float64", value: float64(8), want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intField(document.Fields{FieldID: tt.value}, FieldID)
			if err != nil {
				t.Fatalf("intField returned unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("intField = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIntField_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fields  document.Fields
		wantErr error
	}{
		{name: "Missing", fields: document.Fields{}, wantErr: ErrMissingField},
		{name: "Word", fields: document.Fields{FieldID: "ten"}, wantErr: ErrNotInteger},
		{name: "Decimal string", fields: document.Fields{FieldID: "3.5"}, wantErr: ErrNotInteger},
		{name: "Empty string", fields: document.Fields{FieldID: ""}, wantErr: ErrNotInteger},
		{name: "Fraction", fields: document.Fields{FieldID: json.Number("2.5")}, wantErr: ErrNotInteger},
		{name: "Overflow", fields: document.Fields{FieldID: json.Number("1e300")}, wantErr: ErrNotInteger},
		{name: "Boolean", fields: document.Fields{FieldID: true}, wantErr: ErrWrongType},
		{name: "Null", fields: document.Fields{FieldID: nil}, wantErr: ErrWrongType},
		{name: "Object", fields: document.Fields{FieldID: map[string]any{}}, wantErr: ErrWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := intField(tt.fields, FieldID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("intField error = %v, want %v", err, tt.wantErr)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("intField error %T is not *ValidationError", err)
			}

			if verr.Field != FieldID {
				t.Errorf("ValidationError.Field = %s, want %s", verr.Field, FieldID)
			}
		})
	}
}

func TestIntField_KeysAreCaseSensitive(t *testing.T) {
	_, err := intField(document.Fields{"id": "1", "ID": "2"}, FieldID)
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("intField error = %v, want ErrMissingField", err)
	}
}

func TestStringField(t *testing.T) {
	got, err := stringField(document.Fields{FieldName: "  Potion "}, FieldName)
	if err != nil {
		t.Fatalf("stringField returned unexpected error: %v", err)
	}

	if got != "  Potion " {
		t.Errorf("stringField = %q, want value copied verbatim", got)
	}

	_, err = stringField(document.Fields{FieldName: json.Number("1")}, FieldName)
	if !errors.Is(err, ErrWrongType) {
		t.Errorf("stringField error = %v, want ErrWrongType", err)
	}

	if !strings.Contains(err.Error(), `field "Name"`) {
		t.Errorf("error message %q does not name the field", err)
	}
}

func TestRarityField(t *testing.T) {
	for _, code := range []string{"N", "R", "SR", "SSR"} {
		got, err := rarityField(document.Fields{FieldRarity: code}, FieldRarity)
		if err != nil {
			t.Errorf("rarityField(%s) returned unexpected error: %v", code, err)
		}

		if string(got) != code {
			t.Errorf("rarityField(%s) = %s", code, got)
		}
	}

	for _, bad := range []any{"UR", "ssr", " SR", "", json.Number("3"), nil} {
		_, err := rarityField(document.Fields{FieldRarity: bad}, FieldRarity)
		if !errors.Is(err, models.ErrInvalidRarity) {
			t.Errorf("rarityField(%#v) error = %v, want ErrInvalidRarity", bad, err)
		}
	}
}
