// Package models defines the record shapes produced by the converter.
package models

import "fmt"

// Kind selects which record shape a run produces.
type Kind int

// Record kinds.
const (
	KindItem Kind = iota + 1
	KindStudent
	KindEquipment
)

// Kinds lists every recognized kind in CLI order.
var Kinds = []Kind{KindItem, KindStudent, KindEquipment}

// ConfigError reports a kind selector that is not one of the recognized kinds.
type ConfigError struct {
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid data type: %q (want item, student or equipment)", e.Value)
}

// ParseKind maps a selector string to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "item":
		return KindItem, nil
	case "student":
		return KindStudent, nil
	case "equipment":
		return KindEquipment, nil
	}

	return 0, &ConfigError{Value: s}
}

// String returns the selector spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindStudent:
		return "student"
	case KindEquipment:
		return "equipment"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool {
	return k >= KindItem && k <= KindEquipment
}
