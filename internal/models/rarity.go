package models

import (
	"errors"
	"fmt"
)

// ErrInvalidRarity is returned when a rarity code is not N, R, SR or SSR.
var ErrInvalidRarity = errors.New("invalid rarity")

// Rarity is the four-value classification attached to equipment.
type Rarity string

// Rarity codes.
const (
	RarityN   Rarity = "N"
	RarityR   Rarity = "R"
	RaritySR  Rarity = "SR"
	RaritySSR Rarity = "SSR"
)

// ParseRarity validates a raw rarity code. Matching is exact and case-sensitive.
func ParseRarity(code string) (Rarity, error) {
	switch r := Rarity(code); r {
	case RarityN, RarityR, RaritySR, RaritySSR:
		return r, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidRarity, code)
}

// MarshalText emits the literal code.
func (r Rarity) MarshalText() ([]byte, error) {
	if _, err := ParseRarity(string(r)); err != nil {
		return nil, err
	}

	return []byte(r), nil
}

// UnmarshalText parses a literal code.
func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := ParseRarity(string(text))
	if err != nil {
		return err
	}

	*r = parsed

	return nil
}
