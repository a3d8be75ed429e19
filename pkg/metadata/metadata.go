// Package metadata describes a finished conversion run.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verification errors.
var (
	ErrNoHashFound  = errors.New("no hash found in metadata")
	ErrHashMismatch = errors.New("hash mismatch")
)

// Metadata identifies one run and the output it produced.
type Metadata struct {
	RunID      string    `json:"runId"`
	Kind       string    `json:"kind"`
	Source     string    `json:"source"`
	Output     string    `json:"output"`
	Hash       string    `json:"hash"`
	Count      int       `json:"count"`
	Skipped    int       `json:"skipped"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// New starts metadata for a run with a fresh random ID.
func New(kind, source, output string) *Metadata {
	return &Metadata{
		RunID:     uuid.NewString(),
		Kind:      kind,
		Source:    source,
		Output:    output,
		StartedAt: time.Now().UTC(),
	}
}

// CalculateHash computes the hex SHA-256 of content.
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}

// Finish records the written bytes and counts.
func (m *Metadata) Finish(content []byte, count, skipped int) {
	m.Hash = CalculateHash(content)
	m.Count = count
	m.Skipped = skipped
	m.FinishedAt = time.Now().UTC()
}

// Verify checks that content matches the recorded hash.
func (m *Metadata) Verify(content []byte) error {
	if m.Hash == "" {
		return ErrNoHashFound
	}

	calculated := CalculateHash(content)
	if calculated != m.Hash {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, m.Hash, calculated)
	}

	return nil
}

// Duration returns the time between start and finish.
func (m *Metadata) Duration() time.Duration {
	if m.FinishedAt.IsZero() {
		return 0
	}

	return m.FinishedAt.Sub(m.StartedAt)
}

// ShortID returns the first block of the run ID for console output.
func (m *Metadata) ShortID() string {
	id, _, _ := strings.Cut(m.RunID, "-")

	return id
}
