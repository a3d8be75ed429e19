// Package normalizer validates raw source records and converts them into
// typed records of a single kind.
//
// Invalid records never abort a run: each one is dropped, logged at warn
// level, and reported back in Result.Skipped. Only an unrecognized kind
// selector fails the whole call.
package normalizer

import (
	"fmt"

	"schaledb/internal/document"
	"schaledb/internal/logger"
	"schaledb/internal/models"
)

// Skip records one rejected entry.
type Skip struct {
	Key      string
	Position int
	Err      error
}

// Result is the outcome of normalizing one document into records of type T.
type Result[T models.Record] struct {
	Records []T
	Skipped []Skip
}

// Batch is the kind-erased view of a Result used by the pipeline and sinks.
type Batch interface {
	Kind() models.Kind
	Len() int
	Values() []models.Record
	Skips() []Skip
	// Payload returns the homogeneous slice for serialization.
	Payload() any
}

// Normalize applies build to every entry of obj in document order.
// The returned Records slice is never nil.
func Normalize[T models.Record](obj *document.Object, build Builder[T], log *logger.Logger) Result[T] {
	res := Result[T]{Records: make([]T, 0, obj.Len())}

	for _, entry := range obj.Entries() {
		rec, err := buildEntry(entry, build)
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Key: entry.Key, Position: entry.Position, Err: err})
			log.Warn("skipping invalid entry", "key", entry.Key, "position", entry.Position, "error", err)

			continue
		}

		res.Records = append(res.Records, rec)
	}

	return res
}

func buildEntry[T models.Record](entry document.Entry, build Builder[T]) (T, error) {
	fields, err := entry.Fields()
	if err != nil {
		var zero T

		return zero, &ValidationError{Err: err}
	}

	return build(fields)
}

// Kind implements Batch.
func (r Result[T]) Kind() models.Kind {
	var zero T

	return zero.Kind()
}

// Len implements Batch.
func (r Result[T]) Len() int { return len(r.Records) }

// Skips implements Batch.
func (r Result[T]) Skips() []Skip { return r.Skipped }

// Payload implements Batch.
func (r Result[T]) Payload() any { return r.Records }

// Values implements Batch.
func (r Result[T]) Values() []models.Record {
	out := make([]models.Record, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec
	}

	return out
}

// Processor selects the builder for a record kind.
type Processor struct {
	log *logger.Logger
}

// NewProcessor creates a processor that reports skipped entries to log.
// log may be nil.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{log: log}
}

// Process parses the kind selector and normalizes obj. An unknown selector
// fails with *models.ConfigError before any entry is examined.
func (p *Processor) Process(obj *document.Object, selector string) (Batch, error) {
	kind, err := models.ParseKind(selector)
	if err != nil {
		return nil, fmt.Errorf("normalization aborted: %w", err)
	}

	return p.NormalizeKind(obj, kind)
}

// NormalizeKind normalizes obj into records of the given kind.
func (p *Processor) NormalizeKind(obj *document.Object, kind models.Kind) (Batch, error) {
	log := p.log.With("type", kind.String())

	var batch Batch

	switch kind {
	case models.KindItem:
		batch = Normalize[models.Item](obj, BuildItem, log)
	case models.KindStudent:
		batch = Normalize[models.Student](obj, BuildStudent, log)
	case models.KindEquipment:
		batch = Normalize[models.Equipment](obj, BuildEquipment, log)
	default:
		return nil, fmt.Errorf("normalization aborted: %w", &models.ConfigError{Value: kind.String()})
	}

	log.Info("normalized entries", "total", obj.Len(), "valid", batch.Len(), "skipped", len(batch.Skips()))

	return batch, nil
}
