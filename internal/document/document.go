// Package document decodes the source JSON object while keeping the order in
// which its keys appear.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decoding errors.
var (
	ErrEmpty        = errors.New("empty JSON document")
	ErrNotObject    = errors.New("value is not a JSON object")
	ErrTrailingData = errors.New("unexpected data after top-level value")
)

// Fields is one raw record: field name to untyped value. Numbers are json.Number.
type Fields map[string]any

// Entry is one key/value pair of the top-level object.
type Entry struct {
	Key      string
	Position int
	Value    json.RawMessage
}

// Object is the decoded top-level object. Entries are in document order; a
// repeated key keeps its first position and its last value.
type Object struct {
	entries []Entry
	index   map[string]int
}

// Decode parses data, which must hold exactly one JSON object.
func Decode(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top-level value is %s", ErrNotObject, tokenType(tok))
	}

	obj := &Object{index: make(map[string]int)}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("failed to parse JSON: unexpected token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON value for key %q: %w", key, err)
		}

		if i, dup := obj.index[key]; dup {
			obj.entries[i].Value = raw

			continue
		}

		obj.index[key] = len(obj.entries)
		obj.entries = append(obj.entries, Entry{Key: key, Position: len(obj.entries), Value: raw})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	return obj, nil
}

// Len returns the number of distinct keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.entries)
}

// Entries returns the entries in document order.
func (o *Object) Entries() []Entry {
	if o == nil {
		return nil
	}

	return o.entries
}

// Lookup returns the value stored under key.
func (o *Object) Lookup(key string) (Entry, bool) {
	if o == nil {
		return Entry{}, false
	}

	i, ok := o.index[key]
	if !ok {
		return Entry{}, false
	}

	return o.entries[i], true
}

// Fields decodes the entry value as a record object.
func (e Entry) Fields() (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(e.Value))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse entry %q: %w", e.Key, err)
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, TypeName(v))
	}

	return Fields(m), nil
}

// TypeName names the JSON type of a value decoded with UseNumber.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any, Fields:
		return "object"
	}

	return fmt.Sprintf("%T", v)
}

func tokenType(tok json.Token) string {
	if delim, ok := tok.(json.Delim); ok {
		if delim == '[' {
			return "array"
		}

		return delim.String()
	}

	return TypeName(tok)
}
