// Package writer persists normalized records as a JSON array.
package writer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyPath is returned when no destination path is given.
var ErrEmptyPath = errors.New("output path is empty")

// Indent is the per-level indentation of the output.
const Indent = "    "

// Marshal renders v with 4-space indentation. Non-ASCII text and the HTML
// characters <, > and & are written literally.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON writes v to path, truncating any existing content. The parent
// directory is created if missing. Returns the bytes written.
func WriteJSON(path string, v any) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := writeFile(path, data); err != nil {
		return nil, err
	}

	return data, nil
}

func writeFile(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
