package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	code := run(context.Background(), args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestRun_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"1":{"Id":"10","Name":"Potion"},"2":{"Name":"Broken"}}`))
	}))
	defer srv.Close()

	output := filepath.Join(t.TempDir(), "items.json")

	code, stdout, stderr := runCLI(t, "--type", "item", "--url", srv.URL, "--output", output, "--log-level", "warn")
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	if want := "Processed 1 entries. Saved to " + output + "\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	if !strings.Contains(stderr, "skipping invalid entry") {
		t.Errorf("stderr missing skip diagnostic: %s", stderr)
	}

	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestRun_FetchFailureExitsNonZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	output := filepath.Join(t.TempDir(), "items.json")

	code, stdout, stderr := runCLI(t, "--type", "item", "--url", srv.URL, "--output", output)
	if code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}

	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}

	if !strings.Contains(stderr, "Error fetching data") || !strings.Contains(stderr, "410") {
		t.Errorf("stderr = %s", stderr)
	}

	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output written on failure: %v", err)
	}
}

func TestRun_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<!doctype html>`))
	}))
	defer srv.Close()

	code, _, stderr := runCLI(t, "--type", "student", "--url", srv.URL, "--output", filepath.Join(t.TempDir(), "s.json"))
	if code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}

	if !strings.Contains(stderr, "Invalid JSON received from URL") {
		t.Errorf("stderr = %s", stderr)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "No arguments", args: nil, wantErr: "--type, --url, --output"},
		{name: "Missing output", args: []string{"--type", "item", "--url", "x"}, wantErr: "--output"},
		{name: "Unknown type", args: []string{"--type", "widget", "--url", "x", "--output", "y"}, wantErr: "widget"},
		{name: "Bad log level", args: []string{"--type", "item", "--url", "x", "--output", "y", "--log-level", "loud"}, wantErr: "unknown log level"},
		{name: "Unknown flag", args: []string{"--format", "csv"}, wantErr: "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != exitUsage {
				t.Errorf("exit code = %d, want %d", code, exitUsage)
			}

			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr missing %q: %s", tt.wantErr, stderr)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "--help")
	if code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}

	if !strings.Contains(stderr, "Usage: converter") {
		t.Errorf("usage not printed: %s", stderr)
	}
}
