package reporter

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/blackbyt3/subenum/target"
)

func targetsOf(hostnames ...string) []target.Target {
	res := make([]target.Target, 0, len(hostnames))
	for _, h := range hostnames {
		res = append(res, target.Target{Hostname: h, Apex: "example.com"})
	}
	return res
}

func TestFileReporterWritesOnePerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts.txt")
	r := NewFileReporter(path)

	err := r.Report(context.Background(), targetsOf("api.example.com", "www.example.com"))
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}
	if string(data) != "api.example.com\nwww.example.com\n" {
		t.Fatalf("unexpected file contents %q", string(data))
	}
}

func TestFileReporterOverwritesPriorRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts.txt")
	r := NewFileReporter(path)

	if err := r.Report(context.Background(), targetsOf("a.example.com", "b.example.com", "c.example.com")); err != nil {
		t.Fatalf("first Report failed: %v", err)
	}
	if err := r.Report(context.Background(), targetsOf("d.example.com")); err != nil {
		t.Fatalf("second Report failed: %v", err)
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}
	if string(data) != "d.example.com\n" {
		t.Fatalf("expected only the latest run's results, got %q", string(data))
	}
}

func TestFileReporterBadPath(t *testing.T) {
	r := NewFileReporter(filepath.Join(t.TempDir(), "missing", "hosts.txt"))

	if err := r.Report(context.Background(), targetsOf("www.example.com")); err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
}

func TestWriterReporterMatchesFileBody(t *testing.T) {
	targets := targetsOf("api.example.com", "www.example.com")

	var buf bytes.Buffer
	if err := NewWriterReporter(&buf).Report(context.Background(), targets); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "hosts.txt")
	if err := NewFileReporter(path).Report(context.Background(), targets); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}

	if buf.String() != string(data) {
		t.Fatalf("writer body %q differs from file body %q", buf.String(), string(data))
	}
}
