package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/blackbyt3/subenum/target"
)

// FileReporter persists discovered hostnames to a file, one per line.
// The file is truncated on every report, so it always holds exactly the
// results of the latest run.
type FileReporter struct {
	path string
}

func NewFileReporter(path string) *FileReporter {
	return &FileReporter{
		path: path,
	}
}

func (r *FileReporter) Report(_ context.Context, targets []target.Target) error {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("unable to open output file %q: %w", r.path, err)
	}

	if err := writeHostnames(f, targets); err != nil {
		f.Close()
		return fmt.Errorf("unable to write output file %q: %w", r.path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file %q: %w", r.path, err)
	}

	return nil
}

// WriterReporter emits hostnames to an arbitrary writer, one per line.
// Used for stdout output when no output file is requested.
type WriterReporter struct {
	w io.Writer
}

func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{
		w: w,
	}
}

func (r *WriterReporter) Report(_ context.Context, targets []target.Target) error {
	return writeHostnames(r.w, targets)
}

func writeHostnames(w io.Writer, targets []target.Target) error {
	bw := bufio.NewWriter(w)
	for _, t := range targets {
		if _, err := bw.WriteString(t.Hostname); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
