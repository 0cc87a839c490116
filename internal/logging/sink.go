// Package logging defines the diagnostic sink the codegen core writes
// warnings and errors to (spec §6). The core never owns a logging
// transport; it is handed one by its caller.
package logging

import (
	"fmt"
	"io"
)

// Position is a 1-indexed line/column pair in the original source file.
type Position struct {
	Line   int
	Column int
}

// Diagnostic is a single warning, error, or parse-error report.
type Diagnostic struct {
	Filename string
	Frame    string
	Start    Position
	Message  string
}

// Sink receives diagnostics produced while compiling a document.
type Sink interface {
	Warn(d Diagnostic)
	Error(d Diagnostic)
	ParseError(d Diagnostic)
}

// writerSink formats diagnostics to an io.Writer, one line each.
type writerSink struct {
	w io.Writer
}

// NewSink returns a Sink that writes human-readable diagnostic lines to w.
func NewSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) Warn(d Diagnostic) {
	s.write("warn", d)
}

func (s *writerSink) Error(d Diagnostic) {
	s.write("error", d)
}

func (s *writerSink) ParseError(d Diagnostic) {
	s.write("parse error", d)
}

func (s *writerSink) write(level string, d Diagnostic) {
	fmt.Fprintf(s.w, "%s: %s:%d:%d: %s\n", level, d.Filename, d.Start.Line, d.Start.Column, d.Message)
	if d.Frame != "" {
		fmt.Fprintln(s.w, d.Frame)
	}
}

// CollectingSink accumulates diagnostics in memory, useful for tests that
// need to assert on what was reported rather than print it.
type CollectingSink struct {
	Warnings     []Diagnostic
	Errors       []Diagnostic
	ParseErrors  []Diagnostic
}

// NewCollectingSink returns an empty CollectingSink.
func NewCollectingSink() *CollectingSink {
	return &CollectingSink{}
}

func (s *CollectingSink) Warn(d Diagnostic)       { s.Warnings = append(s.Warnings, d) }
func (s *CollectingSink) Error(d Diagnostic)      { s.Errors = append(s.Errors, d) }
func (s *CollectingSink) ParseError(d Diagnostic) { s.ParseErrors = append(s.ParseErrors, d) }
