package codegen

import "github.com/kestrelhq/astrocodegen/internal/logging"

// diagnostic converts a codegen-local position into the shape the injected
// logging.Sink expects (spec §6: the sink's methods carry
// {filename, frame, start:{line,column}, message}).
func diagnostic(filename string, pos Position, frame, message string) logging.Diagnostic {
	return logging.Diagnostic{
		Filename: filename,
		Frame:    frame,
		Start:    logging.Position{Line: pos.Line, Column: pos.Column},
		Message:  message,
	}
}
