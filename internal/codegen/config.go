package codegen

import (
	"net/url"

	"github.com/kestrelhq/astrocodegen/internal/logging"
)

// AstroConfig carries the subset of project configuration the core reads
// (spec §6). Config loading/validation is out of scope (spec §1); this
// struct is populated by the caller.
type AstroConfig struct {
	ProjectRoot *url.URL
	Pages       *url.URL
}

// CompileOptions is the second argument to Compile (spec §6).
type CompileOptions struct {
	AstroConfig AstroConfig
	Logging     logging.Sink
	Filename    string
	FileID      string
}
