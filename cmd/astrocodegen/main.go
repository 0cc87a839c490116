package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/kestrelhq/astrocodegen/internal/codegen"
	"github.com/kestrelhq/astrocodegen/internal/logging"
)

func main() {
	var input string
	var fileID string
	var projectRoot string
	var pages string
	flag.StringVar(&input, "input", "", "Path to a JSON-encoded document AST fixture (required)")
	flag.StringVar(&fileID, "file_id", "", "Diagnostic file identifier")
	flag.StringVar(&projectRoot, "project_root", "", "Project root URL used for runtime-URL stripping")
	flag.StringVar(&pages, "pages", "", "Pages directory URL used by the relative-path-literal warning")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -input=<ast.json> [flags]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nastrocodegen compiles a single-file component AST into its render module.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if input == "" {
		fmt.Fprintf(os.Stderr, "Error: -input is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "astrocodegen: %v\n", err)
		os.Exit(1)
	}
	var doc codegen.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "astrocodegen: decoding %s: %v\n", input, err)
		os.Exit(1)
	}

	opts := codegen.CompileOptions{
		Logging:  logging.NewSink(os.Stderr),
		Filename: input,
		FileID:   fileID,
	}
	if projectRoot != "" {
		u, err := url.Parse(projectRoot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "astrocodegen: parsing -project_root: %v\n", err)
			os.Exit(1)
		}
		opts.AstroConfig.ProjectRoot = u
	}
	if pages != "" {
		u, err := url.Parse(pages)
		if err != nil {
			fmt.Fprintf(os.Stderr, "astrocodegen: parsing -pages: %v\n", err)
			os.Exit(1)
		}
		opts.AstroConfig.Pages = u
	}

	artifact, err := codegen.Compile(&doc, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "astrocodegen: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		fmt.Fprintf(os.Stderr, "astrocodegen: encoding artifact: %v\n", err)
		os.Exit(1)
	}
}
