// Package queryparser loads GraphQL query documents from disk and validates
// them against a schema.
package queryparser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// LoadQuerySources は glob パターン群にマッチするクエリファイルを読み込む。
func LoadQuerySources(globs []string) ([]*ast.Source, error) {
	var noGlobs []string
	for _, pattern := range globs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob query files with %s: %w", pattern, err)
		}
		noGlobs = append(noGlobs, matches...)
	}

	var sources []*ast.Source
	for _, filename := range noGlobs {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("unable to open query source %s: %w", filename, err)
		}
		sources = append(sources, &ast.Source{Name: filename, Input: string(content)})
	}

	return sources, nil
}

// QueryDocument parses and validates the query sources into one combined
// document. Validation runs against the schema, so every operation in the
// returned document is known to resolve.
func QueryDocument(schema *ast.Schema, querySources []*ast.Source) (*ast.QueryDocument, error) {
	var doc ast.QueryDocument
	for _, source := range querySources {
		parsed, err := parser.ParseQuery(source)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", source.Name, err)
		}

		doc.Operations = append(doc.Operations, parsed.Operations...)
		doc.Fragments = append(doc.Fragments, parsed.Fragments...)
	}

	if errs := validator.Validate(schema, &doc); errs != nil {
		return nil, fmt.Errorf("query validation failed: %w", errs)
	}

	return &doc, nil
}
