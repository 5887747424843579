// Package config loads the accessorgen configuration file and prepares the
// schema and query documents for generation.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/accessorgen/codegen"
	"github.com/gqlgo/accessorgen/queryparser"
)

// Config represents the config file.
type Config struct {
	Schema   []string                `yaml:"schema,omitempty"`
	Endpoint *EndPointConfig         `yaml:"endpoint,omitempty"`
	Query    []string                `yaml:"query"`
	Generate GenerateConfig          `yaml:"generate"`
	Scalars  map[string]ScalarConfig `yaml:"scalars,omitempty"`

	// Loaded state, filled by PrepareSchema and LoadQuery.
	GQLSchema     *ast.Schema        `yaml:"-"`
	QueryDocument *ast.QueryDocument `yaml:"-"`
}

// GenerateConfig controls the output of the generator.
type GenerateConfig struct {
	// Filename is the combined output file. Exactly one of Filename and Dir
	// must be set.
	Filename string `yaml:"filename,omitempty"`
	// Dir emits one file per generated class instead of a combined document.
	Dir     string `yaml:"dir,omitempty"`
	Package string `yaml:"package"`
}

// ScalarConfig maps one custom scalar to a converter available in the output
// package.
type ScalarConfig struct {
	// Converter is the identifier referenced by the generated code.
	Converter string `yaml:"converter"`
	// Type is the converter's target type.
	Type string `yaml:"type"`
}

// EndPointConfig are the allowed options for the 'endpoint' config.
type EndPointConfig struct {
	Headers http.Header  `yaml:"headers,omitempty"`
	URL     string       `yaml:"url"`
	Client  *http.Client `yaml:"-"`
}

// FindConfigFile walks up from dir until it finds one of the candidate config
// file names.
func FindConfigFile(dir string, names []string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("unable to resolve config dir: %w", err)
	}

	for {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no config file found in %s or any parent directory", dir)
		}
		dir = parent
	}
}

// Load loads and parses the config file.
func Load(configFilename string) (*Config, error) {
	configContent, err := os.ReadFile(configFilename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var c Config

	yamlDecoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(configContent)))), yaml.DisallowUnknownField())
	if err := yamlDecoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	// validation
	if len(c.Schema) != 0 && c.Endpoint != nil {
		return nil, errors.New("'schema' and 'endpoint' both specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}

	if len(c.Schema) == 0 && c.Endpoint == nil {
		return nil, errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}

	if len(c.Query) == 0 {
		return nil, errors.New("'query' must list at least one query file pattern")
	}

	if c.Generate.Filename != "" && c.Generate.Dir != "" {
		return nil, errors.New("'generate.filename' and 'generate.dir' both specified. Use filename for a combined document, dir for one file per class")
	}

	if c.Generate.Filename == "" && c.Generate.Dir == "" {
		return nil, errors.New("neither 'generate.filename' nor 'generate.dir' specified")
	}

	if c.Generate.Package == "" {
		return nil, errors.New("'generate.package' must be specified")
	}

	for name, scalar := range c.Scalars {
		if scalar.Converter == "" || scalar.Type == "" {
			return nil, fmt.Errorf("scalar %s: both 'converter' and 'type' must be specified", name)
		}
	}

	return &c, nil
}

// PrepareSchema loads the schema, from local files or by introspecting the
// configured endpoint.
func (c *Config) PrepareSchema(ctx context.Context) error {
	switch {
	case len(c.Schema) != 0:
		sources, err := schemaFileSources(c.Schema)
		if err != nil {
			return err
		}
		schema, err := gqlparser.LoadSchema(sources...)
		if err != nil {
			return fmt.Errorf("load local schema failed: %w", err)
		}
		c.GQLSchema = schema
	case c.Endpoint != nil:
		httpClient := c.Endpoint.Client
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		schema, err := introspectionSchema(ctx, httpClient, c.Endpoint.URL, c.Endpoint.Headers)
		if err != nil {
			return fmt.Errorf("introspect schema failed: %w", err)
		}
		c.GQLSchema = schema
	default:
		return errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}

	return nil
}

// LoadQuery loads, parses and validates the configured query files.
func (c *Config) LoadQuery() error {
	querySources, err := queryparser.LoadQuerySources(c.Query)
	if err != nil {
		return fmt.Errorf("load query sources failed: %w", err)
	}
	if len(querySources) == 0 {
		return fmt.Errorf("no query files matched %v", c.Query)
	}

	queryDocument, err := queryparser.QueryDocument(c.GQLSchema, querySources)
	if err != nil {
		return fmt.Errorf("load query document failed: %w", err)
	}

	c.QueryDocument = queryDocument

	return nil
}

// GeneratorOptions translates the scalar config into generator options.
func (c *Config) GeneratorOptions() []codegen.Option {
	opts := make([]codegen.Option, 0, len(c.Scalars))
	for name, scalar := range c.Scalars {
		opts = append(opts, codegen.WithScalarConverter(name, codegen.ScalarConverter{
			Name:      scalar.Converter,
			Signature: scalar.Type,
		}))
	}

	return opts
}

// schemaFileSources expands the schema glob patterns and reads each matched
// file into a source.
func schemaFileSources(globs []string) ([]*ast.Source, error) {
	var filenames []string
	for _, pattern := range globs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob schema filename %s: %w", pattern, err)
		}
		filenames = append(filenames, matches...)
	}
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no schema files matched %v", globs)
	}

	sources := make([]*ast.Source, 0, len(filenames))
	for _, filename := range filenames {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("unable to open schema: %w", err)
		}
		sources = append(sources, &ast.Source{Name: filename, Input: string(content)})
	}

	return sources, nil
}
