package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"golang.org/x/tools/imports"

	"github.com/gqlgo/accessorgen/codegen"
	"github.com/gqlgo/accessorgen/config"
)

var configFilenames = []string{".accessorgen.yml", "accessorgen.yml", ".accessorgen.yaml", "accessorgen.yaml"}

func run(ctx context.Context, configFile string, printSource bool) error {
	if configFile == "" {
		found, err := config.FindConfigFile(".", configFilenames)
		if err != nil {
			return fmt.Errorf("failed to find config file: %w", err)
		}
		configFile = found
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.PrepareSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	if err := cfg.LoadQuery(); err != nil {
		return fmt.Errorf("failed to load query: %w", err)
	}

	generator := codegen.New(cfg.GQLSchema, cfg.GeneratorOptions()...)
	classes, err := generator.Generate(cfg.QueryDocument)
	if err != nil {
		return fmt.Errorf("failed to generate accessor classes: %w", err)
	}

	if cfg.Generate.Dir != "" {
		return emitUnits(cfg, classes, printSource)
	}

	return emitDocument(cfg, classes, printSource)
}

// emitDocument writes all classes into the single configured output file.
func emitDocument(cfg *config.Config, classes []codegen.DefinedClass, printSource bool) error {
	source, err := codegen.NewRenderer().RenderDocument(cfg.Generate.Package, classes)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	return writeSource(cfg.Generate.Filename, source, printSource)
}

// emitUnits writes one file per class into the configured output directory.
// プリアンブルは accessorgen_gen.go へ 1 回だけ出力される。
func emitUnits(cfg *config.Config, classes []codegen.DefinedClass, printSource bool) error {
	if err := os.MkdirAll(cfg.Generate.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	preambleSource, err := codegen.NewRenderer().RenderDocument(cfg.Generate.Package, nil)
	if err != nil {
		return fmt.Errorf("failed to render preamble: %w", err)
	}
	if err := writeSource(filepath.Join(cfg.Generate.Dir, "accessorgen_gen.go"), preambleSource, printSource); err != nil {
		return err
	}

	units, err := codegen.NewRenderer().RenderUnits(classes)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	for _, unit := range units {
		filename := filepath.Join(cfg.Generate.Dir, strings.ToLower(unit.Name)+"_gen.go")
		source := fmt.Sprintf("// Code generated by accessorgen, DO NOT EDIT.\n\npackage %s\n\n%s", cfg.Generate.Package, unit.Source)
		if err := writeSource(filename, source, printSource); err != nil {
			return err
		}
	}

	return nil
}

// writeSource formats the source with goimports and writes it out, optionally
// echoing a highlighted copy to stdout.
func writeSource(filename, source string, printSource bool) error {
	formatted, err := imports.Process(filename, []byte(source), nil)
	if err != nil {
		return fmt.Errorf("gofmt failed on %s: %w", filename, err)
	}

	if err := os.WriteFile(filename, formatted, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	if printSource {
		if err := quick.Highlight(os.Stdout, string(formatted), "go", "terminal256", "monokai"); err != nil {
			return fmt.Errorf("failed to print %s: %w", filename, err)
		}
	}

	return nil
}
