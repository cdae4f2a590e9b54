// Command json2go generates and evolves Go type definitions from JSON
// samples.
//
// Usage:
//
//	json2go [flags] [sample.json ...]
//
// Samples are read from the argument files, or from stdin when no files
// are given. With -existing, new observations merge into the given source
// file instead of generating from scratch.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/usestring/json2go/internal/batch"
	"github.com/usestring/json2go/internal/config"
	"github.com/usestring/json2go/internal/filter"
	"github.com/usestring/json2go/internal/logging"
	"github.com/usestring/json2go/pkg/evolve"
	"github.com/usestring/json2go/pkg/export"
)

func main() {
	cfg := config.Load()

	var (
		existingPath = flag.String("existing", "", "Go source file to evolve in place")
		outputPath   = flag.String("output", "", "output file (default: stdout, or -existing when set)")
		rootName     = flag.String("name", cfg.DefaultRootName, "name of the root type")
		strategy     = flag.String("strategy", cfg.DefaultStrategy, "merge strategy: optional, enum, or hybrid")
		pkgName      = flag.String("package", cfg.DefaultPackage, "package clause for generated files")
		filterExpr   = flag.String("filter", "", "jq expression applied to each sample before inference")
		emitSchema   = flag.Bool("schema", false, "emit a JSON Schema document instead of Go source")
		logLevel     = flag.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	)
	flag.Parse()

	logCleanup, err := logging.Setup(logging.Config{
		Level:  *logLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer logCleanup()

	if err := run(cfg, *existingPath, *outputPath, *rootName, *strategy, *pkgName, *filterExpr, *emitSchema, flag.Args()); err != nil {
		slog.Error("run failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, existingPath, outputPath, rootName, strategy, pkgName, filterExpr string, emitSchema bool, sampleFiles []string) error {
	samples, err := readSamples(sampleFiles, filterExpr)
	if err != nil {
		return err
	}

	folder, err := batch.NewFolder(cfg.FoldWorkers, cfg.SchemaCacheMaxItems)
	if err != nil {
		return err
	}
	folded, err := folder.Fold(context.Background(), samples)
	if err != nil {
		return err
	}

	if emitSchema {
		doc := export.ToJSONSchema(folded.Schema, rootName)
		raw, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(outputPath, append(raw, '\n'))
	}

	var existing []byte
	if existingPath != "" {
		existing, err = os.ReadFile(existingPath)
		if err != nil {
			return err
		}
	}

	res, err := evolve.RunSchema(folded.Schema, existing, evolve.Options{
		RootName:        rootName,
		Strategy:        strategy,
		PackageName:     pkgName,
		ExtendThreshold: cfg.ExtendThreshold,
		EnumThreshold:   cfg.EnumThreshold,
	})
	if err != nil {
		return err
	}

	slog.Info("generated",
		"root", res.RootType,
		"samples", folded.Samples,
		"new_types", len(res.NewTypes),
		"modified_types", len(res.ModifiedTypes),
		"conflicts", len(res.Conflicts),
	)
	for _, c := range res.Conflicts {
		slog.Warn("type conflict fell back to string",
			"type", c.Type, "field", c.Field,
			"existing", c.Existing, "inferred", c.Inferred,
		)
	}

	// With no explicit output, evolving a file rewrites it in place.
	if outputPath == "" && existingPath != "" {
		outputPath = existingPath
	}
	return writeOutput(outputPath, res.Source)
}

func readSamples(files []string, filterExpr string) ([][]byte, error) {
	var samples [][]byte
	if len(files) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		samples = [][]byte{data}
	} else {
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			samples = append(samples, data)
		}
	}

	if filterExpr != "" {
		for i, s := range samples {
			filtered, err := filter.Apply(filterExpr, s)
			if err != nil {
				return nil, fmt.Errorf("filtering sample %d: %w", i, err)
			}
			samples[i] = filtered
		}
	}
	return samples, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
