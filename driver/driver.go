package driver

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openbindings/schemac/diagnostic"
	"github.com/openbindings/schemac/lowering/python"
	"github.com/openbindings/schemac/lowering/rust"
	"github.com/openbindings/schemac/lowering/typescript"
	"github.com/openbindings/schemac/monomorphize"
	"github.com/openbindings/schemac/normalize"
	"github.com/openbindings/schemac/openapi"
	pythonrender "github.com/openbindings/schemac/render/python"
	rustrender "github.com/openbindings/schemac/render/rust"
	typescriptrender "github.com/openbindings/schemac/render/typescript"
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/syntax"
)

// Target names one of the Driver's three source-emitting targets. The
// OpenAPI document is not a Target: it is requested with
// Config.IncludeOpenAPI, and "openapi" in Config.Targets is rejected like
// any other unknown entry.
type Target string

const (
	TargetPython     Target = "python"
	TargetRust       Target = "rust"
	TargetTypeScript Target = "typescript"
)

// Config is the Driver's configuration record (spec.md §6.3).
type Config struct {
	// Targets selects which of python/rust/typescript to emit. An unknown
	// entry is a fatal diagnostic (spec.md §6.3).
	Targets []Target

	// MonomorphizeThreshold, if non-nil, runs the Monomorphizer with this
	// threshold (spec.md §6.3 "monomorphize_threshold:int?").
	MonomorphizeThreshold *int

	// SplitStubs requests the runtime/stub file split for the target that
	// supports it (Python; spec.md §6.2/§6.3).
	SplitStubs bool

	// IncludeOpenAPI requests the OpenAPI 3.1 document artifact.
	IncludeOpenAPI bool
	OpenAPI        openapi.Options

	NamingOverrides    map[string]string
	PrimitiveFallbacks map[string]string

	// RequireSchemaVersion is forwarded to normalize.Options.
	RequireSchemaVersion bool

	// Logger receives structured progress events. A nil Logger compiles
	// with zap's no-op logger so callers never need to construct one just
	// to call Compile.
	Logger *zap.Logger
}

// Artifact is one emitted file.
type Artifact struct {
	Path     string
	Contents []byte
}

// Result is the outcome of one Compile call.
type Result struct {
	Artifacts   []Artifact
	Diagnostics *diagnostic.Bag
}

var knownTargets = map[Target]bool{
	TargetPython:     true,
	TargetRust:       true,
	TargetTypeScript: true,
}

// Compile runs the full pipeline over raw Schema IR JSON bytes.
func Compile(ctx context.Context, raw []byte, cfg Config) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	correlationID := uuid.New()
	log := logger.With(zap.String("correlation_id", correlationID.String()))
	log.Info("compile.start", zap.Int("input_bytes", len(raw)))

	bag := &diagnostic.Bag{}

	for _, t := range cfg.Targets {
		if !knownTargets[t] {
			bag.Addf(diagnostic.CodeUnsupportedConstruct, nil, "config.targets", "unknown target %q", t)
		}
	}
	if bag.HasFatal() {
		log.Error("compile.config_invalid")
		return &Result{Diagnostics: bag}, bag.Err()
	}

	irSchema, err := schemair.Parse(raw)
	if err != nil {
		log.Error("compile.parse_failed", zap.Error(err))
		return nil, fmt.Errorf("driver: parse schema IR: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normResult := normalize.Normalize(irSchema, normalize.Options{RequireSchemaVersion: cfg.RequireSchemaVersion})
	bag = mergeBags(bag, normResult.Diagnostics)
	if normResult.Schema == nil || bag.HasFatal() {
		log.Error("compile.normalize_failed")
		return &Result{Diagnostics: bag}, bag.Err()
	}
	schema := normResult.Schema
	log.Info("compile.normalized", zap.Int("type_count", len(schema.Types)), zap.Int("function_count", len(schema.Functions)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.MonomorphizeThreshold != nil {
		monoResult := monomorphize.Monomorphize(schema, monomorphize.Options{Threshold: *cfg.MonomorphizeThreshold})
		bag = mergeBags(bag, monoResult.Diagnostics)
		if monoResult.Schema != nil {
			schema = monoResult.Schema
		}
		log.Info("compile.monomorphized", zap.Int("threshold", *cfg.MonomorphizeThreshold))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	artifactsByTarget := make(map[Target][]Artifact, len(cfg.Targets))
	var mu sync.Mutex

	for _, t := range cfg.Targets {
		t := t
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			artifacts, targetBag, err := compileTarget(t, schema, cfg)
			if err != nil {
				return fmt.Errorf("driver: target %s: %w", t, err)
			}
			mu.Lock()
			bag = mergeBags(bag, targetBag)
			artifactsByTarget[t] = artifacts
			mu.Unlock()
			log.Info("compile.target_done", zap.String("target", string(t)), zap.Int("artifact_count", len(artifacts)))
			return nil
		})
	}

	var openapiArtifact *Artifact
	if cfg.IncludeOpenAPI {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result, err := openapi.Emit(schema, cfg.OpenAPI)
			if err != nil {
				return fmt.Errorf("driver: openapi: %w", err)
			}
			mu.Lock()
			openapiArtifact = &Artifact{Path: "openapi.json", Contents: result.JSON}
			mu.Unlock()
			log.Info("compile.openapi_done", zap.Int("bytes", len(result.JSON)))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		log.Error("compile.failed", zap.Error(err))
		return nil, err
	}

	var artifacts []Artifact
	targets := append([]Target(nil), cfg.Targets...)
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	for _, t := range targets {
		artifacts = append(artifacts, artifactsByTarget[t]...)
	}
	if openapiArtifact != nil {
		artifacts = append(artifacts, *openapiArtifact)
	}

	log.Info("compile.done", zap.Int("artifact_count", len(artifacts)))
	return &Result{Artifacts: artifacts, Diagnostics: bag}, bag.Err()
}

func mergeBags(a, b *diagnostic.Bag) *diagnostic.Bag {
	if a == nil {
		a = &diagnostic.Bag{}
	}
	if b == nil {
		return a
	}
	for _, d := range b.Items() {
		a.Add(d)
	}
	return a
}

// compileTarget runs Lowering -> Syntax IR -> Rendering for one target
// and splits the resulting module(s) into the "models" and "client"
// files spec.md §6.2 requires.
func compileTarget(t Target, schema *semantic.Schema, cfg Config) ([]Artifact, *diagnostic.Bag, error) {
	switch t {
	case TargetPython:
		return compilePython(schema, cfg)
	case TargetRust:
		return compileRust(schema, cfg)
	case TargetTypeScript:
		return compileTypeScript(schema, cfg)
	default:
		return nil, nil, fmt.Errorf("unsupported target %q", t)
	}
}

func compilePython(schema *semantic.Schema, cfg Config) ([]Artifact, *diagnostic.Bag, error) {
	result, err := python.Lower(schema, python.Options{
		SplitStubs:         cfg.SplitStubs,
		NamingOverrides:    cfg.NamingOverrides,
		PrimitiveFallbacks: cfg.PrimitiveFallbacks,
	})
	if err != nil {
		return nil, nil, err
	}
	models, client := splitModule(result.Module, "from .models import *")
	artifacts := []Artifact{
		{Path: "python/models.py", Contents: []byte(pythonrender.Render(models))},
		{Path: "python/client.py", Contents: []byte(pythonrender.Render(client))},
	}
	if result.StubModule != nil {
		artifacts = append(artifacts, Artifact{Path: "python/models.pyi", Contents: []byte(pythonrender.Render(result.StubModule))})
	}
	return artifacts, result.Diagnostics, nil
}

func compileRust(schema *semantic.Schema, cfg Config) ([]Artifact, *diagnostic.Bag, error) {
	result, err := rust.Lower(schema, rust.Options{
		NamingOverrides:    cfg.NamingOverrides,
		PrimitiveFallbacks: cfg.PrimitiveFallbacks,
	})
	if err != nil {
		return nil, nil, err
	}
	models, client := splitModule(result.Module, "use crate::models::*;")
	return []Artifact{
		{Path: "rust/models.rs", Contents: []byte(rustrender.Render(models))},
		{Path: "rust/client.rs", Contents: []byte(rustrender.Render(client))},
	}, result.Diagnostics, nil
}

func compileTypeScript(schema *semantic.Schema, cfg Config) ([]Artifact, *diagnostic.Bag, error) {
	result, err := typescript.Lower(schema, typescript.Options{
		NamingOverrides:    cfg.NamingOverrides,
		PrimitiveFallbacks: cfg.PrimitiveFallbacks,
	})
	if err != nil {
		return nil, nil, err
	}
	models, client := splitModule(result.Module, `import * as models from "./models";`)
	return []Artifact{
		{Path: "typescript/models.ts", Contents: []byte(typescriptrender.Render(models))},
		{Path: "typescript/client.ts", Contents: []byte(typescriptrender.Render(client))},
	}, result.Diagnostics, nil
}

// splitModule partitions a lowered module's items into a "models" file
// (every declared type) and a "client" file (the Client class), the two
// files spec.md §6.2 requires per target. The client file gets a single
// whole-module import of the models file; the Lowering stage doesn't
// track which specific names a Client method references (its bodies are
// not-implemented stubs per spec.md §4.6), so a blanket import is the
// simplest correct choice rather than a name-by-name one (DESIGN.md).
func splitModule(mod *syntax.Module, localImportLine string) (models, client *syntax.Module) {
	models = &syntax.Module{Name: mod.Name, Docstring: mod.Docstring, HeaderImports: mod.HeaderImports, Imports: mod.Imports}
	client = &syntax.Module{Name: mod.Name, HeaderImports: append(append([]string(nil), mod.HeaderImports...), localImportLine), Imports: mod.Imports}

	for _, item := range mod.Items {
		if item.Kind == syntax.ItemKindClass && item.Class.Name == "Client" {
			client.Items = append(client.Items, item)
		} else {
			models.Items = append(models.Items, item)
		}
	}
	return models, client
}
