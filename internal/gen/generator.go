package gen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"

	"visitorgen/internal/plan"
)

// RuntimePackage is the import path of the dispatch runtime generated
// code depends on.
const RuntimePackage = "visitorgen/visit"

// header is the generated-code marker line tools look for.
const header = "Code generated by visitorgen. DO NOT EDIT."

// Config holds configuration for code generation.
type Config struct {
	// RuntimePath is the import path of the visit runtime.
	RuntimePath string
	// DebugDir receives an unformatted dump when rendering fails.
	// Empty disables the dump.
	DebugDir string
	// Logger reports per-section progress. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		RuntimePath: RuntimePackage,
		Logger:      zap.NewNop(),
	}
}

// Generator renders plans into Go source.
type Generator struct {
	config Config
}

// GeneratedFile is one rendered Go source file.
type GeneratedFile struct {
	// Filename within the subject package directory.
	Filename string
	// Content is the formatted Go source.
	Content []byte
}

// NewGenerator creates a Generator with the given configuration.
func NewGenerator(config Config) *Generator {
	if config.RuntimePath == "" {
		config.RuntimePath = RuntimePackage
	}

	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Generator{config: config}
}

// Generate renders the whole plan into the subject package's generated
// file.
func (g *Generator) Generate(p *plan.Plan) (*GeneratedFile, error) {
	log := g.config.Logger

	f := jen.NewFile(p.Package.Name)
	f.HeaderComment(header)

	for i := range p.Drives {
		g.driveDecl(f, &p.Drives[i])
	}

	log.Debug("rendered drive routines", zap.Int("count", len(p.Drives)))

	for i := range p.Visits {
		g.visitDecl(f, &p.Visits[i])
	}

	log.Debug("rendered visit methods", zap.Int("count", len(p.Visits)))

	for i := range p.Groups {
		g.groupDecls(f, &p.Groups[i])
	}

	log.Debug("rendered groups", zap.Int("count", len(p.Groups)))

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		g.dumpUnformatted(f, p.Output)
		return nil, fmt.Errorf("rendering %s: %w", p.Output, err)
	}

	return &GeneratedFile{Filename: p.Output, Content: buf.Bytes()}, nil
}

// dumpUnformatted writes the raw declaration stream next to the
// intended output. Best effort; rendering already failed.
func (g *Generator) dumpUnformatted(f *jen.File, filename string) {
	if g.config.DebugDir == "" {
		return
	}

	f.NoFormat = true

	var raw bytes.Buffer
	if err := f.Render(&raw); err != nil {
		return
	}

	if err := writeDebugUnformatted(g.config.DebugDir, filename, raw.Bytes()); err != nil {
		g.config.Logger.Warn("debug dump failed", zap.Error(err))
	}
}
