package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cognicore/horn/pkg/horn"
	"github.com/cognicore/horn/pkg/horn/metrics"
	"github.com/cognicore/horn/pkg/horn/store/sqlite"
)

// Loader reads the configuration file and constructs a populated KB.
type Loader struct {
	// ConfigPath is optional; without it only ProgramPaths are loaded.
	ConfigPath string

	// ProgramPaths are loaded after the programs named in the config.
	ProgramPaths []string

	// MaxDepth overrides the configured depth bound when positive.
	MaxDepth int

	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Components holds everything the loader built.
type Components struct {
	Config *Config
	KB     *horn.KB
}

// Load reads the configuration, loads every program and runs every import.
// Paths in the config file are relative to the file's directory.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := &Config{}
	base := ""
	if l.ConfigPath != "" {
		c, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = c
		base = filepath.Dir(l.ConfigPath)
	}

	if l.MaxDepth > 0 {
		cfg.MaxDepth = l.MaxDepth
	}

	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}

	kb := horn.New(horn.Options{
		Logger:   log,
		Metrics:  l.Metrics,
		MaxDepth: cfg.MaxDepth,
	})

	paths := make([]string, 0, len(cfg.Programs)+len(l.ProgramPaths))
	for _, p := range cfg.Programs {
		paths = append(paths, resolve(base, p))
	}
	paths = append(paths, l.ProgramPaths...)

	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("load program %s: %w", p, err)
		}
		n, err := kb.Load(string(src))
		if err != nil {
			return nil, fmt.Errorf("load program %s: %w", p, err)
		}
		log.Info("program loaded", zap.String("path", p), zap.Int("clauses", n))
	}

	for _, imp := range cfg.Imports {
		if err := importTable(ctx, kb, resolve(base, imp.Database), imp, log); err != nil {
			return nil, fmt.Errorf("import %s: %w", imp.Verb, err)
		}
	}

	return &Components{Config: cfg, KB: kb}, nil
}

func importTable(ctx context.Context, kb *horn.KB, path string, imp Import, log *zap.Logger) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := sqlite.ImportFacts(ctx, db, sqlite.Source{Verb: imp.Verb, Query: imp.Query}, kb)
	if err != nil {
		return err
	}
	log.Info("facts imported", zap.String("database", path), zap.String("verb", imp.Verb), zap.Int("facts", n))
	return nil
}

func resolve(base, p string) string {
	if base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
