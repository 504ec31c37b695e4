package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/horn/pkg/horn/logic"
	"github.com/cognicore/horn/pkg/horn/store/sqlite"
)

func seedDatabase(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, s := range []string{
		`CREATE TABLE parents (parent TEXT, child TEXT)`,
		`INSERT INTO parents VALUES ('ann', 'bob'), ('bob', 'cid')`,
	} {
		if _, err := db.ExecContext(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoaderBuildsKB(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "rules"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "rules/ancestor.horn", `
ancestor(X, Y) :- parent(X, Y).
ancestor(X, Y) :- parent(X, Z), ancestor(Z, Y).
`)
	extra := writeFile(t, t.TempDir(), "extra.horn", "parent(cid, dee).\n")
	seedDatabase(t, filepath.Join(dir, "family.db"))
	cfgPath := writeFile(t, dir, "horn.yaml", `max_depth: 100
programs:
  - rules/ancestor.horn
imports:
  - database: family.db
    verb: parent
    query: SELECT parent, child FROM parents ORDER BY parent
`)

	loader := &Loader{ConfigPath: cfgPath, ProgramPaths: []string{extra}}
	comp, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Config.MaxDepth != 100 {
		t.Errorf("Expected max_depth 100, got %d", comp.Config.MaxDepth)
	}

	facts, rules := comp.KB.Size()
	if facts != 3 || rules != 2 {
		t.Errorf("Expected 3 facts and 2 rules, got %d and %d", facts, rules)
	}

	got, err := comp.KB.AskN(context.Background(), logic.P("ancestor", "ann", logic.V("D")), 0)
	if err != nil {
		t.Fatalf("AskN: %v", err)
	}
	var names []string
	for _, b := range got {
		d, _ := b.Get("D")
		names = append(names, d.String())
	}
	if strings.Join(names, ",") != "bob,cid,dee" {
		t.Errorf("Expected bob,cid,dee, got %v", names)
	}
}

func TestLoaderWithoutConfig(t *testing.T) {
	prog := writeFile(t, t.TempDir(), "p.horn", "p(1). p(2).\n")
	comp, err := (&Loader{ProgramPaths: []string{prog}}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if facts, _ := comp.KB.Size(); facts != 2 {
		t.Errorf("Expected 2 facts, got %d", facts)
	}
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.horn", "p(1\n")
	missingDB := writeFile(t, dir, "horn.yaml", `imports:
  - database: nowhere.db
    verb: p
    query: SELECT 1
`)

	tests := []struct {
		name   string
		loader Loader
		prefix string
	}{
		{"missing config", Loader{ConfigPath: filepath.Join(dir, "none.yaml")}, "load config"},
		{"bad program", Loader{ProgramPaths: []string{bad}}, "load program"},
		{"missing program", Loader{ProgramPaths: []string{filepath.Join(dir, "none.horn")}}, "load program"},
		{"missing database", Loader{ConfigPath: missingDB}, "import p"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Load(context.Background())
			if err == nil || !strings.HasPrefix(err.Error(), tt.prefix) {
				t.Errorf("Expected error starting with %q, got %v", tt.prefix, err)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(dir, "nowhere.db")); !os.IsNotExist(err) {
		t.Error("a failed import must not create the database file")
	}
}
