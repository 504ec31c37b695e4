// Package sqlite imports facts from SQLite tables. Every row of a query
// becomes one fact whose arguments are the row's columns, in order.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/horn/pkg/horn/internalerr"
	"github.com/cognicore/horn/pkg/horn/logic"
)

// Source names the verb the rows of Query are told under.
type Source struct {
	Verb  string
	Query string
}

// Teller accepts clauses. Both store.Store and the KB facade satisfy it.
type Teller interface {
	Tell(s logic.Sentence) error
}

// Open opens a SQLite database for importing.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ImportFacts runs src.Query and tells one fact per row to dst. It returns
// the number of facts told before any error.
func ImportFacts(ctx context.Context, db *sql.DB, src Source, dst Teller) (int, error) {
	if src.Verb == "" || src.Query == "" {
		return 0, fmt.Errorf("%w: import needs a verb and a query", internalerr.ErrInvalidInput)
	}

	rows, err := db.QueryContext(ctx, src.Query)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", src.Verb, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("%w: query for %s returns no columns", internalerr.ErrInvalidInput, src.Verb)
	}

	n := 0
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return n, err
		}
		args := make([]logic.Term, len(vals))
		for i, v := range vals {
			args[i] = logic.C(column(v))
		}
		if err := dst.Tell(logic.Pred{Verb: src.Verb, Args: args}); err != nil {
			return n, fmt.Errorf("row %d: %w", n+1, err)
		}
		n++
	}
	return n, rows.Err()
}

// column maps a scanned SQLite value to a constant value. NULL becomes nil.
func column(v any) any {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
