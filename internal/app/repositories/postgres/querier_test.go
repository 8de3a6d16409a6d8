package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type call struct {
	sql  string
	args []any
}

// capture records every statement and answers with canned results
type capture struct {
	calls []call
	// tag is returned by Exec
	tag string
	// rowErr is returned by Scan on QueryRow results
	rowErr error
}

func newCapture() *capture {
	return &capture{tag: "UPDATE 1", rowErr: pgx.ErrNoRows}
}

func (c *capture) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.calls = append(c.calls, call{sql, args})
	return pgconn.NewCommandTag(c.tag), nil
}

func (c *capture) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.calls = append(c.calls, call{sql, args})
	return emptyRows{}, nil
}

func (c *capture) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	c.calls = append(c.calls, call{sql, args})
	return errRow{c.rowErr}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT 0") }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(...any) error                            { return pgx.ErrNoRows }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }
