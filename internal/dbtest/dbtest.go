// Package dbtest wraps a scripted database/sql driver in GORM so service and
// handler tests can pin down the exact statement sequence a code path issues
// without a live MySQL server. Each test declares the statements it expects,
// in order, with the rows or error each one produces.
package dbtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// StepKind distinguishes row-returning statements from execs.
type StepKind int

const (
	Query StepKind = iota
	Exec
)

// Step is one expected statement. Args nil skips argument matching, which
// inserts need because they carry generated timestamps and UUIDs. Err is
// handed back to the caller in place of rows or a result.
type Step struct {
	Kind    StepKind
	Pattern *regexp.Regexp
	Args    []driver.Value
	Columns []string
	Rows    [][]driver.Value
	Err     error
	Result  driver.Result
}

// ExecResult satisfies driver.Result for scripted execs.
type ExecResult struct {
	InsertID int64
	Affected int64
}

func (r ExecResult) LastInsertId() (int64, error) { return r.InsertID, nil }
func (r ExecResult) RowsAffected() (int64, error) { return r.Affected, nil }

// Script consumes Steps in order and records every statement that failed to
// match or arrived after the script ran out.
type Script struct {
	mu       sync.Mutex
	steps    []*Step
	mismatch []string
}

func (s *Script) next(kind StepKind, query string, args []driver.NamedValue) (*Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.steps) == 0 {
		s.mismatch = append(s.mismatch, query)
		return nil, fmt.Errorf("statement beyond script: %s", query)
	}
	step := s.steps[0]
	if step.Kind != kind {
		s.mismatch = append(s.mismatch, query)
		return nil, fmt.Errorf("statement kind mismatch: %s", query)
	}
	if !step.Pattern.MatchString(query) {
		s.mismatch = append(s.mismatch, query)
		return nil, fmt.Errorf("statement does not match %v: %s", step.Pattern, query)
	}
	if step.Args != nil {
		if len(step.Args) != len(args) {
			s.mismatch = append(s.mismatch, query)
			return nil, fmt.Errorf("argument count for %s: got %d, want %d", query, len(args), len(step.Args))
		}
		for i := range args {
			if args[i].Value != step.Args[i] {
				s.mismatch = append(s.mismatch, query)
				return nil, fmt.Errorf("argument %d for %s: got %v, want %v", i, query, args[i].Value, step.Args[i])
			}
		}
	}
	s.steps = s.steps[1:]
	return step, nil
}

// VerifyComplete fails the test when scripted statements never ran or
// statements arrived that the script did not expect.
func (s *Script) VerifyComplete(t *testing.T) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.steps) != 0 {
		t.Errorf("%d scripted statements never ran, next: %v", len(s.steps), s.steps[0].Pattern)
	}
	for _, query := range s.mismatch {
		t.Errorf("unscripted statement ran: %s", query)
	}
}

type scriptedDriver struct{ script *Script }

func (d *scriptedDriver) Open(string) (driver.Conn, error) {
	return &scriptedConn{script: d.script}, nil
}

type scriptedConn struct{ script *Script }

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements not supported")
}

func (c *scriptedConn) Close() error { return nil }

// Begin hands out a no-op transaction so GORM's write-wrapping transactions
// pass their statements straight through to the script.
func (c *scriptedConn) Begin() (driver.Tx, error) { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

func (c *scriptedConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.script.next(Query, query, args)
	if err != nil {
		return nil, err
	}
	if step.Err != nil {
		return nil, step.Err
	}
	return &scriptedRows{columns: step.Columns, data: step.Rows}, nil
}

func (c *scriptedConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	step, err := c.script.next(Exec, query, args)
	if err != nil {
		return nil, err
	}
	if step.Err != nil {
		return nil, step.Err
	}
	if step.Result != nil {
		return step.Result, nil
	}
	return ExecResult{}, nil
}

type scriptedRows struct {
	columns []string
	data    [][]driver.Value
	pos     int
}

func (r *scriptedRows) Columns() []string { return r.columns }
func (r *scriptedRows) Close() error      { return nil }

func (r *scriptedRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	for i := range dest {
		dest[i] = nil
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

// NewDB opens a GORM handle over the scripted steps. The returned cleanup
// closes the pool; callers end with script.VerifyComplete.
func NewDB(t *testing.T, steps []*Step) (*gorm.DB, *Script, func()) {
	t.Helper()

	script := &Script{steps: steps}
	name := fmt.Sprintf("scripted_%d", time.Now().UnixNano())
	sql.Register(name, &scriptedDriver{script: script})

	sqlDB, err := sql.Open(name, "scripted")
	if err != nil {
		t.Fatalf("open scripted db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	return db, script, func() { sqlDB.Close() }
}
