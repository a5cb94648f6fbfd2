// Package sqlite keeps the results of every analysis run in a sqlite
// database: one row per run in the runs table, and the rows of each result
// table tagged with the id of the run that produced them.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mensio/brickstat/schema"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const runsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workflow TEXT NOT NULL,
	profile TEXT NOT NULL,
	digest TEXT NOT NULL,
	width_step REAL NOT NULL,
	height_step REAL NOT NULL,
	module REAL NOT NULL,
	materials TEXT NOT NULL,
	started DATETIME NOT NULL,
	finished DATETIME NOT NULL
)`

const queryInsertRun = `INSERT INTO runs (workflow, profile, digest, width_step, height_step, module, materials, started, finished) VALUES (?,?,?,?,?,?,?,?,?)`
const querySelectRuns = `SELECT id, workflow, profile, digest, width_step, height_step, module, materials, started, finished FROM runs ORDER BY id`

// Run describes one analysis run.
type Run struct {
	ID         int64
	Workflow   string
	Profile    string
	Digest     uint64
	WidthStep  float64
	HeightStep float64
	Module     float64
	Materials  string
	Started    time.Time
	Finished   time.Time
}

// Store is a sqlite database of runs.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection serializes the writers of the file
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(runsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

// SaveRun stores run and the rows of tables in a single transaction, and
// returns the id of the run. Result tables are created on first use and
// gain the columns they lack when a later run brings new ones.
func (s *Store) SaveRun(ctx context.Context, run Run, tables []schema.Table) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	id, err := saveRun(ctx, tx, run, tables)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warnf("sqlite: rollback of run failed: %s", rbErr)
		}
		return 0, err
	}
	return id, tx.Commit()
}

func saveRun(ctx context.Context, tx *sql.Tx, run Run, tables []schema.Table) (int64, error) {
	res, err := tx.ExecContext(ctx, queryInsertRun,
		run.Workflow, run.Profile, strconv.FormatUint(run.Digest, 16),
		run.WidthStep, run.HeightStep, run.Module, run.Materials,
		run.Started.UTC(), run.Finished.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, t := range tables {
		if err := ensureTable(ctx, tx, t); err != nil {
			return 0, fmt.Errorf("table %s: %w", t.Name, err)
		}
		if err := insertRows(ctx, tx, id, t); err != nil {
			return 0, fmt.Errorf("table %s: %w", t.Name, err)
		}
		log.Debugf("sqlite: run %d: stored %d rows in %s", id, len(t.Rows), t.Name)
	}
	return id, nil
}

// quote quotes an identifier.
func quote(name string) string {
	return `"` + strings.Replace(name, `"`, `""`, -1) + `"`
}

func ensureTable(ctx context.Context, tx *sql.Tx, t schema.Table) error {
	cols := []string{"run_id INTEGER NOT NULL REFERENCES runs(id)"}
	for _, c := range t.Columns {
		cols = append(cols, quote(c.Name)+" "+c.Kind.String())
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(t.Name), strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return err
	}

	existing, err := columns(ctx, tx, t.Name)
	if err != nil {
		return err
	}
	for _, c := range t.Columns {
		if _, ok := existing[c.Name]; ok {
			continue
		}
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", quote(t.Name), quote(c.Name), c.Kind.String())
		if _, err := tx.ExecContext(ctx, alter); err != nil {
			return err
		}
	}
	return nil
}

func columns(ctx context.Context, tx *sql.Tx, table string) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quote(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		out[name] = struct{}{}
	}
	return out, rows.Err()
}

func insertRows(ctx context.Context, tx *sql.Tx, runID int64, t schema.Table) error {
	names := []string{"run_id"}
	marks := []string{"?"}
	for _, c := range t.Columns {
		names = append(names, quote(c.Name))
		marks = append(marks, "?")
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(t.Name), strings.Join(names, ", "), strings.Join(marks, ","))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	args := make([]interface{}, len(names))
	args[0] = runID
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
		copy(args[1:], row)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// Runs returns every stored run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, querySelectRuns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		var digest string
		if err := rows.Scan(&r.ID, &r.Workflow, &r.Profile, &digest, &r.WidthStep, &r.HeightStep, &r.Module, &r.Materials, &r.Started, &r.Finished); err != nil {
			return nil, err
		}
		r.Digest, err = strconv.ParseUint(digest, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("run %d: bad digest %q: %w", r.ID, digest, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
