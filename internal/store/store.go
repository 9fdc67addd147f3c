// Package store keeps a SQLite history of parsed reports.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/ppiankov/rivenscan/internal/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no report has the requested ID
var ErrNotFound = errors.New("report not found")

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	weapon TEXT,
	name TEXT,
	valid INTEGER NOT NULL,
	stat_count INTEGER NOT NULL,
	parsed_at TEXT NOT NULL,
	report_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS reports_weapon ON reports(weapon);
`

// Summary is one row of the history listing
type Summary struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Weapon    string    `json:"weapon"`
	Name      string    `json:"name"`
	Valid     bool      `json:"valid"`
	StatCount int       `json:"stat_count"`
	ParsedAt  time.Time `json:"parsed_at"`
}

// Store is the report history
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// Open opens (and creates) the database at path
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

// Save stores report under a new ULID and sets report.ID
func (s *Store) Save(ctx context.Context, report *model.Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("save report: nil report")
	}
	report.ID = s.newID()
	if report.ParsedAt.IsZero() {
		report.ParsedAt = s.now().UTC()
	}

	data, err := json.Marshal(report)
	if err != nil {
		report.ID = ""
		return "", fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, source, weapon, name, valid, stat_count, parsed_at, report_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.Source,
		report.Record.Weapon(),
		report.Names.Recommended,
		boolToInt(report.Validation.IsValid),
		len(report.Record.Stats),
		report.ParsedAt.UTC().Format(time.RFC3339Nano),
		string(data),
	)
	if err != nil {
		report.ID = ""
		return "", fmt.Errorf("insert report: %w", err)
	}
	return report.ID, nil
}

// Get loads a stored report
func (s *Store) Get(ctx context.Context, id string) (*model.Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM reports WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

// List returns the newest reports first. A weapon filter of "" matches all.
func (s *Store) List(ctx context.Context, weapon string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, weapon, name, valid, stat_count, parsed_at
		 FROM reports
		 WHERE ? = '' OR weapon = ? COLLATE NOCASE
		 ORDER BY id DESC
		 LIMIT ?`,
		weapon, weapon, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Summary
	for rows.Next() {
		var (
			sum      Summary
			weaponNS sql.NullString
			nameNS   sql.NullString
			valid    int
			parsedAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Source, &weaponNS, &nameNS, &valid, &sum.StatCount, &parsedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		sum.Weapon = weaponNS.String
		sum.Name = nameNS.String
		sum.Valid = valid != 0
		if t, err := time.Parse(time.RFC3339Nano, parsedAt); err == nil {
			sum.ParsedAt = t
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

// Delete removes a stored report
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
