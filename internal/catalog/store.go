package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.accord/accord.db"

// ErrDuplicate is returned by Add when an identical record already exists.
var ErrDuplicate = errors.New("catalog: duplicate record")

// Store is the SQLite-backed fragrance repository.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Stats holds counts about the catalog.
type Stats struct {
	Records     int64 `json:"records"`
	Brands      int64 `json:"brands"`
	DBSizeBytes int64 `json:"db_size_bytes"`
}

// Open opens (creating if needed) the catalog database at path.
// Pass ":memory:" for in-memory databases (testing).
func Open(path string) (*Store, error) {
	if path == "" {
		path = expandPath(DefaultDBPath)
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// An in-memory database exists per connection; cap the pool so every
	// query sees the same data.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, dbPath: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS fragrances (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			name         TEXT NOT NULL,
			brand        TEXT NOT NULL DEFAULT '',
			accords      TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			gender       TEXT NOT NULL DEFAULT '',
			rating_value REAL NOT NULL DEFAULT 0,
			rating_count INTEGER NOT NULL DEFAULT 0,
			search_text  TEXT NOT NULL DEFAULT '',
			content_hash TEXT UNIQUE NOT NULL,
			imported_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE VIRTUAL TABLE IF NOT EXISTS fragrances_fts USING fts5(
			name,
			brand,
			accords,
			description,
			content=fragrances,
			content_rowid=id,
			tokenize='unicode61'
		)`,

		`CREATE TRIGGER IF NOT EXISTS fragrances_ai AFTER INSERT ON fragrances BEGIN
			INSERT INTO fragrances_fts(rowid, name, brand, accords, description)
			VALUES (new.id, new.name, new.brand, new.accords, new.description);
		END`,

		`CREATE TRIGGER IF NOT EXISTS fragrances_ad AFTER DELETE ON fragrances BEGIN
			INSERT INTO fragrances_fts(fragrances_fts, rowid, name, brand, accords, description)
			VALUES('delete', old.id, old.name, old.brand, old.accords, old.description);
		END`,

		`CREATE TRIGGER IF NOT EXISTS fragrances_au AFTER UPDATE ON fragrances BEGIN
			INSERT INTO fragrances_fts(fragrances_fts, rowid, name, brand, accords, description)
			VALUES('delete', old.id, old.name, old.brand, old.accords, old.description);
			INSERT INTO fragrances_fts(rowid, name, brand, accords, description)
			VALUES (new.id, new.name, new.brand, new.accords, new.description);
		END`,

		`CREATE INDEX IF NOT EXISTS idx_fragrances_brand ON fragrances(brand)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}

// Add inserts one record. Identical rows (same name/brand/accords/
// description) are deduplicated by content hash and reported as
// ErrDuplicate so re-imports stay idempotent.
func (s *Store) Add(ctx context.Context, r *Record) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO fragrances (name, brand, accords, description, gender, rating_value, rating_count, search_text, content_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Brand, r.MainAccords, r.Description, r.Gender,
		r.RatingValue, r.RatingCount, searchText(r), contentHash(r),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("inserting record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting insert id: %w", err)
	}
	r.ID = id
	return id, nil
}

// Get returns one record by id.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	return scanRecord(row)
}

// Count returns the number of records in the catalog.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fragrances`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

const selectColumns = `SELECT id, name, brand, accords, description, gender, rating_value, rating_count FROM fragrances`

// Search finds records matching query across name, brand, accords and
// description. FTS5 keyword matching runs first (ranked by BM25); when it
// errors on unbalanced syntax or finds nothing, a substring LIKE scan over
// the pre-lowercased search text takes over, which also covers partial
// words and Cyrillic case folding.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	results, err := s.searchFTS(ctx, query, limit)
	if err == nil && len(results) > 0 {
		return results, nil
	}
	return s.searchLike(ctx, query, limit)
}

func (s *Store) searchFTS(ctx context.Context, query string, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT f.id, f.name, f.brand, f.accords, f.description, f.gender, f.rating_value, f.rating_count
		 FROM fragrances_fts
		 JOIN fragrances f ON fragrances_fts.rowid = f.id
		 WHERE fragrances_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		matchQuery(query), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("FTS search: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *Store) searchLike(ctx context.Context, query string, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+`
		 WHERE search_text LIKE '%' || ? || '%'
		 ORDER BY rating_count DESC, name ASC
		 LIMIT ?`,
		strings.ToLower(query), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("substring search: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// FindByName looks up the catalog row for an authored preset name. The
// match is deliberately loose: first any row containing the last word of
// the name (the most distinctive token in practice), preferring a row whose
// brand+name contains the full authored string. Returns (nil, nil) when the
// catalog has no plausible row.
func (s *Store) FindByName(ctx context.Context, name string) (*Record, error) {
	tokens := strings.Fields(strings.ToLower(name))
	if len(tokens) == 0 {
		return nil, nil
	}

	candidates, err := s.searchLike(ctx, tokens[len(tokens)-1], 25)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	full := strings.ToLower(strings.TrimSpace(name))
	for i, c := range candidates {
		combined := strings.ToLower(c.BrandName() + " " + c.Name)
		if strings.Contains(combined, full) || strings.Contains(strings.ToLower(c.Name), full) {
			return &candidates[i], nil
		}
	}
	return &candidates[0], nil
}

// Stats reports catalog size and distinct brand count.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fragrances`).Scan(&st.Records); err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT LOWER(TRIM(brand))) FROM fragrances WHERE TRIM(brand) != ''`,
	).Scan(&st.Brands); err != nil {
		return nil, fmt.Errorf("counting brands: %w", err)
	}
	if s.dbPath != ":memory:" {
		if info, err := os.Stat(s.dbPath); err == nil {
			st.DBSizeBytes = info.Size()
		}
	}
	return st, nil
}

// matchQuery quotes every token so user input can never be parsed as FTS5
// syntax. Tokens are implicitly ANDed.
func matchQuery(query string) string {
	fields := strings.Fields(query)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, ``)+`"`)
	}
	return strings.Join(quoted, " ")
}

// searchText builds the pre-lowercased substring search column.
func searchText(r *Record) string {
	return strings.ToLower(strings.Join([]string{r.Name, r.BrandName(), r.MainAccords, r.Description}, " "))
}

// contentHash fingerprints the fields that define record identity.
func contentHash(r *Record) string {
	h := sha256.Sum256([]byte(r.Name + "|" + r.Brand + "|" + r.MainAccords + "|" + r.Description))
	return hex.EncodeToString(h[:])
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Brand, &r.MainAccords, &r.Description,
			&r.Gender, &r.RatingValue, &r.RatingCount); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRecord(row *sql.Row) (*Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.Name, &r.Brand, &r.MainAccords, &r.Description,
		&r.Gender, &r.RatingValue, &r.RatingCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	return &r, nil
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
