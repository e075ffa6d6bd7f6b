package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/reelcast/orchestrator/internal/domain"
)

// SQLiteSearcher implements Searcher over a local SQLite snippet table.
type SQLiteSearcher struct {
	db *sql.DB
}

// NewSQLiteSearcher opens (and migrates) the snippet database.
func NewSQLiteSearcher(dsn string) (*SQLiteSearcher, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteSearcher{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

var _ Searcher = (*SQLiteSearcher)(nil)

func (s *SQLiteSearcher) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS snippets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			posted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			is_vip INTEGER NOT NULL DEFAULT 0,
			vip_keyword TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_posted ON snippets(posted_at DESC)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLiteSearcher) Search(ctx context.Context, keyword string, limit int) ([]domain.Snippet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, posted_at, is_vip, COALESCE(vip_keyword, '')
		 FROM snippets
		 WHERE text LIKE '%' || ? || '%' OR COALESCE(vip_keyword, '') LIKE '%' || ? || '%'
		 ORDER BY is_vip DESC, posted_at DESC
		 LIMIT ?`,
		keyword, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search snippets: %w", err)
	}
	defer rows.Close()

	var snippets []domain.Snippet
	for rows.Next() {
		var sn domain.Snippet
		var vip int
		if err := rows.Scan(&sn.ID, &sn.Text, &sn.PostedAt, &vip, &sn.VIPKeyword); err != nil {
			return nil, fmt.Errorf("failed to scan snippet: %w", err)
		}
		sn.VIP = vip == 1
		snippets = append(snippets, sn)
	}
	return snippets, rows.Err()
}

func (s *SQLiteSearcher) Add(ctx context.Context, snippet domain.Snippet) (int64, error) {
	postedAt := snippet.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}
	vip := 0
	if snippet.VIP {
		vip = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snippets (text, posted_at, is_vip, vip_keyword) VALUES (?, ?, ?, ?)`,
		snippet.Text, postedAt, vip, snippet.VIPKeyword)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snippet: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteSearcher) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *SQLiteSearcher) Close() error {
	return s.db.Close()
}
