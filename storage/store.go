// Package storage persists resolved analyses to SQLite as an append-only
// history. The in-memory result cache is the only cache; this store exists
// for auditing and for the CLI's recent-analyses view.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/raine/catalog-vision/catalog"
)

// Record is one persisted analysis.
type Record struct {
	ID         int64
	ProductID  string
	ContentKey string
	Result     catalog.AIAnalysisResult
	CreatedAt  time.Time
}

// HistoryStore defines the interface for analysis persistence.
type HistoryStore interface {
	Save(record *Record) error
	Recent(limit int) ([]Record, error)
	Close() error
}

// SQLiteStore implements HistoryStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore creates a SQLite-backed history store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id TEXT NOT NULL,
		content_key TEXT NOT NULL,
		scene_type TEXT NOT NULL,
		product_type TEXT NOT NULL,
		method TEXT NOT NULL,
		confidence REAL NOT NULL,
		result_json TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_content_key ON analyses(content_key);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create analyses table: %w", err)
	}
	return nil
}

// Save appends one analysis record. The full result is stored as JSON next
// to the columns used for querying.
func (s *SQLiteStore) Save(record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	sceneType := ""
	if len(record.Result.SceneTypes) > 0 {
		sceneType = string(record.Result.SceneTypes[0])
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.Exec(
		`INSERT INTO analyses (product_id, content_key, scene_type, product_type, method, confidence, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ProductID,
		record.ContentKey,
		sceneType,
		record.Result.ProductType,
		string(record.Result.AnalysisMethod),
		record.Result.Confidence,
		string(resultJSON),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		record.ID = id
	}
	record.CreatedAt = createdAt
	return nil
}

// Recent returns the newest records, most recent first.
func (s *SQLiteStore) Recent(limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, product_id, content_key, result_json, created_at
		 FROM analyses ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var resultJSON string
		if err := rows.Scan(&r.ID, &r.ProductID, &r.ContentKey, &resultJSON, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		if err := json.Unmarshal([]byte(resultJSON), &r.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stored result: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
