package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bytedance/sonic"
	_ "modernc.org/sqlite"

	"github.com/duckos/duckos/backend/internal/shared/types"
)

// SQLite is a Store engine backed by an embedded single-file database.
// Nodes are stored as whole documents with the parent id broken out into
// an indexed column, matching the secondary-index contract.
type SQLite struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS nodes (
	id        TEXT PRIMARY KEY,
	parent_id TEXT,
	doc       BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
`

// NewSQLite opens (or creates) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral database.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	// The driver is safe for concurrent use but sqlite itself serializes
	// writers; a single connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Get fetches a node by id
func (s *SQLite) Get(ctx context.Context, id string) (*types.FileNode, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM nodes WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read node %s: %w", id, err)
	}
	return decodeNode(doc)
}

// Put upserts a node document
func (s *SQLite) Put(ctx context.Context, node *types.FileNode) error {
	doc, err := sonic.Marshal(node)
	if err != nil {
		return fmt.Errorf("failed to encode node %s: %w", node.ID, err)
	}

	var parent sql.NullString
	if node.ParentID != nil {
		parent = sql.NullString{String: *node.ParentID, Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO nodes (id, parent_id, doc) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET parent_id = excluded.parent_id, doc = excluded.doc`,
		node.ID, parent, doc)
	if err != nil {
		return fmt.Errorf("failed to write node %s: %w", node.ID, err)
	}
	return nil
}

// Delete removes a node by id; absent ids are a no-op
func (s *SQLite) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete node %s: %w", id, err)
	}
	return nil
}

// All returns every stored node
func (s *SQLite) All(ctx context.Context) ([]*types.FileNode, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	defer rows.Close()
	return collectNodes(rows)
}

// ByParent returns all nodes whose parent_id equals parentID
func (s *SQLite) ByParent(ctx context.Context, parentID string) ([]*types.FileNode, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM nodes WHERE parent_id = ?`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", parentID, err)
	}
	defer rows.Close()
	return collectNodes(rows)
}

// Close closes the underlying database
func (s *SQLite) Close() error {
	return s.db.Close()
}

func collectNodes(rows *sql.Rows) ([]*types.FileNode, error) {
	var out []*types.FileNode
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan node row: %w", err)
		}
		node, err := decodeNode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, rows.Err()
}

func decodeNode(doc []byte) (*types.FileNode, error) {
	var node types.FileNode
	if err := sonic.Unmarshal(doc, &node); err != nil {
		return nil, fmt.Errorf("failed to decode node document: %w", err)
	}
	return &node, nil
}
