// Package storage persists world modifications and container contents in a
// SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/StoreStation/BetaCraft/pkg/nbt"
	"github.com/StoreStation/BetaCraft/pkg/world"
)

// Store is a handle on the world database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cells (
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			type INTEGER NOT NULL,
			meta INTEGER NOT NULL,
			PRIMARY KEY (x, y, z)
		);`,
		`CREATE TABLE IF NOT EXISTS complex_entities (
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (x, y, z)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveWorld writes every modified cell and every attached tag tree of w.
// Trees no longer present in w are removed from the database.
func (s *Store) SaveWorld(ctx context.Context, w *world.World) error {
	return s.Save(ctx, w.Snapshot())
}

// Save writes a world snapshot in one transaction.
func (s *Store) Save(ctx context.Context, snap world.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cellStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cells (x, y, z, type, meta) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (x, y, z) DO UPDATE SET type = excluded.type, meta = excluded.meta`)
	if err != nil {
		return err
	}
	defer cellStmt.Close()

	for pos, c := range snap.Cells {
		if _, err := cellStmt.ExecContext(ctx, pos.X, pos.Y, pos.Z, int(c.Type), int(c.Meta)); err != nil {
			return fmt.Errorf("save cell %v: %w", pos, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM complex_entities`); err != nil {
		return err
	}
	for _, pos := range snap.Positions {
		data, err := nbt.EncodeGzip(snap.Trees[pos])
		if err != nil {
			return fmt.Errorf("encode tree at %v: %w", pos, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO complex_entities (x, y, z, data) VALUES (?, ?, ?, ?)`,
			pos.X, pos.Y, pos.Z, data); err != nil {
			return fmt.Errorf("save tree at %v: %w", pos, err)
		}
	}
	return tx.Commit()
}

// LoadWorld restores saved cells and tag trees into w. Cells are applied
// before trees so that a chest's contents survive.
func (s *Store) LoadWorld(ctx context.Context, w *world.World) (cells, trees int, err error) {
	rows, err := s.db.QueryContext(ctx, `SELECT x, y, z, type, meta FROM cells`)
	if err != nil {
		return 0, 0, err
	}
	for rows.Next() {
		var x, y, z int32
		var typ, meta int
		if err := rows.Scan(&x, &y, &z, &typ, &meta); err != nil {
			rows.Close()
			return cells, trees, err
		}
		if w.SetBlock(x, y, z, world.Cell{Type: byte(typ), Meta: byte(meta)}) {
			cells++
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return cells, trees, err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT x, y, z, data FROM complex_entities`)
	if err != nil {
		return cells, trees, err
	}
	defer rows.Close()
	for rows.Next() {
		var x, y, z int32
		var data []byte
		if err := rows.Scan(&x, &y, &z, &data); err != nil {
			return cells, trees, err
		}
		tree, err := nbt.DecodeGzip(data)
		if err != nil {
			return cells, trees, fmt.Errorf("tree at (%d, %d, %d): %w", x, y, z, err)
		}
		w.SetComplexEntity(x, y, z, tree)
		trees++
	}
	return cells, trees, rows.Err()
}
