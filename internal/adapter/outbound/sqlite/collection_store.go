// Package sqlite persists scene collections in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/scenecast/scenecast/internal/domain/resource"
)

//go:embed schema.sql
var schemaSQL string

// programSceneKey is the collection_meta key holding the program scene.
const programSceneKey = "program_scene"

// CollectionStore persists Collection snapshots. Save replaces the
// whole stored collection in one transaction; partial updates are not
// supported, matching the snapshot semantics of the domain type.
type CollectionStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the collection database at path.
func Open(path string) (*CollectionStore, error) {
	db, err := sql.Open("sqlite", path+
		"?_pragma=journal_mode(WAL)"+
		"&_pragma=foreign_keys(ON)"+
		"&_pragma=busy_timeout(5000)"+
		"&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer; SQLite handles concurrent writes poorly.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &CollectionStore{db: db, path: path}, nil
}

// Close closes the database.
func (s *CollectionStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *CollectionStore) Path() string {
	return s.path
}

// Save replaces the stored collection with the given snapshot.
func (s *CollectionStore) Save(ctx context.Context, col resource.Collection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Items first so the FK reference never dangles mid-transaction.
	if _, err := tx.ExecContext(ctx, `DELETE FROM scene_items`); err != nil {
		return fmt.Errorf("clear scene items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sources`); err != nil {
		return fmt.Errorf("clear sources: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_meta`); err != nil {
		return fmt.Errorf("clear meta: %w", err)
	}

	for _, src := range col.Sources {
		settings := src.Settings
		if settings == nil {
			settings = map[string]any{}
		}
		encoded, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("encode settings of %q: %w", src.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sources (name, kind, is_group, muted, settings)
			 VALUES (?, ?, ?, ?, ?)`,
			src.Name, src.Kind, boolInt(src.Group), boolInt(src.Muted), string(encoded)); err != nil {
			return fmt.Errorf("insert source %q: %w", src.Name, err)
		}

		for pos, item := range src.Items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO scene_items (scene_name, position, source_name, enabled)
				 VALUES (?, ?, ?, ?)`,
				src.Name, pos, item.SourceName, boolInt(item.Enabled)); err != nil {
				return fmt.Errorf("insert item %d of %q: %w", pos, src.Name, err)
			}
		}
	}

	if col.ProgramScene != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collection_meta (key, value) VALUES (?, ?)`,
			programSceneKey, col.ProgramScene); err != nil {
			return fmt.Errorf("store program scene: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load reads the stored collection. An empty database yields an empty
// collection, not an error.
func (s *CollectionStore) Load(ctx context.Context) (resource.Collection, error) {
	var col resource.Collection

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, kind, is_group, muted, settings FROM sources ORDER BY name`)
	if err != nil {
		return col, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var (
			snap            resource.SourceSnapshot
			isGroup, muted  int
			encodedSettings string
		)
		if err := rows.Scan(&snap.Name, &snap.Kind, &isGroup, &muted, &encodedSettings); err != nil {
			return col, fmt.Errorf("scan source: %w", err)
		}
		snap.Group = isGroup != 0
		snap.Muted = muted != 0

		var settings map[string]any
		if err := json.Unmarshal([]byte(encodedSettings), &settings); err != nil {
			return col, fmt.Errorf("decode settings of %q: %w", snap.Name, err)
		}
		if len(settings) > 0 {
			snap.Settings = settings
		}

		index[snap.Name] = len(col.Sources)
		col.Sources = append(col.Sources, snap)
	}
	if err := rows.Err(); err != nil {
		return col, fmt.Errorf("iterate sources: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		`SELECT scene_name, source_name, enabled FROM scene_items ORDER BY scene_name, position`)
	if err != nil {
		return col, fmt.Errorf("query scene items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			sceneName string
			item      resource.ItemSnapshot
			enabled   int
		)
		if err := itemRows.Scan(&sceneName, &item.SourceName, &enabled); err != nil {
			return col, fmt.Errorf("scan scene item: %w", err)
		}
		item.Enabled = enabled != 0

		i, ok := index[sceneName]
		if !ok {
			return col, fmt.Errorf("scene item references unknown scene %q", sceneName)
		}
		col.Sources[i].Items = append(col.Sources[i].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return col, fmt.Errorf("iterate scene items: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM collection_meta WHERE key = ?`, programSceneKey).Scan(&col.ProgramScene)
	if err != nil && err != sql.ErrNoRows {
		return col, fmt.Errorf("query program scene: %w", err)
	}

	return col, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
