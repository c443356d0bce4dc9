// Package repository defines the wardrobe store interface and errors.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
	"github.com/okalli/garb/pkg/metrics"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "garb.db"

// SQLiteStore implements Store on a single SQLite database. Tag sets,
// colors, and embeddings live in JSON columns; rows are keyed by
// (owner_id, id).
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens the wardrobe database (creating it if needed),
// applies the connection pragmas, and runs migrations.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{path: DefaultPath}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("repository: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("repository: pragma %q: %w", p, err)
		}
	}

	s.db = db
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS wardrobe_items (
			owner_id    TEXT    NOT NULL,
			id          TEXT    NOT NULL,
			category    TEXT    NOT NULL,
			subcategory TEXT    NOT NULL DEFAULT '',
			colors      TEXT    NOT NULL DEFAULT '[]',
			materials   TEXT    NOT NULL DEFAULT '[]',
			styles      TEXT    NOT NULL DEFAULT '[]',
			seasons     TEXT    NOT NULL DEFAULT '[]',
			warmth      INTEGER NOT NULL DEFAULT 0,
			formality   INTEGER NOT NULL DEFAULT 0,
			brand       TEXT    NOT NULL DEFAULT '',
			fit         TEXT    NOT NULL DEFAULT '',
			image_url   TEXT    NOT NULL DEFAULT '',
			source_url  TEXT    NOT NULL DEFAULT '',
			notes       TEXT    NOT NULL DEFAULT '',
			embedding   TEXT    NOT NULL DEFAULT '[]',
			added_at    TEXT    NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (owner_id, id)
		);

		CREATE INDEX IF NOT EXISTS idx_items_owner_category ON wardrobe_items(owner_id, category);
		CREATE INDEX IF NOT EXISTS idx_items_owner_added   ON wardrobe_items(owner_id, added_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

const itemColumns = `owner_id, id, category, subcategory, colors, materials, styles, seasons,
	warmth, formality, brand, fit, image_url, source_url, notes, embedding, added_at`

// Upsert inserts an item or replaces the stored version with the same
// (owner, id).
func (s *SQLiteStore) Upsert(ctx context.Context, item model.WardrobeItem) error {
	if item.ID == "" || item.OwnerID == "" {
		return fmt.Errorf("%w: missing id or owner", ErrInvalidItem)
	}
	start := time.Now()

	addedAt := item.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wardrobe_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, id) DO UPDATE SET
			category    = excluded.category,
			subcategory = excluded.subcategory,
			colors      = excluded.colors,
			materials   = excluded.materials,
			styles      = excluded.styles,
			seasons     = excluded.seasons,
			warmth      = excluded.warmth,
			formality   = excluded.formality,
			brand       = excluded.brand,
			fit         = excluded.fit,
			image_url   = excluded.image_url,
			source_url  = excluded.source_url,
			notes       = excluded.notes,
			embedding   = excluded.embedding`,
		item.OwnerID, item.ID, string(item.Category), item.Subcategory,
		encodeJSON(item.Colors), encodeJSON(item.Materials),
		encodeJSON(item.Styles), encodeJSON(item.Seasons),
		item.Warmth, item.Formality,
		item.Brand, item.Fit, item.ImageURL, item.SourceURL, item.Notes,
		encodeJSON(item.Embedding), addedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("repository: upsert item %s: %w", item.ID, err)
	}
	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// QueryByID returns a single item for the owner.
func (s *SQLiteStore) QueryByID(ctx context.Context, ownerID, id string) (model.WardrobeItem, error) {
	start := time.Now()
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM wardrobe_items
		WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WardrobeItem{}, ErrNotFound
	}
	if err != nil {
		return model.WardrobeItem{}, fmt.Errorf("repository: query item %s: %w", id, err)
	}
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	return item, nil
}

// QueryByFilters returns an owner's items matching the filters, ordered
// by insertion time then id. The season filter applies the wardrobe
// wearability rule, so it runs over the decoded rows.
func (s *SQLiteStore) QueryByFilters(ctx context.Context, ownerID string, filters Filters) ([]model.WardrobeItem, error) {
	start := time.Now()

	query := `
		SELECT ` + itemColumns + `
		FROM wardrobe_items
		WHERE owner_id = ?`
	args := []any{ownerID}

	if filters.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filters.Category))
	}
	query += " ORDER BY added_at ASC, id ASC"
	if filters.Limit > 0 && filters.Season == "" {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: query items for %s: %w", ownerID, err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.WardrobeItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: scan item: %w", err)
		}
		if filters.Season != "" && !item.WearableIn(filters.Season) {
			continue
		}
		items = append(items, item)
		if filters.Limit > 0 && len(items) >= filters.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate items for %s: %w", ownerID, err)
	}
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	return items, nil
}

// Delete removes an item from the store.
func (s *SQLiteStore) Delete(ctx context.Context, ownerID, id string) error {
	start := time.Now()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM wardrobe_items WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	)
	if err != nil {
		return fmt.Errorf("repository: delete item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// Count returns the number of stored items across all owners.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var count int
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wardrobe_items`).Scan(&count)
	return count
}

// Owners returns the distinct owner ids with at least one item.
func (s *SQLiteStore) Owners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT owner_id FROM wardrobe_items ORDER BY owner_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: query owners: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("repository: scan owner: %w", err)
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (model.WardrobeItem, error) {
	var (
		item      model.WardrobeItem
		category  string
		colors    string
		materials string
		styles    string
		seasons   string
		embedding string
		addedAt   string
	)
	err := row.Scan(
		&item.OwnerID, &item.ID, &category, &item.Subcategory,
		&colors, &materials, &styles, &seasons,
		&item.Warmth, &item.Formality,
		&item.Brand, &item.Fit, &item.ImageURL, &item.SourceURL, &item.Notes,
		&embedding, &addedAt,
	)
	if err != nil {
		return model.WardrobeItem{}, err
	}

	item.Category = taxonomy.Category(category)
	if err := decodeJSON(colors, &item.Colors); err != nil {
		return model.WardrobeItem{}, err
	}
	if err := decodeJSON(materials, &item.Materials); err != nil {
		return model.WardrobeItem{}, err
	}
	if err := decodeJSON(styles, &item.Styles); err != nil {
		return model.WardrobeItem{}, err
	}
	if err := decodeJSON(seasons, &item.Seasons); err != nil {
		return model.WardrobeItem{}, err
	}
	if err := decodeJSON(embedding, &item.Embedding); err != nil {
		return model.WardrobeItem{}, err
	}
	if ts, err := time.Parse(time.RFC3339Nano, addedAt); err == nil {
		item.AddedAt = ts
	}
	return item, nil
}

func encodeJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
