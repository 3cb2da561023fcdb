package rulestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kpaulsen/brandlens/model"
)

// schemaSQL is the base DDL, applied idempotently on open. Rules are
// stored as one JSON payload per row; category, confidence, and confirmed
// are duplicated into columns for querying without payload decoding.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS brands (
    brand_id   TEXT PRIMARY KEY,
    status     TEXT NOT NULL DEFAULT 'none',
    assets     JSON,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS rules (
    brand_id   TEXT NOT NULL,
    rule_id    TEXT NOT NULL,
    category   TEXT NOT NULL,
    confidence REAL NOT NULL,
    confirmed  INTEGER NOT NULL DEFAULT 0,
    position   INTEGER NOT NULL,
    payload    JSON NOT NULL,
    PRIMARY KEY (brand_id, rule_id)
);

CREATE INDEX IF NOT EXISTS idx_rules_brand_position ON rules(brand_id, position);

CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY
);
`

// migration is a single ordered schema change. New migrations are
// appended at the end; existing entries never change.
type migration struct {
	version int
	apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{
		version: 1,
		// Base schema, applied via schemaSQL before migrations run.
		apply: func(*sql.Tx) error { return nil },
	},
	{
		version: 2,
		apply: func(tx *sql.Tx) error {
			// Older databases predate the assets column.
			if _, err := tx.Exec(`ALTER TABLE brands ADD COLUMN assets JSON`); err != nil {
				// Column already exists on fresh databases.
				return nil
			}
			return nil
		},
	},
}

// SQLite is a Repository backed by a local SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ Repository = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) a rule database at path. Use
// ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("rulestore: opening database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("rulestore: applying schema: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func migrate(db *sql.DB) error {
	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("rulestore: reading schema version: %w", err)
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("rulestore: migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("rulestore: recording migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Rules(ctx context.Context, brandID string) ([]model.BrandRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM rules WHERE brand_id = ? ORDER BY position`, brandID)
	if err != nil {
		return nil, fmt.Errorf("rulestore: querying rules: %w", err)
	}
	defer rows.Close()

	var rules []model.BrandRule
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r model.BrandRule
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("rulestore: decoding rule payload: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *SQLite) SetRules(ctx context.Context, brandID string, rules []model.BrandRule, assets *ExtractedAssets) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules WHERE brand_id = ?`, brandID); err != nil {
		return err
	}
	for i, r := range rules {
		if err := insertRule(ctx, tx, brandID, r, i); err != nil {
			return err
		}
	}

	var assetsJSON any
	if assets != nil {
		data, err := json.Marshal(assets)
		if err != nil {
			return err
		}
		assetsJSON = string(data)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO brands (brand_id, status, assets, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(brand_id) DO UPDATE SET
			status = excluded.status,
			assets = COALESCE(excluded.assets, brands.assets),
			updated_at = CURRENT_TIMESTAMP`,
		brandID, StatusReview, assetsJSON); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRule(ctx context.Context, tx *sql.Tx, brandID string, r model.BrandRule, position int) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("rulestore: encoding rule %s: %w", r.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO rules (brand_id, rule_id, category, confidence, confirmed, position, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		brandID, r.ID, r.Category, r.Confidence, r.Confirmed, position, payload)
	return err
}

func (s *SQLite) Status(ctx context.Context, brandID string) (Status, error) {
	var status Status
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM brands WHERE brand_id = ?`, brandID).Scan(&status)
	if err == sql.ErrNoRows {
		return StatusNone, nil
	}
	if err != nil {
		return StatusNone, fmt.Errorf("rulestore: querying status: %w", err)
	}
	return status, nil
}

func (s *SQLite) SetStatus(ctx context.Context, brandID string, status Status) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO brands (brand_id, status, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(brand_id) DO UPDATE SET
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP`,
		brandID, status)
	return err
}

func (s *SQLite) ReplaceRule(ctx context.Context, brandID string, rule model.BrandRule) error {
	payload, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("rulestore: encoding rule %s: %w", rule.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE rules SET category = ?, confidence = ?, confirmed = ?, payload = ?
		WHERE brand_id = ? AND rule_id = ?`,
		rule.Category, rule.Confidence, rule.Confirmed, payload, brandID, rule.ID)
	return err
}

func (s *SQLite) ConfirmRule(ctx context.Context, brandID, ruleID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE rules SET
			confidence = 1.0,
			confirmed = 1,
			payload = json_set(payload, '$.confidence', 1.0, '$.confirmed', json('true'))
		WHERE brand_id = ? AND rule_id = ?`,
		brandID, ruleID)
	return err
}

func (s *SQLite) ConfirmAll(ctx context.Context, brandID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE rules SET
			confidence = 1.0,
			confirmed = 1,
			payload = json_set(payload, '$.confidence', 1.0, '$.confirmed', json('true'))
		WHERE brand_id = ?`, brandID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO brands (brand_id, status, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(brand_id) DO UPDATE SET
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP`,
		brandID, StatusComplete); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLite) DeleteRule(ctx context.Context, brandID, ruleID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM rules WHERE brand_id = ? AND rule_id = ?`, brandID, ruleID)
	return err
}

func (s *SQLite) AddRule(ctx context.Context, brandID string, rule model.BrandRule) (model.BrandRule, error) {
	if rule.ID == "" {
		rule.ID = model.NewRuleID()
	}
	rule = confirmed(rule)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.BrandRule{}, err
	}
	defer tx.Rollback()

	var position int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM rules WHERE brand_id = ?`,
		brandID).Scan(&position); err != nil {
		return model.BrandRule{}, err
	}
	if err := insertRule(ctx, tx, brandID, rule, position); err != nil {
		return model.BrandRule{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.BrandRule{}, err
	}
	return rule, nil
}

func (s *SQLite) Assets(ctx context.Context, brandID string) (ExtractedAssets, error) {
	var payload sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT assets FROM brands WHERE brand_id = ?`, brandID).Scan(&payload)
	if err == sql.ErrNoRows || (err == nil && !payload.Valid) {
		return ExtractedAssets{}, nil
	}
	if err != nil {
		return ExtractedAssets{}, fmt.Errorf("rulestore: querying assets: %w", err)
	}

	var assets ExtractedAssets
	if err := json.Unmarshal([]byte(payload.String), &assets); err != nil {
		return ExtractedAssets{}, fmt.Errorf("rulestore: decoding assets: %w", err)
	}
	return assets, nil
}

func (s *SQLite) Clear(ctx context.Context, brandID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules WHERE brand_id = ?`, brandID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE brands SET status = ?, assets = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE brand_id = ?`, StatusNone, brandID); err != nil {
		return err
	}

	return tx.Commit()
}
