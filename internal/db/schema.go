package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// Schema versions:
// 0 - prompts with source/source_url columns plus tags/prompt_tags tables
// 1 - tag tables dropped, provenance columns removed
// 2 - timestamps rewritten as fixed-width UTC
const currentSchemaVersion = 2

const createPromptsSQL = `
	CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		prompt_text TEXT NOT NULL,
		notes TEXT,
		author TEXT,
		language TEXT,
		category TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		last_used_at TEXT,
		favorite INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'draft'
	)`

const promptIndexes = `
	CREATE INDEX IF NOT EXISTS idx_prompts_created_at ON prompts(created_at);
	CREATE INDEX IF NOT EXISTS idx_prompts_last_used_at ON prompts(last_used_at);
	CREATE INDEX IF NOT EXISTS idx_prompts_category ON prompts(category);
`

// retiredColumns trigger a table rebuild when found on prompts.
var retiredColumns = []string{"source", "source_url"}

// promptFieldNames lists the current prompts columns in table order.
var promptFieldNames = strings.Split(strings.ReplaceAll(promptColumns, " ", ""), ",")

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read user_version: %w", err)
	}

	// The tagging subsystem is gone; its tables are dropped unconditionally.
	if _, err := s.db.Exec(`DROP TABLE IF EXISTS prompt_tags; DROP TABLE IF EXISTS tags;`); err != nil {
		return fmt.Errorf("failed to drop tag tables: %w", err)
	}

	columns, err := s.tableColumns("prompts")
	if err != nil {
		return err
	}
	if hasRetiredColumn(columns) {
		if err := s.rebuildPromptsTable(columns); err != nil {
			return err
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf(createPromptsSQL, "prompts")); err != nil {
		return fmt.Errorf("failed to create prompts table: %w", err)
	}
	if _, err := s.db.Exec(promptIndexes); err != nil {
		return fmt.Errorf("failed to create prompts indexes: %w", err)
	}

	res, err := s.db.Exec(`UPDATE prompts SET category = ? WHERE category IS NULL OR category = ''`, FallbackCategory)
	if err != nil {
		return fmt.Errorf("failed to backfill categories: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("assigned fallback category", "category", FallbackCategory, "prompts", n)
	}

	if version < 2 {
		if err := s.normalizeTimestamps(); err != nil {
			return err
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// tableColumns returns the column names of table, or nil if it does not exist.
func (s *Store) tableColumns(table string) ([]string, error) {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

func hasRetiredColumn(columns []string) bool {
	for _, c := range columns {
		for _, retired := range retiredColumns {
			if c == retired {
				return true
			}
		}
	}
	return false
}

// rebuildPromptsTable recreates prompts with the current columns, carrying
// over every current column the old table has. It runs in one transaction so
// the table is never left split between the old and new names.
func (s *Store) rebuildPromptsTable(oldColumns []string) error {
	slog.Info("rebuilding prompts table", "retired_columns", retiredColumns)

	present := make(map[string]bool, len(oldColumns))
	for _, c := range oldColumns {
		present[c] = true
	}

	var dest, src []string
	for _, name := range promptFieldNames {
		if !present[name] {
			continue
		}
		dest = append(dest, name)
		switch name {
		case "favorite":
			src = append(src, "COALESCE(favorite, 0)")
		case "status":
			src = append(src, fmt.Sprintf("COALESCE(status, '%s')", StatusDraft))
		default:
			src = append(src, name)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin rebuild: %w", err)
	}
	defer tx.Rollback()

	steps := []string{
		`DROP TABLE IF EXISTS prompts_new`,
		fmt.Sprintf(createPromptsSQL, "prompts_new"),
		fmt.Sprintf(`INSERT INTO prompts_new (%s) SELECT %s FROM prompts`,
			strings.Join(dest, ", "), strings.Join(src, ", ")),
		`DROP TABLE prompts`,
		`ALTER TABLE prompts_new RENAME TO prompts`,
	}
	for _, stmt := range steps {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to rebuild prompts table: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebuild: %w", err)
	}
	return nil
}

type storedTimes struct {
	id               string
	created, updated string
	lastUsed         sql.NullString
}

// normalizeTimestamps rewrites every timestamp into timeLayout so ordering by
// the text columns is chronological. Unreadable created_at falls back to
// updated_at, then to now; unreadable updated_at falls back to created_at and
// unreadable last_used_at is cleared. updated_at is never left before created_at.
func (s *Store) normalizeTimestamps() error {
	rows, err := s.db.Query(`SELECT id, created_at, updated_at, last_used_at FROM prompts`)
	if err != nil {
		return fmt.Errorf("failed to read timestamps: %w", err)
	}
	var stored []storedTimes
	for rows.Next() {
		var st storedTimes
		if err := rows.Scan(&st.id, &st.created, &st.updated, &st.lastUsed); err != nil {
			rows.Close()
			return fmt.Errorf("failed to read timestamps: %w", err)
		}
		stored = append(stored, st)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read timestamps: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin timestamp rewrite: %w", err)
	}
	defer tx.Rollback()

	now := s.timestamp()
	rewritten := 0
	for _, st := range stored {
		created, createdErr := parseTime(st.created)
		updated, updatedErr := parseTime(st.updated)
		switch {
		case createdErr == nil:
		case updatedErr == nil:
			created = updated
		default:
			created = now
		}
		if updatedErr != nil || updated.Before(created) {
			updated = created
		}
		if createdErr != nil || updatedErr != nil {
			slog.Warn("replaced unreadable timestamp", "prompt", st.id, "created_at", st.created, "updated_at", st.updated)
		}

		lastUsed := sql.NullString{}
		if st.lastUsed.Valid && st.lastUsed.String != "" {
			if t, err := parseTime(st.lastUsed.String); err == nil {
				lastUsed = sql.NullString{String: formatTime(t), Valid: true}
			} else {
				slog.Warn("cleared unreadable last_used_at", "prompt", st.id, "last_used_at", st.lastUsed.String)
			}
		}

		c, u := formatTime(created), formatTime(updated)
		if c == st.created && u == st.updated && lastUsed == st.lastUsed {
			continue
		}
		if _, err := tx.Exec(`UPDATE prompts SET created_at = ?, updated_at = ?, last_used_at = ? WHERE id = ?`,
			c, u, lastUsed, st.id); err != nil {
			return fmt.Errorf("failed to rewrite timestamps: %w", err)
		}
		rewritten++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit timestamp rewrite: %w", err)
	}
	if rewritten > 0 {
		slog.Info("normalized timestamps", "prompts", rewritten)
	}
	return nil
}
