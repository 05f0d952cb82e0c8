package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// timeLayout is fixed width so that lexical order of stored values equals
// chronological order. Values are always written in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Column order must match promptRow.scanArgs and promptInsertArgs.
const promptColumns = `id, title, prompt_text, notes, author, language, category, created_at, updated_at, last_used_at, favorite, status`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// storedTimeLayouts are accepted when reading. Older databases hold SQLite's
// CURRENT_TIMESTAMP form and bare dates; values without a zone are UTC.
var storedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func nullToStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func stringPtrToNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func timePtrToNull(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// promptRow holds all columns of a prompts query for scanning.
type promptRow struct {
	ID         string
	Title      string
	PromptText string
	Notes      sql.NullString
	Author     sql.NullString
	Language   sql.NullString
	Category   sql.NullString
	CreatedAt  string
	UpdatedAt  string
	LastUsedAt sql.NullString
	Favorite   int64
	Status     string
}

func (r *promptRow) scanArgs() []any {
	return []any{
		&r.ID, &r.Title, &r.PromptText,
		&r.Notes, &r.Author, &r.Language, &r.Category,
		&r.CreatedAt, &r.UpdatedAt, &r.LastUsedAt,
		&r.Favorite, &r.Status,
	}
}

func (r *promptRow) toDomain() (*Prompt, error) {
	p := &Prompt{
		ID:         r.ID,
		Title:      r.Title,
		PromptText: r.PromptText,
		Notes:      nullToStringPtr(r.Notes),
		Author:     nullToStringPtr(r.Author),
		Language:   nullToStringPtr(r.Language),
		Category:   nullToStringPtr(r.Category),
		Favorite:   r.Favorite != 0,
		Status:     r.Status,
	}

	var err error
	if p.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("prompt %s created_at: %w", r.ID, err)
	}
	if p.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("prompt %s updated_at: %w", r.ID, err)
	}
	if r.LastUsedAt.Valid && r.LastUsedAt.String != "" {
		t, err := parseTime(r.LastUsedAt.String)
		if err != nil {
			return nil, fmt.Errorf("prompt %s last_used_at: %w", r.ID, err)
		}
		p.LastUsedAt = &t
	}
	return p, nil
}

// promptInsertArgs returns values in promptColumns order.
func promptInsertArgs(p *Prompt) []any {
	return []any{
		p.ID, p.Title, p.PromptText,
		stringPtrToNull(p.Notes), stringPtrToNull(p.Author),
		stringPtrToNull(p.Language), stringPtrToNull(p.Category),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt), timePtrToNull(p.LastUsedAt),
		boolToInt(p.Favorite), p.Status,
	}
}

func scanPrompts(rows *sql.Rows) ([]Prompt, error) {
	prompts := []Prompt{}
	for rows.Next() {
		var r promptRow
		if err := rows.Scan(r.scanArgs()...); err != nil {
			return nil, err
		}
		p, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, *p)
	}
	return prompts, rows.Err()
}
