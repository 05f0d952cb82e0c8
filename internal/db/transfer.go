package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Import upserts records by id. Records without an id get a new one; an
// existing id has every field replaced, timestamps included. The whole batch
// is validated before anything is written and applied in one transaction.
// It returns the number of records processed.
func (s *Store) Import(records []PromptImport) (int, error) {
	now := s.timestamp()

	prompts := make([]*Prompt, 0, len(records))
	for i, rec := range records {
		p, err := rec.toPrompt(now)
		if err != nil {
			return 0, serializationErr("import", fmt.Errorf("record %d: %w", i, err))
		}
		prompts = append(prompts, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, storageErr("import", "", err)
	}
	defer tx.Rollback()

	for _, p := range prompts {
		existing, err := getPrompt(tx, p.ID)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			err = overwritePrompt(tx, p)
		} else {
			err = insertPrompt(tx, p)
		}
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("import", "", err)
	}
	return len(prompts), nil
}

func (rec PromptImport) toPrompt(now time.Time) (*Prompt, error) {
	if rec.Title == nil {
		return nil, errors.New("missing field title")
	}
	if rec.PromptText == nil {
		return nil, errors.New("missing field prompt_text")
	}

	p := &Prompt{
		ID:         newID(),
		Title:      *rec.Title,
		PromptText: *rec.PromptText,
		Notes:      rec.Notes,
		Author:     rec.Author,
		Language:   rec.Language,
		Category:   rec.Category,
		CreatedAt:  now,
		UpdatedAt:  now,
		LastUsedAt: rec.LastUsedAt,
		Status:     StatusDraft,
	}
	if rec.ID != nil && *rec.ID != "" {
		p.ID = *rec.ID
	}
	if rec.Favorite != nil {
		p.Favorite = *rec.Favorite
	}
	if rec.Status != nil {
		p.Status = *rec.Status
	}
	if rec.CreatedAt != nil {
		p.CreatedAt = rec.CreatedAt.UTC()
	}
	if rec.UpdatedAt != nil {
		p.UpdatedAt = rec.UpdatedAt.UTC()
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}
	return p, nil
}

// ImportJSON parses a JSON array of prompts and imports it.
func (s *Store) ImportJSON(data []byte) (int, error) {
	var records []PromptImport
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, serializationErr("import", err)
	}
	return s.Import(records)
}

// Export returns every prompt, newest first.
func (s *Store) Export() ([]Prompt, error) {
	return s.List(AllPrompts())
}

// ExportJSON returns every prompt as a pretty-printed JSON array.
func (s *Store) ExportJSON() ([]byte, error) {
	prompts, err := s.Export()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(prompts, "", "  ")
	if err != nil {
		return nil, serializationErr("export", err)
	}
	return data, nil
}
