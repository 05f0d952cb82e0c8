package db

import (
	"database/sql"
	"errors"
)

const (
	selectPromptSQL = `SELECT ` + promptColumns + ` FROM prompts WHERE id = ?`

	insertPromptSQL = `INSERT INTO prompts (` + promptColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	updatePromptSQL = `
		UPDATE prompts SET title = ?, prompt_text = ?, notes = ?, author = ?, language = ?, category = ?,
			updated_at = ?, last_used_at = ?, favorite = ?, status = ?
		WHERE id = ?`

	overwritePromptSQL = `
		UPDATE prompts SET title = ?, prompt_text = ?, notes = ?, author = ?, language = ?, category = ?,
			created_at = ?, updated_at = ?, last_used_at = ?, favorite = ?, status = ?
		WHERE id = ?`
)

// Get returns the prompt with the given id, or nil if there is none.
func (s *Store) Get(id string) (*Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getPrompt(s.db, id)
}

// Create stores a new prompt with a generated id and returns it as persisted.
func (s *Store) Create(in PromptInput) (*Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	p := &Prompt{
		ID:         newID(),
		Title:      in.Title,
		PromptText: in.PromptText,
		Notes:      in.Notes,
		Author:     in.Author,
		Language:   in.Language,
		Category:   in.Category,
		CreatedAt:  now,
		UpdatedAt:  now,
		LastUsedAt: in.LastUsedAt,
		Favorite:   in.Favorite,
		Status:     in.Status,
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}

	if err := insertPrompt(s.db, p); err != nil {
		return nil, err
	}
	return mustGetPrompt(s.db, "create", p.ID)
}

// Update applies patch to the stored prompt. Nil patch fields keep their
// stored value; updated_at is refreshed even when nothing else changes.
func (s *Store) Update(id string, patch PromptPatch) (*Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := getPrompt(s.db, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("update", id)
	}

	patch.applyTo(p)
	p.UpdatedAt = s.timestamp()
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}

	_, err = s.db.Exec(updatePromptSQL,
		p.Title, p.PromptText,
		stringPtrToNull(p.Notes), stringPtrToNull(p.Author),
		stringPtrToNull(p.Language), stringPtrToNull(p.Category),
		formatTime(p.UpdatedAt), timePtrToNull(p.LastUsedAt),
		boolToInt(p.Favorite), p.Status, p.ID,
	)
	if err != nil {
		return nil, storageErr("update", id, err)
	}
	return mustGetPrompt(s.db, "update", id)
}

func (patch PromptPatch) applyTo(p *Prompt) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.PromptText != nil {
		p.PromptText = *patch.PromptText
	}
	if patch.Notes != nil {
		p.Notes = patch.Notes
	}
	if patch.Author != nil {
		p.Author = patch.Author
	}
	if patch.Language != nil {
		p.Language = patch.Language
	}
	if patch.Category != nil {
		p.Category = patch.Category
	}
	if patch.LastUsedAt != nil {
		p.LastUsedAt = patch.LastUsedAt
	}
	if patch.Favorite != nil {
		p.Favorite = *patch.Favorite
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
}

// Delete removes a prompt. Deleting an unknown id is not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM prompts WHERE id = ?`, id); err != nil {
		return storageErr("delete", id, err)
	}
	return nil
}

// Duplicate copies a prompt under a new id with " (copy)" appended to its title.
func (s *Store) Duplicate(id string) (*Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := getPrompt(s.db, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, notFound("duplicate", id)
	}

	now := s.timestamp()
	dup := *src
	dup.ID = newID()
	dup.Title = src.Title + copySuffix
	dup.CreatedAt = now
	dup.UpdatedAt = now

	if err := insertPrompt(s.db, &dup); err != nil {
		return nil, err
	}
	return mustGetPrompt(s.db, "duplicate", dup.ID)
}

// MarkUsed records that a prompt was just used. It does not check that id exists.
// updated_at never moves before created_at; stored timestamps are fixed width,
// so MAX over the text columns is chronological.
func (s *Store) MarkUsed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := formatTime(s.timestamp())
	if _, err := s.db.Exec(`UPDATE prompts SET last_used_at = ?, updated_at = MAX(?, created_at) WHERE id = ?`, now, now, id); err != nil {
		return storageErr("mark used", id, err)
	}
	return nil
}

// ToggleFavorite flips the favorite flag and returns the updated prompt.
func (s *Store) ToggleFavorite(id string) (*Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE prompts SET favorite = CASE favorite WHEN 0 THEN 1 ELSE 0 END, updated_at = MAX(?, created_at)
		WHERE id = ?
	`, formatTime(s.timestamp()), id)
	if err != nil {
		return nil, storageErr("toggle favorite", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, storageErr("toggle favorite", id, err)
	} else if n == 0 {
		return nil, notFound("toggle favorite", id)
	}
	return mustGetPrompt(s.db, "toggle favorite", id)
}

func getPrompt(q queryer, id string) (*Prompt, error) {
	var r promptRow
	err := q.QueryRow(selectPromptSQL, id).Scan(r.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get", id, err)
	}
	p, err := r.toDomain()
	if err != nil {
		return nil, storageErr("get", id, err)
	}
	return p, nil
}

// mustGetPrompt re-reads a row the caller just wrote.
func mustGetPrompt(q queryer, op, id string) (*Prompt, error) {
	p, err := getPrompt(q, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound(op, id)
	}
	return p, nil
}

// insertPrompt writes p as a new row. An existing id is reported as ErrConflict.
func insertPrompt(q queryer, p *Prompt) error {
	var exists int
	err := q.QueryRow(`SELECT COUNT(*) FROM prompts WHERE id = ?`, p.ID).Scan(&exists)
	if err != nil {
		return storageErr("insert", p.ID, err)
	}
	if exists > 0 {
		return &Error{Kind: ErrConflict, Op: "insert", ID: p.ID}
	}

	if _, err := q.Exec(insertPromptSQL, promptInsertArgs(p)...); err != nil {
		return storageErr("insert", p.ID, err)
	}
	return nil
}

// overwritePrompt replaces every stored field of p.ID, timestamps included.
func overwritePrompt(q queryer, p *Prompt) error {
	_, err := q.Exec(overwritePromptSQL,
		p.Title, p.PromptText,
		stringPtrToNull(p.Notes), stringPtrToNull(p.Author),
		stringPtrToNull(p.Language), stringPtrToNull(p.Category),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt), timePtrToNull(p.LastUsedAt),
		boolToInt(p.Favorite), p.Status, p.ID,
	)
	if err != nil {
		return storageErr("overwrite", p.ID, err)
	}
	return nil
}
