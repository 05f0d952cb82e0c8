package db

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates predicate fragments together with their bound
// values so the two can never drift apart.
type whereBuilder struct {
	clauses []string
	args    []any
}

// add appends a fragment. The number of ? placeholders in clause must equal len(args).
func (w *whereBuilder) add(clause string, args ...any) {
	if n := strings.Count(clause, "?"); n != len(args) {
		panic(fmt.Sprintf("db: clause %q has %d placeholders but %d args", clause, n, len(args)))
	}
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildListQuery turns a Filter into a SELECT over prompts and its arguments.
func buildListQuery(f Filter) (string, []any) {
	var w whereBuilder

	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + likeEscaper.Replace(q) + "%"
		w.add(`(title LIKE ? ESCAPE '\' OR prompt_text LIKE ? ESCAPE '\' OR notes LIKE ? ESCAPE '\')`, like, like, like)
	}
	if f.Category != nil {
		w.add(`category = ?`, *f.Category)
	}
	if f.Status != StatusAll {
		w.add(`status = ?`, f.Status)
	}
	if f.FavoriteOnly {
		w.add(`favorite = 1`)
	}

	query := "SELECT " + promptColumns + " FROM prompts" + w.String() + orderBy(f.Sort)
	return query, w.args
}

func orderBy(sort string) string {
	switch sort {
	case SortRecent:
		return " ORDER BY last_used_at IS NULL, last_used_at DESC"
	case SortFavorites:
		return " ORDER BY favorite DESC, created_at DESC"
	default:
		return " ORDER BY created_at DESC"
	}
}

// List returns the prompts matching f, ordered by f.Sort.
func (s *Store) List(f Filter) ([]Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listPrompts(s.db, f)
}

func listPrompts(q queryer, f Filter) ([]Prompt, error) {
	query, args := buildListQuery(f)
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, storageErr("list", "", err)
	}
	defer rows.Close()

	prompts, err := scanPrompts(rows)
	if err != nil {
		return nil, storageErr("list", "", err)
	}
	return prompts, nil
}
