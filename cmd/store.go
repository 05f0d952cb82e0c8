package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/user/promptlib/internal/config"
	"github.com/user/promptlib/internal/db"
)

func openStore() (*db.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := db.NewStore(cfg.DBPath(), db.Options{Seed: cfg.Seed})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, cfg, nil
}

// getExisting is Get that treats a missing id as an error.
func getExisting(store *db.Store, id string) (*db.Prompt, error) {
	p, err := store.Get(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("prompt %s: %w", id, db.ErrNotFound)
	}
	return p, nil
}

func outputJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func favoriteMark(p db.Prompt) string {
	if p.Favorite {
		return "★"
	}
	return " "
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// firstLine returns the first non-empty line of s, cut to maxLen runes.
func firstLine(s string, maxLen int) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return truncate(line, maxLen)
		}
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
