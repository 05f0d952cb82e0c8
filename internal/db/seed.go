package db

import "log/slog"

var samplePrompts = []struct {
	title string
	text  string
}{
	{"Strategy Memo", "Write a product strategy memo for a new feature. Include risks, metrics, and rollout plan."},
	{"UX rewrite", "Rewrite this paragraph in the voice of a calm, concise UX writer. Provide 3 options."},
	{"Podcast recap", "Summarize this podcast episode into 5 actionable takeaways for founders."},
}

// seedIfEmpty inserts the sample prompts into an empty library. Callers hold s.mu.
func (s *Store) seedIfEmpty() error {
	count, err := countPrompts(s.db)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := s.timestamp()
	for _, sample := range samplePrompts {
		p := &Prompt{
			ID:         newID(),
			Title:      sample.title,
			PromptText: sample.text,
			CreatedAt:  now,
			UpdatedAt:  now,
			Status:     StatusReady,
		}
		if err := insertPrompt(s.db, p); err != nil {
			return err
		}
	}

	slog.Info("seeded prompt library", "prompts", len(samplePrompts))
	return nil
}
