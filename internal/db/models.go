package db

import "time"

const (
	StatusDraft    = "draft"
	StatusReady    = "ready"
	StatusArchived = "archived"

	// StatusAll disables the status filter in List.
	StatusAll = "all"

	// FallbackCategory is assigned to rows left without a category by older versions.
	FallbackCategory = "Writing"

	copySuffix = " (copy)"
)

// Sort modes accepted by Filter.Sort. Unknown values sort like SortNewest.
const (
	SortNewest    = "newest"
	SortRecent    = "recent"
	SortFavorites = "favorites"
)

type Prompt struct {
	ID         string     `json:"id" yaml:"id"`
	Title      string     `json:"title" yaml:"title"`
	PromptText string     `json:"prompt_text" yaml:"prompt_text"`
	Notes      *string    `json:"notes" yaml:"notes,omitempty"`
	Author     *string    `json:"author" yaml:"author,omitempty"`
	Language   *string    `json:"language" yaml:"language,omitempty"`
	Category   *string    `json:"category" yaml:"category,omitempty"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" yaml:"updated_at"`
	LastUsedAt *time.Time `json:"last_used_at" yaml:"last_used_at,omitempty"`
	Favorite   bool       `json:"favorite" yaml:"favorite"`
	Status     string     `json:"status" yaml:"status"`
}

// PromptInput is what a caller supplies to Create. The store assigns id and timestamps.
type PromptInput struct {
	Title      string     `json:"title"`
	PromptText string     `json:"prompt_text"`
	Notes      *string    `json:"notes"`
	Author     *string    `json:"author"`
	Language   *string    `json:"language"`
	Category   *string    `json:"category"`
	Favorite   bool       `json:"favorite"`
	Status     string     `json:"status"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

// PromptPatch is a partial update: nil fields keep the stored value.
type PromptPatch struct {
	Title      *string    `json:"title"`
	PromptText *string    `json:"prompt_text"`
	Notes      *string    `json:"notes"`
	Author     *string    `json:"author"`
	Language   *string    `json:"language"`
	Category   *string    `json:"category"`
	Favorite   *bool      `json:"favorite"`
	Status     *string    `json:"status"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

// PromptImport is one record of an import payload. Only Title and PromptText are required.
type PromptImport struct {
	ID         *string    `json:"id" yaml:"id"`
	Title      *string    `json:"title" yaml:"title"`
	PromptText *string    `json:"prompt_text" yaml:"prompt_text"`
	Notes      *string    `json:"notes" yaml:"notes"`
	Author     *string    `json:"author" yaml:"author"`
	Language   *string    `json:"language" yaml:"language"`
	Category   *string    `json:"category" yaml:"category"`
	CreatedAt  *time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at" yaml:"updated_at"`
	LastUsedAt *time.Time `json:"last_used_at" yaml:"last_used_at"`
	Favorite   *bool      `json:"favorite" yaml:"favorite"`
	Status     *string    `json:"status" yaml:"status"`
}

type Filter struct {
	Query        string  `json:"query"`
	Category     *string `json:"category"`
	Status       string  `json:"status"`
	FavoriteOnly bool    `json:"favoriteOnly"`
	Sort         string  `json:"sort"`
}

// AllPrompts is the unfiltered view used by Export.
func AllPrompts() Filter {
	return Filter{Status: StatusAll, Sort: SortNewest}
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
