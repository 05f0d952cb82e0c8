package db

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_OverwritesExistingRow(t *testing.T) {
	s := createTestStore(t)
	existing, err := s.Create(fullInput())
	require.NoError(t, err)

	created := time.Date(2020, 3, 4, 5, 6, 7, 0, time.UTC)
	updated := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	n, err := s.Import([]PromptImport{{
		ID:         strPtr(existing.ID),
		Title:      strPtr("Imported"),
		PromptText: strPtr("Imported body"),
		CreatedAt:  &created,
		UpdatedAt:  &updated,
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Get(existing.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Imported", got.Title)
	assert.Equal(t, "Imported body", got.PromptText)
	assert.Nil(t, got.Notes, "import replaces every field")
	assert.Nil(t, got.Author)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.LastUsedAt)
	assert.False(t, got.Favorite)
	assert.Equal(t, StatusDraft, got.Status)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(updated))

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestImport_InsertsFreshID(t *testing.T) {
	s := createTestStore(t)

	n, err := s.Import([]PromptImport{{
		ID:         strPtr("fresh-id"),
		Title:      strPtr("New"),
		PromptText: strPtr("Body"),
		Favorite:   boolPtr(true),
		Status:     strPtr(StatusReady),
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Get("fresh-id")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "New", got.Title)
	assert.True(t, got.Favorite)
	assert.Equal(t, StatusReady, got.Status)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestImport_DefaultsMissingFields(t *testing.T) {
	s := createTestStore(t)

	n, err := s.ImportJSON([]byte(`[{"title": "Only required", "prompt_text": "fields"}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	prompts, err := s.Export()
	require.NoError(t, err)
	require.Len(t, prompts, 1)

	p := prompts[0]
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.Favorite)
	assert.Equal(t, StatusDraft, p.Status)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestImport_CountsInsertsAndUpdates(t *testing.T) {
	s := createTestStore(t)
	existing, err := s.Create(PromptInput{Title: "t", PromptText: "b"})
	require.NoError(t, err)

	n, err := s.Import([]PromptImport{
		{ID: strPtr(existing.ID), Title: strPtr("updated"), PromptText: strPtr("b")},
		{Title: strPtr("new one"), PromptText: strPtr("b")},
		{Title: strPtr("new two"), PromptText: strPtr("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestImportJSON_RejectsMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{`,
		"not an array":    `{"title": "x", "prompt_text": "y"}`,
		"missing title":   `[{"prompt_text": "y"}]`,
		"missing body":    `[{"title": "x"}]`,
		"wrong type":      `[{"title": "x", "prompt_text": "y", "favorite": "yes"}]`,
		"bad timestamp":   `[{"title": "x", "prompt_text": "y", "created_at": "yesterday"}]`,
		"second is wrong": `[{"title": "x", "prompt_text": "y"}, {"title": 3, "prompt_text": "y"}]`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			s := createTestStore(t)

			_, err := s.ImportJSON([]byte(payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerialization)

			count, err := s.Count()
			require.NoError(t, err)
			assert.Equal(t, 0, count, "nothing may be written from a rejected payload")
		})
	}
}

func TestImport_ClampsUpdatedBeforeCreated(t *testing.T) {
	s := createTestStore(t)
	created := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(-time.Hour)

	_, err := s.Import([]PromptImport{{ID: strPtr("p"), Title: strPtr("t"), PromptText: strPtr("b"), CreatedAt: &created, UpdatedAt: &updated}})
	require.NoError(t, err)

	got, err := s.Get("p")
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(created))
}

func TestExportJSON_Format(t *testing.T) {
	s := createTestStore(t)

	data, err := s.ExportJSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = s.Create(PromptInput{Title: "t", PromptText: "b", Category: strPtr("Writing")})
	require.NoError(t, err)

	data, err = s.ExportJSON()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"id\": "))
	assert.Contains(t, string(data), `"prompt_text": "b"`)
	assert.Contains(t, string(data), `"last_used_at": null`)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	for _, key := range []string{"id", "title", "prompt_text", "notes", "author", "language", "category", "created_at", "updated_at", "last_used_at", "favorite", "status"} {
		assert.Contains(t, decoded[0], key)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := createTestStore(t)
	_, err := src.Create(fullInput())
	require.NoError(t, err)
	_, err = src.Create(PromptInput{Title: "plain", PromptText: "body"})
	require.NoError(t, err)
	fav, err := src.Create(PromptInput{Title: "used", PromptText: "body", Notes: strPtr("")})
	require.NoError(t, err)
	require.NoError(t, src.MarkUsed(fav.ID))
	_, err = src.ToggleFavorite(fav.ID)
	require.NoError(t, err)

	exported, err := src.ExportJSON()
	require.NoError(t, err)

	dst, err := NewStore(filepath.Join(t.TempDir(), "copy.db"), Options{})
	require.NoError(t, err)
	defer dst.Close()

	n, err := dst.ImportJSON(exported)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want, err := src.Export()
	require.NoError(t, err)
	got, err := dst.Export()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
