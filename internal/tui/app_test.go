package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/promptlib/internal/db"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestStore(t *testing.T, titles ...string) *db.Store {
	t.Helper()
	store, err := db.NewStore(filepath.Join(t.TempDir(), "test.db"), db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, title := range titles {
		_, err := store.Create(db.PromptInput{Title: title, PromptText: title + " body"})
		require.NoError(t, err)
	}
	return store
}

// fakeClipboard records what would have been copied.
type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

// loaded returns a model with the store's prompts already in the list.
func loaded(t *testing.T, store *db.Store) model {
	t.Helper()
	m := initialModel(store, Options{})
	m.copyText = (&fakeClipboard{}).WriteAll
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return update(t, m, m.load())
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

// press sends a key and runs the resulting command chain until the list reloads.
func press(t *testing.T, m model, key string) model {
	t.Helper()
	next, cmd := m.Update(keyMsg(key))
	m = next.(model)
	for cmd != nil {
		msg := cmd()
		next, cmd = m.Update(msg)
		m = next.(model)
		if _, ok := msg.(promptsMsg); ok {
			break
		}
	}
	return m
}

func titles(m model) []string {
	out := []string{}
	for _, item := range m.list.Items() {
		out = append(out, item.(promptItem).prompt.Title)
	}
	return out
}

func TestInitialModel_ListFocused(t *testing.T) {
	m := initialModel(nil, Options{})

	assert.False(t, m.searching)
	assert.False(t, m.searchInput.Focused())
	assert.Equal(t, db.StatusAll, m.filter.Status)
	assert.Equal(t, db.SortNewest, m.filter.Sort)
}

func TestInitialModel_DefaultSort(t *testing.T) {
	m := initialModel(nil, Options{DefaultSort: db.SortRecent})
	assert.Equal(t, db.SortRecent, m.filter.Sort)
}

func TestUpdate_SlashFocusesSearch(t *testing.T) {
	m := update(t, initialModel(nil, Options{}), keyMsg("/"))

	assert.True(t, m.searching)
	assert.True(t, m.searchInput.Focused())
}

func TestUpdate_EscUnfocusesSearch(t *testing.T) {
	m := initialModel(nil, Options{})
	m.searching = true
	m.searchInput.Focus()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEscape})

	assert.False(t, m.searching)
	assert.False(t, m.searchInput.Focused())
}

func TestUpdate_QQuitsOnlyFromList(t *testing.T) {
	m := initialModel(nil, Options{})

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	m.searching = true
	m.searchInput.Focus()
	next, _ := m.Update(keyMsg("q"))
	assert.Equal(t, "q", next.(model).searchInput.Value())
}

func TestLoad_PopulatesList(t *testing.T) {
	store := newTestStore(t, "first", "second")
	m := loaded(t, store)

	assert.Equal(t, []string{"second", "first"}, titles(m))
}

func TestLoad_NilStoreShowsError(t *testing.T) {
	m := initialModel(nil, Options{})
	m = update(t, m, m.load())

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "store not initialized")
}

func TestSearch_FiltersByQuery(t *testing.T) {
	store := newTestStore(t, "Strategy memo", "Podcast recap")
	m := loaded(t, store)

	m = update(t, m, keyMsg("/"))
	for _, r := range "memo" {
		m = update(t, m, keyMsg(string(r)))
	}
	assert.Equal(t, "memo", m.searchInput.Value())

	// Leaving search keeps the query and reloads with it.
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(model)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.False(t, m.searching)
	assert.Equal(t, []string{"Strategy memo"}, titles(m))

	// Esc in the list clears the query.
	next, cmd = m.Update(keyMsg("esc"))
	m = next.(model)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Len(t, m.list.Items(), 2)
}

func TestToggleFavorite(t *testing.T) {
	store := newTestStore(t, "only")
	m := loaded(t, store)

	m = press(t, m, "f")
	assert.Equal(t, "Favorited: only", m.status)

	item := m.list.Items()[0].(promptItem)
	assert.True(t, item.prompt.Favorite)
	assert.Contains(t, item.Title(), "★")

	m = press(t, m, "f")
	assert.False(t, m.list.Items()[0].(promptItem).prompt.Favorite)
}

func TestEnterCopiesAndMarksUsed(t *testing.T) {
	store := newTestStore(t, "only")
	m := loaded(t, store)
	clip := &fakeClipboard{}
	m.copyText = clip.WriteAll

	m = press(t, m, "enter")
	assert.Equal(t, "Copied: only", m.status)
	assert.Equal(t, "only body", clip.text)
	assert.NotNil(t, m.list.Items()[0].(promptItem).prompt.LastUsedAt)
}

func TestUse_WithoutClipboardStillMarksUsed(t *testing.T) {
	store := newTestStore(t, "only")
	m := loaded(t, store)
	m.copyText = (&fakeClipboard{err: errors.New("no xclip")}).WriteAll

	m = press(t, m, "u")
	assert.Equal(t, "Used: only (clipboard unavailable: no xclip)", m.status)
	assert.NotNil(t, m.list.Items()[0].(promptItem).prompt.LastUsedAt)
}

func TestCategoryKeyCyclesThroughCategories(t *testing.T) {
	store := newTestStore(t)
	for _, in := range []db.PromptInput{
		{Title: "memo", PromptText: "b", Category: strPtr("Writing")},
		{Title: "essay", PromptText: "b", Category: strPtr("Writing")},
		{Title: "refactor", PromptText: "b", Category: strPtr("Code")},
	} {
		_, err := store.Create(in)
		require.NoError(t, err)
	}
	m := loaded(t, store)
	require.Len(t, m.list.Items(), 3)

	m = press(t, m, "c")
	require.NotNil(t, m.filter.Category)
	assert.Equal(t, "Code", *m.filter.Category)
	assert.Equal(t, "Category: Code (1)", m.status)
	assert.Equal(t, []string{"refactor"}, titles(m))

	m = press(t, m, "c")
	assert.Equal(t, "Category: Writing (2)", m.status)
	assert.Equal(t, []string{"essay", "memo"}, titles(m))
	assert.Contains(t, m.View(), "cat:Writing")

	m = press(t, m, "c")
	assert.Nil(t, m.filter.Category)
	assert.Equal(t, "Category: all", m.status)
	assert.Len(t, m.list.Items(), 3)
}

func TestNextCategory(t *testing.T) {
	categories := []db.CategoryCount{{Name: "Code", Count: 1}, {Name: "Writing", Count: 2}}

	assert.Nil(t, nextCategory(nil, nil).category)
	assert.Equal(t, "Code", *nextCategory(categories, nil).category)
	assert.Equal(t, "Writing", *nextCategory(categories, strPtr("Code")).category)
	assert.Nil(t, nextCategory(categories, strPtr("Writing")).category)
	assert.Nil(t, nextCategory(categories, strPtr("Deleted")).category, "a vanished category resets to all")
}

func TestWatcherFailureIsShownInStatus(t *testing.T) {
	m := initialModel(nil, Options{})

	msgs := make(chan tea.Msg, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWatcher(ctx, filepath.Join(t.TempDir(), "missing", "prompts.db"), func(msg tea.Msg) { msgs <- msg })

	select {
	case msg := <-msgs:
		m = update(t, m, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher failure was not reported")
	}
	assert.Contains(t, m.status, "database watcher stopped")
}

func TestDuplicate(t *testing.T) {
	store := newTestStore(t, "only")
	m := loaded(t, store)

	m = press(t, m, "y")
	assert.Len(t, m.list.Items(), 2)
	assert.Contains(t, titles(m), "only (copy)")
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	store := newTestStore(t, "keep", "drop")
	m := loaded(t, store)
	require.Equal(t, "drop", titles(m)[0])

	m = press(t, m, "d")
	assert.Len(t, m.list.Items(), 2)
	assert.Contains(t, m.status, "Press d again")

	// Any other key cancels.
	m = press(t, m, "j")
	m = press(t, m, "k")
	m = press(t, m, "d")
	m = press(t, m, "d")
	assert.Equal(t, []string{"keep"}, titles(m))
	assert.Equal(t, "Deleted: drop", m.status)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStatusAndFavoriteFilters(t *testing.T) {
	store := newTestStore(t)
	for _, in := range []db.PromptInput{
		{Title: "draft", PromptText: "b"},
		{Title: "ready", PromptText: "b", Status: db.StatusReady, Favorite: true},
		{Title: "archived", PromptText: "b", Status: db.StatusArchived},
	} {
		_, err := store.Create(in)
		require.NoError(t, err)
	}
	m := loaded(t, store)
	require.Len(t, m.list.Items(), 3)

	m = press(t, m, "2")
	assert.Equal(t, []string{"ready"}, titles(m))

	m = press(t, m, "2")
	assert.Equal(t, db.StatusAll, m.filter.Status)
	assert.Len(t, m.list.Items(), 3)

	m = press(t, m, "3")
	assert.Equal(t, []string{"archived"}, titles(m))

	m = press(t, m, "0")
	m = press(t, m, "v")
	assert.Equal(t, []string{"ready"}, titles(m))
}

func TestSortCycles(t *testing.T) {
	m := initialModel(nil, Options{})

	m.cycleSort()
	assert.Equal(t, db.SortRecent, m.filter.Sort)
	m.cycleSort()
	assert.Equal(t, db.SortFavorites, m.filter.Sort)
	m.cycleSort()
	assert.Equal(t, db.SortNewest, m.filter.Sort)

	m.filter.Sort = "bogus"
	m.cycleSort()
	assert.Equal(t, db.SortNewest, m.filter.Sort)
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	store := newTestStore(t, "first")
	m := loaded(t, store)

	_, err := store.Create(db.PromptInput{Title: "from elsewhere", PromptText: "b"})
	require.NoError(t, err)

	_, cmd := m.Update(reloadMsg{})
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Len(t, m.list.Items(), 2)
}

func TestUpdate_JKNavigatesInListMode(t *testing.T) {
	store := newTestStore(t, "a", "b", "c")
	m := loaded(t, store)

	m = update(t, m, keyMsg("j"))
	assert.Equal(t, 1, m.list.Index())
	m = update(t, m, keyMsg("G"))
	assert.Equal(t, 2, m.list.Index())
	m = update(t, m, keyMsg("k"))
	assert.Equal(t, 1, m.list.Index())
	m = update(t, m, keyMsg("g"))
	assert.Equal(t, 0, m.list.Index())
}

func strPtr(s string) *string { return &s }
