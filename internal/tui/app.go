package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/promptlib/internal/db"
)

// Options configures the browser.
type Options struct {
	DefaultSort string
	// Watch reloads the list when another process writes the database.
	Watch bool
}

var sortCycle = []string{db.SortNewest, db.SortRecent, db.SortFavorites}

type model struct {
	store         *db.Store
	searchInput   textinput.Model
	list          list.Model
	filter        db.Filter
	width         int
	height        int
	searching     bool
	pendingDelete string
	status        string
	err           error

	// copyText puts a prompt on the system clipboard.
	copyText func(string) error
}

type promptItem struct {
	prompt db.Prompt
}

func (p promptItem) Title() string {
	mark := " "
	if p.prompt.Favorite {
		mark = "★"
	}
	return fmt.Sprintf("%s %s %s", mark, statusIcon(p.prompt.Status), p.prompt.Title)
}

func (p promptItem) Description() string {
	text := strings.Join(strings.Fields(p.prompt.PromptText), " ")
	if len([]rune(text)) > 80 {
		text = string([]rune(text)[:80]) + "..."
	}
	if p.prompt.Category != nil && *p.prompt.Category != "" {
		return *p.prompt.Category + " · " + text
	}
	return text
}

func (p promptItem) FilterValue() string {
	return p.prompt.Title
}

func statusIcon(status string) string {
	switch status {
	case db.StatusDraft:
		return "[D]"
	case db.StatusReady:
		return "[R]"
	case db.StatusArchived:
		return "[A]"
	default:
		return "[?]"
	}
}

func initialModel(store *db.Store, opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "Search prompts..."
	ti.CharLimit = 256
	ti.Width = 50

	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Prompt Library"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sort := opts.DefaultSort
	if sort == "" {
		sort = db.SortNewest
	}

	return model{
		store:       store,
		searchInput: ti,
		list:        l,
		filter:      db.Filter{Status: db.StatusAll, Sort: sort},
		copyText:    clipboard.WriteAll,
	}
}

type promptsMsg struct {
	prompts []db.Prompt
	err     error
}

// actionMsg reports the outcome of a write and triggers a reload.
type actionMsg struct {
	status string
	err    error
}

// reloadMsg is sent when the database changed on disk.
type reloadMsg struct{}

// categoryMsg selects the next category filter; nil means every category.
type categoryMsg struct {
	category *string
	count    int
	err      error
}

func (m model) Init() tea.Cmd {
	return m.load
}

func (m model) currentFilter() db.Filter {
	f := m.filter
	f.Query = m.searchInput.Value()
	return f
}

func (m model) load() tea.Msg {
	if m.store == nil {
		return promptsMsg{err: fmt.Errorf("store not initialized")}
	}
	prompts, err := m.store.List(m.currentFilter())
	return promptsMsg{prompts: prompts, err: err}
}

func (m model) selected() (db.Prompt, bool) {
	item, ok := m.list.SelectedItem().(promptItem)
	return item.prompt, ok
}

// use copies the prompt text to the clipboard and records the use. The use is
// recorded even when no clipboard is available.
func (m model) use(p db.Prompt) tea.Cmd {
	return func() tea.Msg {
		copyErr := m.copyText(p.PromptText)
		if err := m.store.MarkUsed(p.ID); err != nil {
			return actionMsg{err: err}
		}
		if copyErr != nil {
			return actionMsg{status: fmt.Sprintf("Used: %s (clipboard unavailable: %v)", p.Title, copyErr)}
		}
		return actionMsg{status: "Copied: " + p.Title}
	}
}

func (m model) cycleCategory() tea.Msg {
	if m.store == nil {
		return categoryMsg{err: fmt.Errorf("store not initialized")}
	}
	categories, err := m.store.Categories()
	if err != nil {
		return categoryMsg{err: err}
	}
	return nextCategory(categories, m.filter.Category)
}

// nextCategory steps through categories in name order, then back to all.
func nextCategory(categories []db.CategoryCount, current *string) categoryMsg {
	next := 0
	if current != nil {
		next = len(categories)
		for i, c := range categories {
			if c.Name == *current {
				next = i + 1
				break
			}
		}
	}
	if next >= len(categories) {
		return categoryMsg{}
	}
	name := categories[next].Name
	return categoryMsg{category: &name, count: categories[next].Count}
}

func (m model) toggleFavorite(p db.Prompt) tea.Cmd {
	return func() tea.Msg {
		updated, err := m.store.ToggleFavorite(p.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		if updated.Favorite {
			return actionMsg{status: "Favorited: " + updated.Title}
		}
		return actionMsg{status: "Unfavorited: " + updated.Title}
	}
}

func (m model) duplicate(p db.Prompt) tea.Cmd {
	return func() tea.Msg {
		copied, err := m.store.Duplicate(p.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "Created: " + copied.Title}
	}
}

func (m model) remove(p db.Prompt) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Delete(p.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "Deleted: " + p.Title}
	}
}

// setStatusFilter toggles between status and "all".
func (m *model) setStatusFilter(status string) {
	if m.filter.Status == status {
		m.filter.Status = db.StatusAll
		return
	}
	m.filter.Status = status
}

func (m *model) cycleSort() {
	for i, s := range sortCycle {
		if s == m.filter.Sort {
			m.filter.Sort = sortCycle[(i+1)%len(sortCycle)]
			return
		}
	}
	m.filter.Sort = sortCycle[0]
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}

		if m.searching {
			switch key {
			case "esc", "enter":
				m.searching = false
				m.searchInput.Blur()
				return m, m.load
			}
			break
		}

		// A second d confirms a pending delete; any other key cancels it.
		pending := m.pendingDelete
		m.pendingDelete = ""

		switch key {
		case "q":
			return m, tea.Quit
		case "esc":
			m.status = ""
			if m.searchInput.Value() != "" {
				m.searchInput.SetValue("")
				return m, m.load
			}
			return m, nil
		case "/":
			m.searching = true
			m.searchInput.Focus()
			return m, textinput.Blink
		case "j", "down":
			m.list.CursorDown()
			return m, nil
		case "k", "up":
			m.list.CursorUp()
			return m, nil
		case "g":
			m.list.Select(0)
			return m, nil
		case "G":
			if n := len(m.list.Items()); n > 0 {
				m.list.Select(n - 1)
			}
			return m, nil
		case "enter", "u":
			if p, ok := m.selected(); ok {
				return m, m.use(p)
			}
			return m, nil
		case "f":
			if p, ok := m.selected(); ok {
				return m, m.toggleFavorite(p)
			}
			return m, nil
		case "y":
			if p, ok := m.selected(); ok {
				return m, m.duplicate(p)
			}
			return m, nil
		case "d":
			p, ok := m.selected()
			if !ok {
				return m, nil
			}
			if pending == p.ID {
				m.status = ""
				return m, m.remove(p)
			}
			m.pendingDelete = p.ID
			m.status = fmt.Sprintf("Press d again to delete %q", p.Title)
			return m, nil
		case "s":
			m.cycleSort()
			return m, m.load
		case "c":
			return m, m.cycleCategory
		case "v":
			m.filter.FavoriteOnly = !m.filter.FavoriteOnly
			return m, m.load
		case "0":
			m.filter.Status = db.StatusAll
			return m, m.load
		case "1":
			m.setStatusFilter(db.StatusDraft)
			return m, m.load
		case "2":
			m.setStatusFilter(db.StatusReady)
			return m, m.load
		case "3":
			m.setStatusFilter(db.StatusArchived)
			return m, m.load
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-7)
		m.searchInput.Width = msg.Width - 40

	case promptsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.list.SetItems(promptsToItems(msg.prompts))
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = msg.status
		}
		return m, m.load

	case categoryMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.filter.Category = msg.category
		if msg.category == nil {
			m.status = "Category: all"
		} else {
			m.status = fmt.Sprintf("Category: %s (%d)", *msg.category, msg.count)
		}
		return m, m.load

	case reloadMsg:
		return m, m.load
	}

	if m.searching {
		before := m.searchInput.Value()
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)

		// Live search on input change
		if m.searchInput.Value() != before {
			cmds = append(cmds, m.load)
		}
	} else {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func promptsToItems(prompts []db.Prompt) []list.Item {
	items := make([]list.Item, 0, len(prompts))
	for _, p := range prompts {
		items = append(items, promptItem{prompt: p})
	}
	return items
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	var b strings.Builder

	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	filterStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	activeFilter := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")).
		Bold(true)

	inactiveFilter := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	render := func(active bool, label string) string {
		if active {
			return activeFilter.Render(label)
		}
		return inactiveFilter.Render(label)
	}

	filters := []string{}
	for _, s := range []struct{ status, label string }{
		{db.StatusAll, "all"},
		{db.StatusDraft, "draft"},
		{db.StatusReady, "ready"},
		{db.StatusArchived, "archived"},
	} {
		filters = append(filters, render(m.filter.Status == s.status, s.label))
	}
	filters = append(filters, render(m.filter.FavoriteOnly, "★"))
	category := "all"
	if m.filter.Category != nil {
		category = *m.filter.Category
	}
	filters = append(filters, render(m.filter.Category != nil, "cat:"+category))
	filters = append(filters, filterStyle.Render("sort:"+m.filter.Sort))

	searchBox := searchStyle.Render(m.searchInput.View())
	filterBar := filterStyle.Render(strings.Join(filters, " "))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, searchBox, "  ", filterBar))
	b.WriteString("\n\n")

	b.WriteString(m.list.View())

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(activeFilter.Render(m.status))
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1)

	help := "[j/k]nav [/]search [Enter]copy [f]av [y]dup [d]elete [s]ort [c]ategory [0-3]status [v]favorites [q]uit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// startWatcher reloads the model on external writes. Watcher failures are
// reported to the model; logging would write over the alt screen.
func startWatcher(ctx context.Context, dbPath string, send func(tea.Msg)) {
	go func() {
		err := watchDatabase(ctx, dbPath, reloadDebounce,
			func() { send(reloadMsg{}) },
			func(err error) { send(actionMsg{err: fmt.Errorf("watcher: %w", err)}) },
		)
		if err != nil && ctx.Err() == nil {
			send(actionMsg{err: fmt.Errorf("database watcher stopped: %w", err)})
		}
	}()
}

// Run starts the TUI application
func Run(store *db.Store, opts Options) error {
	p := tea.NewProgram(initialModel(store, opts), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if opts.Watch {
		startWatcher(ctx, store.Path(), p.Send)
	}

	_, err := p.Run()
	return err
}
