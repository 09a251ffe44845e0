package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/josephgoksu/taskdeck/internal/collection"
	"github.com/josephgoksu/taskdeck/internal/gateway"
	"github.com/josephgoksu/taskdeck/internal/notify"
	"github.com/josephgoksu/taskdeck/models"
)

type DashboardState int

const (
	StateLoading DashboardState = iota
	StateBrowsing
	StateSearching
	StateConfirmDelete
)

// statusCycle and sortCycle drive the f/s keys through the closed variant
// sets, in the same order the web UI listed them.
var statusCycle = []models.StatusFilter{models.FilterAll, models.FilterPending, models.FilterCompleted}

var sortCycle = []models.SortKey{models.SortCreatedDesc, models.SortTitleAsc, models.SortPendingFirst}

type MsgTasksLoaded struct {
	Err error
}

type MsgMutationDone struct {
	Err error
}

type MsgNotification struct {
	Notification notify.Notification
}

// MsgTick redraws periodically so expired notifications leave the footer.
type MsgTick struct{}

// DashboardModel is the interactive task list: it renders the store's
// current page and forwards user intents to it. All task state lives in
// the store; the model keeps only presentation state.
type DashboardModel struct {
	Ctx   context.Context
	Store *collection.Store
	Bus   *notify.Bus

	State    DashboardState
	Cursor   int // index into the visible page
	DeleteID int64

	Spinner     spinner.Model
	SearchInput textinput.Model

	events <-chan notify.Notification
	width  int
}

// NewDashboardModel wires a dashboard to its store and bus.
func NewDashboardModel(ctx context.Context, store *collection.Store, bus *notify.Bus) DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StylePrimary

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 120

	return DashboardModel{
		Ctx:         ctx,
		Store:       store,
		Bus:         bus,
		State:       StateLoading,
		Spinner:     sp,
		SearchInput: search,
		events:      bus.Subscribe(),
		width:       80,
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, m.loadCmd(), m.waitEvent(), tickCmd())
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return MsgTasksLoaded{Err: m.Store.Load(m.Ctx, gateway.ListFilter{})}
	}
}

func (m DashboardModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		n, ok := <-m.events
		if !ok {
			return nil
		}
		return MsgNotification{Notification: n}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return MsgTick{}
	})
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case MsgTick:
		return m, tickCmd()

	case MsgNotification:
		// The footer reads the bus directly; the message only forces a
		// redraw and re-arms the subscription.
		return m, m.waitEvent()

	case MsgTasksLoaded:
		m.State = StateBrowsing
		m.clampCursor()
		return m, nil

	case MsgMutationDone:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m DashboardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateSearching {
		switch msg.String() {
		case "enter", "esc":
			m.State = StateBrowsing
			m.SearchInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.SearchInput, cmd = m.SearchInput.Update(msg)
			m.Store.SetSearch(m.SearchInput.Value())
			m.clampCursor()
			return m, cmd
		}
	}

	if m.State == StateConfirmDelete {
		switch msg.String() {
		case "y", "Y":
			id := m.DeleteID
			m.State = StateBrowsing
			return m, func() tea.Msg {
				return MsgMutationDone{Err: m.Store.ApplyDelete(m.Ctx, id)}
			}
		case "n", "N", "esc":
			m.State = StateBrowsing
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.Store.Close()
		return m, tea.Quit

	case "/":
		m.State = StateSearching
		m.SearchInput.Focus()
		return m, textinput.Blink

	case "r":
		m.State = StateLoading
		return m, tea.Batch(m.Spinner.Tick, m.loadCmd())

	case "f":
		m.Store.SetStatusFilter(next(statusCycle, m.Store.Query().Status))
		m.clampCursor()
		return m, nil

	case "s":
		m.Store.SetSort(next(sortCycle, m.Store.Query().Sort))
		m.clampCursor()
		return m, nil

	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil

	case "down", "j":
		if m.Cursor < len(m.Store.Page().Items)-1 {
			m.Cursor++
		}
		return m, nil

	case "left", "h":
		m.Store.PrevPage()
		m.clampCursor()
		return m, nil

	case "right", "l":
		m.Store.NextPage()
		m.clampCursor()
		return m, nil

	case " ", "enter":
		if task, ok := m.selected(); ok {
			completed := !task.Completed
			id := task.ID
			return m, func() tea.Msg {
				return MsgMutationDone{Err: m.Store.ApplyToggle(m.Ctx, id, completed)}
			}
		}
		return m, nil

	case "d":
		if task, ok := m.selected(); ok {
			m.DeleteID = task.ID
			m.State = StateConfirmDelete
		}
		return m, nil
	}
	return m, nil
}

func (m *DashboardModel) selected() (models.Task, bool) {
	items := m.Store.Page().Items
	if m.Cursor < 0 || m.Cursor >= len(items) {
		return models.Task{}, false
	}
	return items[m.Cursor], true
}

func (m *DashboardModel) clampCursor() {
	n := len(m.Store.Page().Items)
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func next[T comparable](cycle []T, current T) T {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (m DashboardModel) View() string {
	var sb strings.Builder

	q := m.Store.Query()
	sb.WriteString(StyleHeader.Render("taskdeck") + "  ")
	sb.WriteString(StyleSubtle.Render(fmt.Sprintf("filter:%s  sort:%s", q.Status, q.Sort)))
	sb.WriteString("\n\n")

	if m.State == StateSearching || q.Search != "" {
		sb.WriteString(StyleInputBox.Render(m.SearchInput.View()) + "\n\n")
	}

	if m.State == StateLoading && m.Store.Len() == 0 {
		sb.WriteString(m.Spinner.View() + " Loading your tasks...\n")
		return sb.String()
	}

	win := m.Store.Page()
	if len(win.Items) == 0 {
		sb.WriteString(StyleSubtle.Render("No tasks found") + "\n")
	}
	for i, task := range win.Items {
		line := m.renderTask(task)
		if i == m.Cursor && m.State != StateSearching {
			line = StyleSelected.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + m.renderFooter(win))

	if m.State == StateConfirmDelete {
		sb.WriteString("\n" + StyleWarning.Render(
			fmt.Sprintf("Delete task %d? (y/n)", m.DeleteID)))
	}

	for _, n := range m.Bus.Active() {
		style := NotificationStyle(n.Kind)
		sb.WriteString("\n" + style.Render(NotificationIcon(n.Kind)+" "+n.Message))
	}

	sb.WriteString("\n" + StyleSubtle.Render(
		"space toggle • d delete • / search • f filter • s sort • ←/→ page • r refresh • q quit"))
	return sb.String()
}

func (m DashboardModel) renderTask(task models.Task) string {
	check := "[ ]"
	title := task.Title
	if task.Completed {
		check = StyleSuccess.Render("[x]")
		title = StyleDone.Render(title)
	}
	line := fmt.Sprintf("%s %s", check, title)
	if task.Description != "" {
		desc := task.Description
		if len(desc) > 40 {
			desc = desc[:39] + "…"
		}
		line += "  " + StyleSubtle.Render(desc)
	}
	return line
}

func (m DashboardModel) renderFooter(win collection.Window) string {
	counts := m.Store.Counts()
	summary := fmt.Sprintf("%d tasks • %d pending • %d completed",
		counts.Total, counts.Pending, counts.Completed)

	if win.TotalItems == 0 {
		return StyleSubtle.Render(summary)
	}
	paging := fmt.Sprintf("Showing %d to %d of %d • page %d/%d",
		win.ShowingFrom(), win.ShowingTo(), win.TotalItems, win.Page, win.TotalPages)
	return StyleSubtle.Render(paging + "\n" + summary)
}
