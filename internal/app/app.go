package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/crm-planner/internal/directory"
	"github.com/nhle/crm-planner/internal/keys"
	"github.com/nhle/crm-planner/internal/model"
	plan "github.com/nhle/crm-planner/internal/planner"
	"github.com/nhle/crm-planner/internal/store"
	appsync "github.com/nhle/crm-planner/internal/sync"
	"github.com/nhle/crm-planner/internal/ui"
	calview "github.com/nhle/crm-planner/internal/ui/calendar"
	"github.com/nhle/crm-planner/internal/ui/detail"
	"github.com/nhle/crm-planner/internal/ui/filterform"
	helpview "github.com/nhle/crm-planner/internal/ui/help"
	plannerview "github.com/nhle/crm-planner/internal/ui/planner"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewCalendar
	ViewDetail
	ViewFilter
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.Store
	keys         *keys.KeyMap
	log          *zap.Logger

	builder   *plan.Builder
	directory *directory.Resolver
	watcher   *appsync.Watcher

	tasks []model.UnifiedTask

	listView   plannerview.Model
	calView    calview.Model
	detailView detail.Model
	helpView   helpview.Model
	filterView filterform.Model

	ready        bool
	loadError    string
	lastReloaded time.Time
}

// Options carries the wired dependencies for the root model.
type Options struct {
	Store     store.Store
	Watcher   *appsync.Watcher
	Directory *directory.Resolver
	WeekStart time.Weekday
	Log       *zap.Logger
}

// New creates a new root application model.
func New(opts Options) Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	km := keys.DefaultKeyMap()

	return Model{
		currentView: ViewList,
		store:       opts.Store,
		keys:        km,
		log:         log,
		builder:     plan.NewBuilder(log),
		directory:   opts.Directory,
		watcher:     opts.Watcher,
		listView:    plannerview.New(km, 80, 24),
		calView:     calview.New(km, opts.WeekStart, 80, 24),
		detailView:  detail.New(km, 80, 24),
		helpView:    helpview.New(km, 80, 24),
		filterView:  filterform.New(80, 24),
	}
}

// Init starts the export watcher and loads the initial task set.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.watcher.Start(),
		m.rebuildTasks(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.listView.SetSize(contentWidth, contentHeight)
		m.calView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.filterView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can size themselves.
		return m.updateActiveView(msg)

	case appsync.ReloadResultMsg:
		if msg.Err != nil {
			m.loadError = msg.Err.Error()
			return m, m.watcher.WaitForNextResult()
		}
		m.loadError = ""
		m.lastReloaded = time.Now()
		return m, tea.Batch(m.rebuildTasks(), m.watcher.WaitForNextResult())

	case tasksBuiltMsg:
		if msg.err != nil {
			m.loadError = msg.err.Error()
			return m, nil
		}
		m.tasks = msg.tasks
		m.calView.SetTasks(msg.tasks)
		m.filterView.SetUsers(msg.users)
		var cmd tea.Cmd
		m.listView, cmd = m.listView.Update(plannerview.TasksLoadedMsg{Tasks: msg.tasks})
		return m, cmd

	case plannerview.SelectedTaskMsg:
		task := findTask(m.tasks, msg.Type, msg.TaskID)
		if task == nil {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetTask(task)
		return m, nil

	case plannerview.CompleteTaskMsg:
		task := findTask(m.tasks, msg.Type, msg.TaskID)
		if task == nil || task.IsComplete {
			return m, nil
		}
		return m, m.completeTask(*task)

	case detail.CompleteMsg:
		task := findTask(m.tasks, msg.Type, msg.TaskID)
		if task == nil || task.IsComplete {
			return m, nil
		}
		return m, m.completeTask(*task)

	case detail.RescheduleMsg:
		return m, m.rescheduleTask(msg.Type, msg.TaskID, msg.Date)

	case taskCompletedMsg:
		if msg.err != nil {
			m.log.Warn("failed to persist task completion",
				zap.String("task_id", msg.taskID), zap.Error(msg.err))
			m.loadError = fmt.Sprintf("complete failed: %v", msg.err)
			return m, nil
		}
		markComplete(m.tasks, msg.taskType, msg.taskID, time.Now())
		m.calView.SetTasks(m.tasks)
		if task := findTask(m.tasks, msg.taskType, msg.taskID); task != nil && m.currentView == ViewDetail {
			m.detailView.SetTask(task)
		}
		var cmd tea.Cmd
		m.listView, cmd = m.listView.Update(plannerview.TasksLoadedMsg{Tasks: m.tasks})
		return m, cmd

	case taskRescheduledMsg:
		if msg.err != nil {
			m.log.Warn("failed to persist follow-up date",
				zap.String("task_id", msg.taskID), zap.Error(msg.err))
			m.loadError = fmt.Sprintf("postpone failed: %v", msg.err)
			return m, nil
		}
		// Due dates are derived, so refresh the collection from the
		// store; the detail pane would go stale, so leave it.
		if m.currentView == ViewDetail {
			m.currentView = m.previousView
		}
		return m, m.rebuildTasks()

	case plannerview.OpenFilterMsg:
		m.previousView = m.currentView
		m.currentView = ViewFilter
		return m, m.filterView.Start(m.listView.Filter(), m.listView.Sort())

	case filterform.FilterAppliedMsg:
		m.currentView = ViewList
		return m, tea.Batch(
			m.listView.SetFilter(msg.Filter),
			m.listView.SetSort(msg.Sort),
		)

	case filterform.FilterCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case detail.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		// Global keys that work regardless of current view.
		switch {
		case msg.String() == "ctrl+c":
			m.watcher.Stop()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Quit):
			if m.currentView == ViewList || m.currentView == ViewCalendar {
				m.watcher.Stop()
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewFilter {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Calendar):
			switch m.currentView {
			case ViewList:
				m.previousView = m.currentView
				m.currentView = ViewCalendar
				return m, nil
			case ViewCalendar:
				m.currentView = ViewList
				return m, nil
			}

		case key.Matches(msg, m.keys.Refresh):
			if m.currentView == ViewList || m.currentView == ViewCalendar {
				return m, m.watcher.Refresh()
			}

		case key.Matches(msg, m.keys.Back):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	// Delegate to the active sub-view.
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.listView, cmd = m.listView.Update(msg)
	case ViewCalendar:
		m.calView, cmd = m.calView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewFilter:
		m.filterView, cmd = m.filterView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("CRM Planner", m.viewTitle(), m.reloadStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.taskCounter())

	return m.layout.Frame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.listView.View()
	case ViewCalendar:
		return m.calView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewFilter:
		return m.filterView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// viewTitle names the active view for the header.
func (m Model) viewTitle() string {
	switch m.currentView {
	case ViewCalendar:
		return "Calendar"
	case ViewDetail:
		return "Task"
	case ViewFilter:
		return "Filter"
	case ViewHelp:
		return "Help"
	default:
		return "Tasks"
	}
}

// taskCounter summarizes the unified collection for the status bar.
func (m Model) taskCounter() string {
	open := 0
	for _, t := range m.tasks {
		if !t.IsComplete {
			open++
		}
	}
	return fmt.Sprintf("%d open / %d total", open, len(m.tasks))
}

// reloadStatus returns a short string describing the export watcher state.
func (m Model) reloadStatus() string {
	state, lastLoad := m.watcher.State()

	switch state {
	case appsync.ReloadRunning:
		return "reloading"
	case appsync.ReloadError:
		return "⚠ reload failed"
	default:
		if lastLoad.IsZero() {
			return "no data"
		}
		return fmt.Sprintf("loaded %s", lastLoad.Format("15:04:05"))
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.loadError != "" && m.currentView == ViewList {
		return m.loadError
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "esc back | x complete | p postpone | j/k scroll"
	case ViewFilter:
		return "enter submit | esc cancel"
	case ViewCalendar:
		return "c list | [/] week | {/} month | h/l day | t today | esc clear | q quit"
	default:
		return "q quit | ? help | c calendar | f filter | tab sort | x complete | r refresh"
	}
}
