package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/crm-planner/internal/model"
	"github.com/nhle/crm-planner/internal/store"
)

// tasksBuiltMsg carries a freshly rebuilt unified task collection.
type tasksBuiltMsg struct {
	tasks []model.UnifiedTask
	users []model.User
	err   error
}

// taskCompletedMsg reports the outcome of a completion write-through.
type taskCompletedMsg struct {
	taskType model.TaskType
	taskID   string
	err      error
}

// taskRescheduledMsg reports the outcome of a follow-up write-through.
type taskRescheduledMsg struct {
	taskType model.TaskType
	taskID   string
	err      error
}

// rebuildTasks loads both source collections from the store, runs the
// builder over them, and annotates assignee display names.
func (m Model) rebuildTasks() tea.Cmd {
	s := m.store
	builder := m.builder
	resolver := m.directory

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opps, err := s.GetOpportunities(ctx, store.OpportunityFilter{})
		if err != nil {
			return tasksBuiltMsg{err: err}
		}
		asgs, err := s.GetAssignments(ctx, store.AssignmentFilter{})
		if err != nil {
			return tasksBuiltMsg{err: err}
		}

		tasks := builder.Build(opps, asgs)
		resolver.Annotate(ctx, tasks)

		users, err := s.GetUsers(ctx)
		if err != nil {
			// Assignee options are a convenience; the task list is
			// still usable without them.
			users = nil
		}

		return tasksBuiltMsg{tasks: tasks, users: users}
	}
}

// completeTask writes completion through to the owning record.
func (m Model) completeTask(task model.UnifiedTask) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var err error
		if task.Type.IsActivity() {
			err = s.CompleteActivity(ctx, task.Type, task.ID)
		} else {
			err = s.SetChecklistItemCompleted(ctx, task.Type, task.ID, true)
		}

		return taskCompletedMsg{taskType: task.Type, taskID: task.ID, err: err}
	}
}

// rescheduleTask writes a new follow-up date through to the owning
// activity.
func (m Model) rescheduleTask(typ model.TaskType, id string, date time.Time) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := s.SetActivityFollowUp(ctx, typ, id, &date)
		return taskRescheduledMsg{taskType: typ, taskID: id, err: err}
	}
}

// findTask locates a task in the current collection. IDs repeat across
// task types, so the lookup is keyed on both.
func findTask(tasks []model.UnifiedTask, typ model.TaskType, id string) *model.UnifiedTask {
	for i := range tasks {
		if tasks[i].Type == typ && tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

// markComplete applies an optimistic in-memory completion so the task
// stays visible (struck through) until the day rolls over, without
// waiting for the next rebuild.
func markComplete(tasks []model.UnifiedTask, typ model.TaskType, id string, now time.Time) {
	for i := range tasks {
		if tasks[i].Type == typ && tasks[i].ID == id {
			tasks[i].IsComplete = true
			tasks[i].Status = model.TaskStatusCompleted
			completedAt := now
			tasks[i].CompletedAt = &completedAt
			return
		}
	}
}
