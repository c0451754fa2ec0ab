package planner

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/crm-planner/internal/model"
)

// untitledFallback is used when an assignment checklist item has
// neither text nor an ID to display. Older exports named the text
// field "label"; records migrated badly can lack both.
const untitledFallback = "Untitled Task"

// OpportunityPath returns the deep link to an opportunity's detail view.
func OpportunityPath(id string) string { return "/opportunities/" + id }

// AssignmentPath returns the deep link to an assignment's detail view.
func AssignmentPath(id string) string { return "/assignments/" + id }

// Builder aggregates opportunity and assignment sub-entities into the
// unified task collection. Aggregation is best-effort: items with a
// missing or unresolvable due date are dropped silently (counted at
// debug level), never surfaced as errors.
type Builder struct {
	log *zap.Logger

	// now is overridable in tests.
	now func() time.Time
}

// NewBuilder creates a Builder. A nil logger disables diagnostics.
func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log, now: time.Now}
}

// Build walks both source collections and emits one flat collection of
// unified tasks, sorted ascending by due date. It is pure and
// deterministic for a fixed "now"; the input records are not modified.
func (b *Builder) Build(
	opportunities []model.Opportunity,
	assignments []model.Assignment,
) []model.UnifiedTask {
	now := b.now()
	var tasks []model.UnifiedTask
	skipped := 0

	for _, opp := range opportunities {
		tasks = b.appendOpportunityTasks(tasks, opp, now, &skipped)
	}
	for _, asg := range assignments {
		tasks = b.appendAssignmentTasks(tasks, asg, now, &skipped)
	}

	// The single ordering guarantee of the builder: ascending due date,
	// ties kept in build order.
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})

	if skipped > 0 {
		b.log.Debug("excluded items without a resolvable due date",
			zap.Int("count", skipped))
	}

	return tasks
}

// appendOpportunityTasks extracts pending activities, checklist items,
// and blockers from one opportunity.
func (b *Builder) appendOpportunityTasks(
	tasks []model.UnifiedTask,
	opp model.Opportunity,
	now time.Time,
	skipped *int,
) []model.UnifiedTask {
	for _, act := range opp.Activities {
		if act.Status == model.ActivityStatusCompleted {
			continue
		}
		due, ok := activityDueDate(act)
		if !ok {
			*skipped++
			continue
		}
		tasks = append(tasks, model.UnifiedTask{
			ID:          act.ID,
			Title:       act.Subject,
			Type:        model.TaskTypeOpportunityActivity,
			ParentID:    opp.ID,
			ParentTitle: opp.Title,
			DueDate:     due,
			Status:      ClassifyStatus(due, false, now),
			Priority:    opp.Priority,
			LinkedURL:   OpportunityPath(opp.ID),
			ParentType:  model.ParentTypeOpportunity,
			AssignedTo:  opp.OwnerID,
			CreatedAt:   act.CreatedAt,
		})
	}

	for _, item := range opp.Checklist {
		if item.Completed || item.DueDate == nil {
			if !item.Completed {
				*skipped++
			}
			continue
		}
		tasks = append(tasks, checklistTask(
			item, model.TaskTypeOpportunityChecklist, opp.Priority,
			opp.ID, opp.Title, OpportunityPath(opp.ID),
			model.ParentTypeOpportunity, opp.OwnerID, now,
		))
	}

	// Blockers share the checklist shape but are categorically the most
	// urgent class of task: their priority is always Critical, no
	// matter what the record itself says.
	for _, blk := range opp.Blockers {
		if blk.Completed || blk.DueDate == nil {
			if !blk.Completed {
				*skipped++
			}
			continue
		}
		tasks = append(tasks, checklistTask(
			blk, model.TaskTypeOpportunityBlocker, model.PriorityCritical,
			opp.ID, opp.Title, OpportunityPath(opp.ID),
			model.ParentTypeOpportunity, opp.OwnerID, now,
		))
	}

	return tasks
}

// appendAssignmentTasks extracts pending checklist items and activities
// from one assignment.
func (b *Builder) appendAssignmentTasks(
	tasks []model.UnifiedTask,
	asg model.Assignment,
	now time.Time,
	skipped *int,
) []model.UnifiedTask {
	inferred := InferAssignmentPriority(asg.Status)

	for _, item := range asg.Checklist {
		if item.Completed || item.DueDate == nil {
			if !item.Completed {
				*skipped++
			}
			continue
		}

		title := item.Text
		if title == "" {
			title = item.ID
		}
		if title == "" {
			title = untitledFallback
		}

		createdAt := item.CreatedAt
		if createdAt.IsZero() {
			createdAt = asg.CreatedAt
		}

		tasks = append(tasks, model.UnifiedTask{
			ID:          item.ID,
			Title:       title,
			Type:        model.TaskTypeAssignmentChecklist,
			ParentID:    asg.ID,
			ParentTitle: asg.Title,
			DueDate:     *item.DueDate,
			Status:      ClassifyStatus(*item.DueDate, false, now),
			Priority:    inferred,
			LinkedURL:   AssignmentPath(asg.ID),
			ParentType:  model.ParentTypeAssignment,
			AssignedTo:  asg.AssignedTo,
			CreatedAt:   createdAt,
		})
	}

	for _, act := range asg.Activities {
		if act.Status == model.ActivityStatusCompleted {
			continue
		}
		due, ok := activityDueDate(act)
		if !ok {
			*skipped++
			continue
		}

		// Explicit priority on the activity wins; otherwise fall back
		// to the priority inferred from the assignment's workflow state.
		priority := act.Priority
		if priority == "" {
			priority = inferred
		}

		tasks = append(tasks, model.UnifiedTask{
			ID:          act.ID,
			Title:       act.Subject,
			Type:        model.TaskTypeAssignmentActivity,
			ParentID:    asg.ID,
			ParentTitle: asg.Title,
			DueDate:     due,
			Status:      ClassifyStatus(due, false, now),
			Priority:    priority,
			LinkedURL:   AssignmentPath(asg.ID),
			ParentType:  model.ParentTypeAssignment,
			AssignedTo:  asg.AssignedTo,
			CreatedAt:   act.CreatedAt,
		})
	}

	return tasks
}

// activityDueDate resolves an activity's planning date. An explicit
// follow-up date always wins; failing that, activities still in
// scheduled status fall back to their own date-time, which surfaces
// overdue scheduled work nobody set a follow-up for. Anything else has
// no resolvable date and is excluded.
func activityDueDate(act model.Activity) (time.Time, bool) {
	if act.FollowUpDate != nil {
		return *act.FollowUpDate, true
	}
	if act.Status == model.ActivityStatusScheduled && !act.DateTime.IsZero() {
		return act.DateTime, true
	}
	return time.Time{}, false
}

// checklistTask builds a unified task from a checklist-shaped item.
// The caller has already verified the item is pending and due-dated.
func checklistTask(
	item model.ChecklistItem,
	taskType model.TaskType,
	priority model.Priority,
	parentID, parentTitle, linkedURL string,
	parentType model.ParentType,
	assignedTo string,
	now time.Time,
) model.UnifiedTask {
	return model.UnifiedTask{
		ID:          item.ID,
		Title:       item.Text,
		Type:        taskType,
		ParentID:    parentID,
		ParentTitle: parentTitle,
		DueDate:     *item.DueDate,
		Status:      ClassifyStatus(*item.DueDate, false, now),
		Priority:    priority,
		LinkedURL:   linkedURL,
		ParentType:  parentType,
		AssignedTo:  assignedTo,
		CreatedAt:   item.CreatedAt,
	}
}
