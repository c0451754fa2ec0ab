package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/crm-planner/internal/model"
)

// UpsertAssignments inserts or replaces a batch of assignments together
// with their checklist items and activities.
func (s *SQLiteStore) UpsertAssignments(
	ctx context.Context,
	asgs []model.Assignment,
) error {
	if len(asgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range asgs {
		asg := asgs[i]
		if asg.ID == "" {
			asg.ID = uuid.New().String()
		}
		if asg.Status == "" {
			asg.Status = model.AssignmentStatusTodo
		}
		if asg.UpdatedAt.IsZero() {
			asg.UpdatedAt = time.Now().UTC()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO assignments (
				id, title, description, status, assigned_to,
				account_id, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			asg.ID, asg.Title, asg.Description, asg.Status,
			asg.AssignedTo, asg.AccountID,
			asg.CreatedAt.UTC(), asg.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting assignment %s: %w", asg.ID, err)
		}

		if err := replaceChecklist(ctx, tx, "assignment_checklist", asg.ID, asg.Checklist); err != nil {
			return err
		}
		if err := replaceActivities(ctx, tx, "assignment_activities", asg.ID, asg.Activities); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetAssignments retrieves assignments matching the filter, including
// their sub-entities.
func (s *SQLiteStore) GetAssignments(
	ctx context.Context,
	filter AssignmentFilter,
) ([]model.Assignment, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.AssignedTo != nil {
		conditions = append(conditions, "assigned_to = ?")
		args = append(args, *filter.AssignedTo)
	}
	if filter.AccountID != nil {
		conditions = append(conditions, "account_id = ?")
		args = append(args, *filter.AccountID)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT * FROM assignments"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "updated_at"
	allowedSorts := map[string]bool{
		"title":      true,
		"status":     true,
		"created_at": true,
		"updated_at": true,
	}
	if allowedSorts[filter.SortBy] {
		sortBy = filter.SortBy
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var asgs []model.Assignment
	if err := s.db.SelectContext(ctx, &asgs, query, args...); err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}

	for i := range asgs {
		if err := s.loadAssignmentChildren(ctx, &asgs[i]); err != nil {
			return nil, err
		}
	}

	return asgs, nil
}

// GetAssignmentByID retrieves a single assignment with its sub-entities.
func (s *SQLiteStore) GetAssignmentByID(
	ctx context.Context,
	id string,
) (*model.Assignment, error) {
	var asg model.Assignment
	err := s.db.GetContext(ctx, &asg, "SELECT * FROM assignments WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assignment %s not found", id)
		}
		return nil, fmt.Errorf("getting assignment %s: %w", id, err)
	}

	if err := s.loadAssignmentChildren(ctx, &asg); err != nil {
		return nil, err
	}

	return &asg, nil
}

// DeleteAssignment removes an assignment by ID. Cascades to its
// checklist items and activities.
func (s *SQLiteStore) DeleteAssignment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting assignment %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("assignment %s not found", id)
	}
	return nil
}

// loadAssignmentChildren populates an assignment's sub-entity slices.
func (s *SQLiteStore) loadAssignmentChildren(
	ctx context.Context,
	asg *model.Assignment,
) error {
	var err error
	asg.Checklist, err = s.selectChecklist(ctx, "assignment_checklist", asg.ID)
	if err != nil {
		return fmt.Errorf("loading checklist for assignment %s: %w", asg.ID, err)
	}
	asg.Activities, err = s.selectActivities(ctx, "assignment_activities", asg.ID)
	if err != nil {
		return fmt.Errorf("loading activities for assignment %s: %w", asg.ID, err)
	}
	return nil
}

// checklistTableFor maps a unified-task type to its checklist table.
func checklistTableFor(taskType model.TaskType) (string, bool) {
	switch taskType {
	case model.TaskTypeOpportunityChecklist:
		return "opportunity_checklist", true
	case model.TaskTypeOpportunityBlocker:
		return "opportunity_blockers", true
	case model.TaskTypeAssignmentChecklist:
		return "assignment_checklist", true
	default:
		return "", false
	}
}

// activityTableFor maps a unified-task type to its activity table.
func activityTableFor(taskType model.TaskType) (string, bool) {
	switch taskType {
	case model.TaskTypeOpportunityActivity:
		return "opportunity_activities", true
	case model.TaskTypeAssignmentActivity:
		return "assignment_activities", true
	default:
		return "", false
	}
}

// SetChecklistItemCompleted toggles completion on the row a unified
// task of the given type originated from.
func (s *SQLiteStore) SetChecklistItemCompleted(
	ctx context.Context,
	taskType model.TaskType,
	id string,
	completed bool,
) error {
	table, ok := checklistTableFor(taskType)
	if !ok {
		return fmt.Errorf("task type %s has no checklist row", taskType)
	}

	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}

	query := fmt.Sprintf(
		"UPDATE %s SET completed = ?, completed_at = ? WHERE id = ?", table,
	)
	result, err := s.db.ExecContext(ctx, query, boolToInt(completed), completedAt, id)
	if err != nil {
		return fmt.Errorf("updating checklist item %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("checklist item %s not found", id)
	}
	return nil
}

// CompleteActivity marks an activity row as completed.
func (s *SQLiteStore) CompleteActivity(
	ctx context.Context,
	taskType model.TaskType,
	id string,
) error {
	table, ok := activityTableFor(taskType)
	if !ok {
		return fmt.Errorf("task type %s has no activity row", taskType)
	}

	query := fmt.Sprintf("UPDATE %s SET status = ? WHERE id = ?", table)
	result, err := s.db.ExecContext(ctx, query, model.ActivityStatusCompleted, id)
	if err != nil {
		return fmt.Errorf("completing activity %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("activity %s not found", id)
	}
	return nil
}

// SetActivityFollowUp reschedules an activity's follow-up date; a nil
// followUp clears it.
func (s *SQLiteStore) SetActivityFollowUp(
	ctx context.Context,
	taskType model.TaskType,
	id string,
	followUp *time.Time,
) error {
	table, ok := activityTableFor(taskType)
	if !ok {
		return fmt.Errorf("task type %s has no activity row", taskType)
	}

	query := fmt.Sprintf("UPDATE %s SET follow_up_date = ? WHERE id = ?", table)
	result, err := s.db.ExecContext(ctx, query, followUp, id)
	if err != nil {
		return fmt.Errorf("rescheduling activity %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("activity %s not found", id)
	}
	return nil
}
