package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/crm-planner/internal/model"
)

// UpsertOpportunities inserts or replaces a batch of opportunities
// together with their activities, checklist items, and blockers. The
// sub-entity rows are replaced wholesale so the store always mirrors
// the latest export.
func (s *SQLiteStore) UpsertOpportunities(
	ctx context.Context,
	opps []model.Opportunity,
) error {
	if len(opps) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range opps {
		opp := opps[i]
		if opp.ID == "" {
			opp.ID = uuid.New().String()
		}
		if opp.UpdatedAt.IsZero() {
			opp.UpdatedAt = time.Now().UTC()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO opportunities (
				id, account_id, contact_id, title, stage, value,
				priority, owner_id, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			opp.ID, opp.AccountID, opp.ContactID, opp.Title, opp.Stage,
			opp.Value, string(opp.Priority), opp.OwnerID,
			opp.CreatedAt.UTC(), opp.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting opportunity %s: %w", opp.ID, err)
		}

		if err := replaceActivities(ctx, tx, "opportunity_activities", opp.ID, opp.Activities); err != nil {
			return err
		}
		if err := replaceChecklist(ctx, tx, "opportunity_checklist", opp.ID, opp.Checklist); err != nil {
			return err
		}
		if err := replaceChecklist(ctx, tx, "opportunity_blockers", opp.ID, opp.Blockers); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetOpportunities retrieves opportunities matching the filter,
// including their sub-entities.
func (s *SQLiteStore) GetOpportunities(
	ctx context.Context,
	filter OpportunityFilter,
) ([]model.Opportunity, error) {
	var conditions []string
	var args []interface{}

	if filter.AccountID != nil {
		conditions = append(conditions, "account_id = ?")
		args = append(args, *filter.AccountID)
	}
	if filter.Stage != nil {
		conditions = append(conditions, "stage = ?")
		args = append(args, *filter.Stage)
	}
	if filter.OwnerID != nil {
		conditions = append(conditions, "owner_id = ?")
		args = append(args, *filter.OwnerID)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, string(*filter.Priority))
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+*filter.Query+"%")
	}

	query := "SELECT * FROM opportunities"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "updated_at"
	allowedSorts := map[string]bool{
		"title":      true,
		"stage":      true,
		"value":      true,
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

	var opps []model.Opportunity
	if err := s.db.SelectContext(ctx, &opps, query, args...); err != nil {
		return nil, fmt.Errorf("querying opportunities: %w", err)
	}

	for i := range opps {
		if err := s.loadOpportunityChildren(ctx, &opps[i]); err != nil {
			return nil, err
		}
	}

	return opps, nil
}

// GetOpportunityByID retrieves a single opportunity with its
// sub-entities.
func (s *SQLiteStore) GetOpportunityByID(
	ctx context.Context,
	id string,
) (*model.Opportunity, error) {
	var opp model.Opportunity
	err := s.db.GetContext(ctx, &opp, "SELECT * FROM opportunities WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("opportunity %s not found", id)
		}
		return nil, fmt.Errorf("getting opportunity %s: %w", id, err)
	}

	if err := s.loadOpportunityChildren(ctx, &opp); err != nil {
		return nil, err
	}

	return &opp, nil
}

// DeleteOpportunity removes an opportunity by ID. Cascades to its
// activities, checklist items, and blockers.
func (s *SQLiteStore) DeleteOpportunity(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM opportunities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting opportunity %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("opportunity %s not found", id)
	}
	return nil
}

// loadOpportunityChildren populates an opportunity's sub-entity slices.
func (s *SQLiteStore) loadOpportunityChildren(
	ctx context.Context,
	opp *model.Opportunity,
) error {
	var err error
	opp.Activities, err = s.selectActivities(ctx, "opportunity_activities", opp.ID)
	if err != nil {
		return fmt.Errorf("loading activities for opportunity %s: %w", opp.ID, err)
	}
	opp.Checklist, err = s.selectChecklist(ctx, "opportunity_checklist", opp.ID)
	if err != nil {
		return fmt.Errorf("loading checklist for opportunity %s: %w", opp.ID, err)
	}
	opp.Blockers, err = s.selectChecklist(ctx, "opportunity_blockers", opp.ID)
	if err != nil {
		return fmt.Errorf("loading blockers for opportunity %s: %w", opp.ID, err)
	}
	return nil
}

// selectActivities loads the activity rows for a parent record.
func (s *SQLiteStore) selectActivities(
	ctx context.Context,
	table string,
	parentID string,
) ([]model.Activity, error) {
	var acts []model.Activity
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE parent_id = ? ORDER BY date_time", table,
	)
	if err := s.db.SelectContext(ctx, &acts, query, parentID); err != nil {
		return nil, err
	}
	return acts, nil
}

// selectChecklist loads the checklist-shaped rows for a parent record.
func (s *SQLiteStore) selectChecklist(
	ctx context.Context,
	table string,
	parentID string,
) ([]model.ChecklistItem, error) {
	var items []model.ChecklistItem
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE parent_id = ? ORDER BY created_at", table,
	)
	if err := s.db.SelectContext(ctx, &items, query, parentID); err != nil {
		return nil, err
	}
	return items, nil
}

// replaceActivities swaps a parent's activity rows for the given set.
func replaceActivities(
	ctx context.Context,
	tx *sqlx.Tx,
	table string,
	parentID string,
	acts []model.Activity,
) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE parent_id = ?", table)
	if _, err := tx.ExecContext(ctx, query, parentID); err != nil {
		return fmt.Errorf("clearing %s for %s: %w", table, parentID, err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (
			id, parent_id, subject, kind, status,
			date_time, follow_up_date, priority, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, table)

	for _, act := range acts {
		if act.ID == "" {
			act.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, insert,
			act.ID, parentID, act.Subject, act.Kind, act.Status,
			act.DateTime, act.FollowUpDate, string(act.Priority),
			act.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting activity %s: %w", act.ID, err)
		}
	}
	return nil
}

// replaceChecklist swaps a parent's checklist-shaped rows for the
// given set.
func replaceChecklist(
	ctx context.Context,
	tx *sqlx.Tx,
	table string,
	parentID string,
	items []model.ChecklistItem,
) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE parent_id = ?", table)
	if _, err := tx.ExecContext(ctx, query, parentID); err != nil {
		return fmt.Errorf("clearing %s for %s: %w", table, parentID, err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (
			id, parent_id, text, completed, due_date, created_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`, table)

	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, insert,
			item.ID, parentID, item.Text, boolToInt(item.Completed),
			item.DueDate, item.CreatedAt, item.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting checklist item %s: %w", item.ID, err)
		}
	}
	return nil
}
