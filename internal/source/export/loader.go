// Package export loads planner records from JSON export files produced
// by the upstream document store.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/crm-planner/internal/model"
	"github.com/nhle/crm-planner/internal/source"
)

// Loader implements source.Loader over a directory (or single file) of
// JSON exports. Multiple files merge in lexical order, so a later
// export of the same record wins at upsert time.
type Loader struct {
	path string
	log  *zap.Logger
}

// NewLoader creates a Loader for the given file or directory path.
// A nil logger disables diagnostics.
func NewLoader(path string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{path: path, log: log}
}

// Name identifies the loader for diagnostics.
func (l *Loader) Name() string {
	return "export:" + l.path
}

// Load reads every export file and converts its records. Files that
// fail to parse are skipped with a warning; a missing path is an empty
// result, not an error.
func (l *Loader) Load(ctx context.Context) (*source.LoadResult, error) {
	files, err := l.exportFiles()
	if err != nil {
		return nil, err
	}

	result := &source.LoadResult{}
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading export %s: %w", file, err)
		}

		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			l.log.Warn("skipping unparsable export file",
				zap.String("file", file), zap.Error(err))
			result.Skipped++
			continue
		}

		l.mergeDocument(result, doc)
	}

	return result, nil
}

// exportFiles resolves the configured path to a sorted list of JSON
// files.
func (l *Loader) exportFiles() ([]string, error) {
	info, err := os.Stat(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking export path %s: %w", l.path, err)
	}

	if !info.IsDir() {
		return []string{l.path}, nil
	}

	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, fmt.Errorf("listing export dir %s: %w", l.path, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(l.path, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// mergeDocument converts one document's records into the result,
// dropping records without IDs.
func (l *Loader) mergeDocument(result *source.LoadResult, doc Document) {
	for _, raw := range doc.Opportunities {
		if raw.ID == "" {
			l.log.Warn("skipping opportunity without id")
			result.Skipped++
			continue
		}
		result.Opportunities = append(result.Opportunities, toOpportunity(raw))
	}
	for _, raw := range doc.Assignments {
		if raw.ID == "" {
			l.log.Warn("skipping assignment without id")
			result.Skipped++
			continue
		}
		result.Assignments = append(result.Assignments, toAssignment(raw))
	}
	for _, raw := range doc.Accounts {
		result.Accounts = append(result.Accounts, model.Account{
			ID:        raw.ID,
			Name:      raw.Name,
			Industry:  raw.Industry,
			Website:   raw.Website,
			OwnerID:   raw.OwnerID,
			CreatedAt: raw.CreatedAt.Time(),
			UpdatedAt: raw.UpdatedAt.Time(),
		})
	}
	for _, raw := range doc.Contacts {
		result.Contacts = append(result.Contacts, model.Contact{
			ID:        raw.ID,
			AccountID: raw.AccountID,
			Name:      raw.Name,
			Email:     raw.Email,
			Phone:     raw.Phone,
			Role:      raw.Role,
			CreatedAt: raw.CreatedAt.Time(),
			UpdatedAt: raw.UpdatedAt.Time(),
		})
	}
	for _, raw := range doc.Products {
		result.Products = append(result.Products, model.Product{
			ID:        raw.ID,
			Name:      raw.Name,
			SKU:       raw.SKU,
			Price:     raw.Price,
			Active:    raw.Active,
			CreatedAt: raw.CreatedAt.Time(),
			UpdatedAt: raw.UpdatedAt.Time(),
		})
	}
	for _, raw := range doc.Users {
		result.Users = append(result.Users, model.User{
			ID:          raw.ID,
			DisplayName: raw.DisplayName,
			Email:       raw.Email,
			CreatedAt:   raw.CreatedAt.Time(),
		})
	}
}

// toOpportunity converts a wire opportunity to the model record.
func toOpportunity(raw Opportunity) model.Opportunity {
	opp := model.Opportunity{
		ID:        raw.ID,
		AccountID: raw.AccountID,
		ContactID: raw.ContactID,
		Title:     raw.Title,
		Stage:     normalizeToken(raw.Stage, model.StageLead),
		Value:     raw.Value,
		Priority:  normalizePriority(raw.Priority),
		OwnerID:   raw.OwnerID,
		CreatedAt: raw.CreatedAt.Time(),
		UpdatedAt: raw.UpdatedAt.Time(),
	}

	for _, a := range raw.Activities {
		opp.Activities = append(opp.Activities, toActivity(a, raw.ID))
	}
	for _, c := range raw.Checklist {
		opp.Checklist = append(opp.Checklist, toChecklistItem(c, raw.ID))
	}
	for _, b := range raw.Blockers {
		opp.Blockers = append(opp.Blockers, toChecklistItem(b, raw.ID))
	}

	return opp
}

// toAssignment converts a wire assignment to the model record.
func toAssignment(raw Assignment) model.Assignment {
	asg := model.Assignment{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		Status:      normalizeToken(raw.Status, model.AssignmentStatusTodo),
		AssignedTo:  raw.AssignedTo,
		AccountID:   raw.AccountID,
		CreatedAt:   raw.CreatedAt.Time(),
		UpdatedAt:   raw.UpdatedAt.Time(),
	}

	for _, c := range raw.Checklist {
		asg.Checklist = append(asg.Checklist, toChecklistItem(c, raw.ID))
	}
	for _, a := range raw.Activities {
		asg.Activities = append(asg.Activities, toActivity(a, raw.ID))
	}

	return asg
}

// toActivity converts a wire activity to the model record.
func toActivity(raw Activity, parentID string) model.Activity {
	return model.Activity{
		ID:           raw.ID,
		ParentID:     parentID,
		Subject:      raw.Subject,
		Kind:         strings.ToLower(raw.Kind),
		Status:       normalizeToken(raw.Status, model.ActivityStatusScheduled),
		DateTime:     raw.DateTime.Time(),
		FollowUpDate: raw.FollowUpDate.TimePtr(),
		Priority:     normalizePriority(raw.Priority),
		CreatedAt:    raw.CreatedAt.Time(),
	}
}

// toChecklistItem converts a wire checklist entry, honoring the
// label-to-text field migration: text wins when both are present.
func toChecklistItem(raw ChecklistItem, parentID string) model.ChecklistItem {
	text := raw.Text
	if text == "" {
		text = raw.Label
	}
	return model.ChecklistItem{
		ID:          raw.ID,
		ParentID:    parentID,
		Text:        text,
		Completed:   raw.Completed,
		DueDate:     raw.DueDate.TimePtr(),
		CreatedAt:   raw.CreatedAt.Time(),
		CompletedAt: raw.CompletedAt.TimePtr(),
	}
}

// normalizeToken lowercases a wire enum value, mapping empty to the
// given default.
func normalizeToken(s, def string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	return strings.ReplaceAll(s, " ", "_")
}

// normalizePriority maps a wire priority onto the model constants.
// Unknown values come through empty (no priority).
func normalizePriority(s string) model.Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "urgent":
		return model.PriorityCritical
	case "high":
		return model.PriorityHigh
	case "medium", "normal":
		return model.PriorityMedium
	case "low":
		return model.PriorityLow
	default:
		return ""
	}
}
