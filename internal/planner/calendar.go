package planner

import (
	"sort"
	"time"

	"github.com/nhle/crm-planner/internal/model"
)

// Section keys for the fixed (non-weekday) buckets.
const (
	SectionOverdue  = "overdue"
	SectionToday    = "today"
	SectionTomorrow = "tomorrow"
	SectionLater    = "later"
)

// Section is one named group of tasks in the weekly planner view.
// Weekday sections carry the specific day they cover; Overdue and
// Later have no single date.
type Section struct {
	Key   string
	Label string
	Date  time.Time
	Tasks []model.UnifiedTask
}

// MonthCell is one cell of the month grid. Leading pad cells before
// the 1st have Day == 0 and a zero Date.
type MonthCell struct {
	Day   int
	Date  time.Time
	Count int
}

// Calendar carries the planner's navigation state: the anchored 7-day
// window, the displayed month, and an optional selected date. Methods
// return a new value; Calendar is never mutated in place.
type Calendar struct {
	// WeekAnchor is the first day (local midnight) of the 7-day window.
	WeekAnchor time.Time

	// Month is the first day of the displayed month, independent of
	// the week anchor.
	Month time.Time

	// Selected is the single selected date, if any.
	Selected *time.Time

	weekStart time.Weekday
}

// NewCalendar creates a Calendar anchored on the week containing now,
// displaying now's month, with nothing selected.
func NewCalendar(now time.Time, weekStart time.Weekday) Calendar {
	return Calendar{
		WeekAnchor: weekAnchorFor(now, weekStart),
		Month:      firstOfMonth(now),
		weekStart:  weekStart,
	}
}

// weekAnchorFor returns the first day of the 7-day window containing t.
func weekAnchorFor(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	back := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// firstOfMonth returns local midnight on the 1st of t's month.
func firstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// NextWeek advances the window by exactly 7 days.
func (c Calendar) NextWeek() Calendar {
	c.WeekAnchor = c.WeekAnchor.AddDate(0, 0, 7)
	return c
}

// PrevWeek moves the window back by exactly 7 days.
func (c Calendar) PrevWeek() Calendar {
	c.WeekAnchor = c.WeekAnchor.AddDate(0, 0, -7)
	return c
}

// NextMonth advances the displayed month.
func (c Calendar) NextMonth() Calendar {
	c.Month = c.Month.AddDate(0, 1, 0)
	return c
}

// PrevMonth moves the displayed month back.
func (c Calendar) PrevMonth() Calendar {
	c.Month = c.Month.AddDate(0, -1, 0)
	return c
}

// Select marks a date as selected and re-anchors the week view so the
// window contains it.
func (c Calendar) Select(d time.Time) Calendar {
	day := StartOfDay(d)
	c.Selected = &day
	c.WeekAnchor = weekAnchorFor(day, c.weekStart)
	return c
}

// ClearSelection drops the selected date.
func (c Calendar) ClearSelection() Calendar {
	c.Selected = nil
	return c
}

// WeekSections partitions tasks into the weekly planner buckets:
// Overdue, Today, Tomorrow, one section per remaining window day after
// tomorrow, and Later. Every visible task lands in exactly one
// section; each section is sorted ascending by due date.
//
// Completed tasks are hidden unless they were completed on today's
// calendar day; those stay visible (under Today) until the day rolls
// over.
func (c Calendar) WeekSections(tasks []model.UnifiedTask, now time.Time) []Section {
	today := StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	windowEnd := c.WeekAnchor.AddDate(0, 0, 6)

	overdue := Section{Key: SectionOverdue, Label: "Overdue"}
	todaySec := Section{Key: SectionToday, Label: "Today", Date: today}
	tomorrowSec := Section{Key: SectionTomorrow, Label: "Tomorrow", Date: tomorrow}
	later := Section{Key: SectionLater, Label: "Later"}

	// Weekday sections cover the window days strictly after tomorrow.
	var weekdays []Section
	for d := c.WeekAnchor; !d.After(windowEnd); d = d.AddDate(0, 0, 1) {
		if !d.After(tomorrow) {
			continue
		}
		weekdays = append(weekdays, Section{
			Key:   d.Weekday().String(),
			Label: d.Weekday().String(),
			Date:  d,
		})
	}

	for _, t := range tasks {
		completed := t.IsComplete || t.Status == model.TaskStatusCompleted
		if completed {
			if t.CompletedAt == nil || !SameDay(*t.CompletedAt, now) {
				continue
			}
			// Completed earlier today: keep visible for the day.
			todaySec.Tasks = append(todaySec.Tasks, t)
			continue
		}

		dueDay := StartOfDay(t.DueDate)
		switch {
		case dueDay.Before(today):
			overdue.Tasks = append(overdue.Tasks, t)
		case dueDay.Equal(today):
			todaySec.Tasks = append(todaySec.Tasks, t)
		case dueDay.Equal(tomorrow):
			tomorrowSec.Tasks = append(tomorrowSec.Tasks, t)
		default:
			placed := false
			for i := range weekdays {
				if dueDay.Equal(weekdays[i].Date) {
					weekdays[i].Tasks = append(weekdays[i].Tasks, t)
					placed = true
					break
				}
			}
			if !placed {
				later.Tasks = append(later.Tasks, t)
			}
		}
	}

	sections := make([]Section, 0, len(weekdays)+4)
	sections = append(sections, overdue, todaySec, tomorrowSec)
	sections = append(sections, weekdays...)
	sections = append(sections, later)

	for i := range sections {
		sortByDueDate(sections[i].Tasks)
	}

	return sections
}

// MonthGrid produces the displayed month as a flat, leading-padded
// sequence of day cells, each annotated with the count of tasks due
// that day. Counts are computed against whatever set the caller
// passes, typically the full unfiltered collection.
func (c Calendar) MonthGrid(tasks []model.UnifiedTask) []MonthCell {
	first := firstOfMonth(c.Month)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	counts := make(map[int]int)
	for _, t := range tasks {
		y, m, d := t.DueDate.Date()
		fy, fm, _ := first.Date()
		if y == fy && m == fm {
			counts[d]++
		}
	}

	pad := (int(first.Weekday()) - int(c.weekStart) + 7) % 7
	cells := make([]MonthCell, 0, pad+daysInMonth)
	for i := 0; i < pad; i++ {
		cells = append(cells, MonthCell{})
	}
	for d := 1; d <= daysInMonth; d++ {
		cells = append(cells, MonthCell{
			Day:   d,
			Date:  first.AddDate(0, 0, d-1),
			Count: counts[d],
		})
	}

	return cells
}

// TasksOn returns the tasks due on the given calendar day, in input
// order.
func TasksOn(tasks []model.UnifiedTask, date time.Time) []model.UnifiedTask {
	var out []model.UnifiedTask
	for _, t := range tasks {
		if SameDay(t.DueDate, date) {
			out = append(out, t)
		}
	}
	return out
}

// sortByDueDate orders tasks ascending by due date, keeping input
// order on ties.
func sortByDueDate(tasks []model.UnifiedTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
}
