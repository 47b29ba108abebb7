// Package backup implements the interchange formats: JSON (strict schema,
// re-importable), CSV/TSV (delimited tables, re-importable with ID
// regeneration) and TXT (human-readable, export only).
package backup

import (
	"errors"
	"fmt"
	"time"

	"lockin/internal/planner"
)

// Format identifies an interchange format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatTXT  Format = "txt"
)

// ErrNotImportable marks formats that only support export.
var ErrNotImportable = errors.New("format cannot be imported")

// ParseFormat maps a name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatTSV, FormatTXT:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// ValidationError reports a rejected import file. The whole batch is
// discarded; nothing is persisted from a file that fails validation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "import validation: " + e.Reason
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Data is a decoded backup.
type Data struct {
	Tasks      []*planner.Task
	Checklists []planner.ChecklistWithObjectives
}

// taskRecord is the wire shape of a task.
type taskRecord struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	Color            int64   `json:"color"`
	Repeatability    string  `json:"repeatability"`
	CustomRepeatDays *int    `json:"customRepeatDays,omitempty"`
	IsFloating       bool    `json:"isFloating"`
	StartTime        int64   `json:"startTime"`
	EndTime          int64   `json:"endTime"`
	Reminders        []int   `json:"reminders"`
}

type checklistEntityRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsCompleted bool   `json:"isCompleted"`
	CreatedAt   int64  `json:"createdAt"`
}

type objectiveRecord struct {
	ID          string `json:"id"`
	ChecklistID string `json:"checklistId"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
	Order       int    `json:"order"`
}

type checklistRecord struct {
	Checklist checklistEntityRecord `json:"checklist"`
	Items     []objectiveRecord     `json:"items"`
}

func taskToRecord(t *planner.Task) taskRecord {
	start, end := t.Schedule.Span()
	r := taskRecord{
		ID:            t.ID,
		Name:          t.Name,
		Color:         t.Color,
		Repeatability: string(t.Repeat),
		IsFloating:    t.Schedule.Floating(),
		StartTime:     start,
		EndTime:       end,
		Reminders:     t.Reminders,
	}
	if t.Description != "" {
		desc := t.Description
		r.Description = &desc
	}
	if t.Repeat == planner.RepeatCustom {
		mask := int(t.Weekdays)
		r.CustomRepeatDays = &mask
	}
	return r
}

// taskFromRecord converts and validates a wire task. Zero-duration tasks
// are rejected here in every repeat/floating combination.
func taskFromRecord(r taskRecord) (*planner.Task, error) {
	if r.Name == "" {
		return nil, invalidf("task has an empty name")
	}
	if r.StartTime == r.EndTime {
		return nil, invalidf("task %q has zero duration", r.Name)
	}
	repeat := planner.Repeat(r.Repeatability)
	if r.Repeatability == "" {
		repeat = planner.RepeatSingle
	}
	if !repeat.Valid() {
		return nil, invalidf("task %q has unknown repeatability %q", r.Name, r.Repeatability)
	}
	if len(r.Reminders) > planner.MaxReminders {
		return nil, invalidf("task %q has more than %d reminders", r.Name, planner.MaxReminders)
	}
	if r.IsFloating && (!planner.ValidMinutes(int(r.StartTime)) || !planner.ValidMinutes(int(r.EndTime))) {
		return nil, invalidf("task %q has floating times outside a single day", r.Name)
	}

	t := &planner.Task{
		ID:        r.ID,
		Name:      r.Name,
		Color:     r.Color,
		Repeat:    repeat,
		Schedule:  planner.RawSchedule(r.IsFloating, r.StartTime, r.EndTime),
		Reminders: r.Reminders,
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.CustomRepeatDays != nil {
		t.Weekdays = planner.WeekdayMask(*r.CustomRepeatDays)
	}
	return t, nil
}

func checklistToRecord(c planner.ChecklistWithObjectives) checklistRecord {
	r := checklistRecord{
		Checklist: checklistEntityRecord{
			ID:          c.Checklist.ID,
			Name:        c.Checklist.Name,
			IsCompleted: c.Checklist.Completed,
			CreatedAt:   c.Checklist.CreatedAt.UnixMilli(),
		},
	}
	for _, o := range c.Objectives {
		r.Items = append(r.Items, objectiveRecord{
			ID:          o.ID,
			ChecklistID: o.ChecklistID,
			Text:        o.Text,
			IsCompleted: o.Completed,
			Order:       o.Order,
		})
	}
	return r
}

func checklistFromRecord(r checklistRecord) (planner.ChecklistWithObjectives, error) {
	if r.Checklist.Name == "" {
		return planner.ChecklistWithObjectives{}, invalidf("checklist has an empty name")
	}
	out := planner.ChecklistWithObjectives{
		Checklist: planner.Checklist{
			ID:        r.Checklist.ID,
			Name:      r.Checklist.Name,
			Completed: r.Checklist.IsCompleted,
			CreatedAt: time.UnixMilli(r.Checklist.CreatedAt),
		},
	}
	for _, item := range r.Items {
		out.Objectives = append(out.Objectives, planner.Objective{
			ID:          item.ID,
			ChecklistID: out.Checklist.ID,
			Text:        item.Text,
			Completed:   item.IsCompleted,
			Order:       item.Order,
		})
	}
	return out, nil
}
