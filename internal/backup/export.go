package backup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lockin/internal/planner"
)

// Export renders data in the given format.
func Export(data Data, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return exportJSON(data)
	case FormatCSV:
		return exportDelimited(data, ","), nil
	case FormatTSV:
		return exportDelimited(data, "\t"), nil
	case FormatTXT:
		return exportText(data), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

func exportJSON(data Data) (string, error) {
	root := struct {
		Tasks      []taskRecord      `json:"tasks,omitempty"`
		Checklists []checklistRecord `json:"checklists,omitempty"`
	}{}
	for _, t := range data.Tasks {
		root.Tasks = append(root.Tasks, taskToRecord(t))
	}
	for _, c := range data.Checklists {
		root.Checklists = append(root.Checklists, checklistToRecord(c))
	}
	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling backup: %w", err)
	}
	return string(out), nil
}

func exportDelimited(data Data, delim string) string {
	var sb strings.Builder

	if len(data.Tasks) > 0 {
		sb.WriteString(strings.Join([]string{
			"ID", "Name", "Description", "StartTime", "EndTime",
			"Repeatability", "IsFloating", "Color", "CustomRepeatDays", "Reminders",
		}, delim))
		sb.WriteString("\n")
		for _, t := range data.Tasks {
			r := taskToRecord(t)
			fields := []string{
				strconv.FormatInt(r.ID, 10),
				escapeField(r.Name, delim),
				escapeField(stringOrEmpty(r.Description), delim),
				strconv.FormatInt(r.StartTime, 10),
				strconv.FormatInt(r.EndTime, 10),
				escapeField(r.Repeatability, delim),
				strconv.FormatBool(r.IsFloating),
				strconv.FormatInt(r.Color, 10),
				intOrEmpty(r.CustomRepeatDays),
				escapeField(joinReminders(r.Reminders), delim),
			}
			sb.WriteString(strings.Join(fields, delim))
			sb.WriteString("\n")
		}
	}

	if len(data.Checklists) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Join([]string{
			"ChecklistID", "ChecklistName", "IsCompleted", "ItemID", "ItemText", "ItemCompleted",
		}, delim))
		sb.WriteString("\n")
		for _, c := range data.Checklists {
			r := checklistToRecord(c)
			if len(r.Items) == 0 {
				fields := []string{
					escapeField(r.Checklist.ID, delim),
					escapeField(r.Checklist.Name, delim),
					strconv.FormatBool(r.Checklist.IsCompleted),
					"", "", "",
				}
				sb.WriteString(strings.Join(fields, delim))
				sb.WriteString("\n")
				continue
			}
			for _, item := range r.Items {
				fields := []string{
					escapeField(r.Checklist.ID, delim),
					escapeField(r.Checklist.Name, delim),
					strconv.FormatBool(r.Checklist.IsCompleted),
					escapeField(item.ID, delim),
					escapeField(item.Text, delim),
					strconv.FormatBool(item.IsCompleted),
				}
				sb.WriteString(strings.Join(fields, delim))
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

// exportText renders the one-way human-readable form.
func exportText(data Data) string {
	var sb strings.Builder

	if len(data.Tasks) > 0 {
		sb.WriteString("=== TASKS ===\n\n")
		for _, t := range data.Tasks {
			sb.WriteString("- " + t.Name + "\n")
			if t.Description != "" {
				sb.WriteString("  Desc: " + t.Description + "\n")
			}
			start, _ := t.Schedule.Span()
			var timeStr string
			if t.Schedule.Floating() {
				timeStr = planner.FormatMinutes(int(start))
			} else {
				timeStr = time.UnixMilli(start).UTC().Format("Mon, 02 Jan 15:04")
			}
			sb.WriteString("  Time: " + timeStr + "\n")
			sb.WriteString("  Repeat: " + string(t.Repeat) + "\n\n")
		}
	}

	if len(data.Checklists) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("=== CHECKLISTS ===\n\n")
		for _, c := range data.Checklists {
			status := "[ ]"
			if c.Checklist.Completed {
				status = "[X]"
			}
			sb.WriteString(status + " " + c.Checklist.Name + "\n")
			for _, o := range planner.SortedObjectives(c.Objectives) {
				itemStatus := "[ ]"
				if o.Completed {
					itemStatus = "[x]"
				}
				sb.WriteString("   " + itemStatus + " " + o.Text + "\n")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// escapeField quotes a value when it contains the delimiter, a quote or a
// newline, doubling embedded quotes.
func escapeField(value, delim string) string {
	if strings.Contains(value, delim) || strings.Contains(value, "\"") || strings.Contains(value, "\n") {
		return "\"" + strings.ReplaceAll(value, "\"", "\"\"") + "\""
	}
	return value
}

func joinReminders(offsets []int) string {
	if len(offsets) == 0 {
		return ""
	}
	parts := make([]string, len(offsets))
	for i, o := range offsets {
		parts[i] = strconv.Itoa(o)
	}
	return strings.Join(parts, ";")
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
