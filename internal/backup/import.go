package backup

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"lockin/internal/planner"
)

// Import decodes and validates a backup. Validation is all-or-nothing: any
// schema or content violation rejects the entire file and nothing is
// persisted from it.
func Import(r io.Reader, format Format) (Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Data{}, err
	}
	switch format {
	case FormatJSON:
		return importJSON(raw)
	case FormatCSV:
		return importDelimited(string(raw), ',')
	case FormatTSV:
		return importDelimited(string(raw), '\t')
	default:
		return Data{}, ErrNotImportable
	}
}

// Strict JSON schema: unknown keys anywhere are hard errors, as are
// missing required fields.
var (
	allowedRootKeys = keySet("tasks", "checklists")

	allowedTaskKeys = keySet("id", "name", "description", "color", "repeatability",
		"customRepeatDays", "isFloating", "startTime", "endTime", "reminders")
	requiredTaskKeys = []string{"name", "startTime", "endTime"}

	allowedWrapperKeys = keySet("checklist", "items")

	allowedChecklistKeys  = keySet("id", "name", "isCompleted", "createdAt")
	requiredChecklistKeys = []string{"name"}

	allowedItemKeys  = keySet("id", "checklistId", "text", "isCompleted", "order")
	requiredItemKeys = []string{"text", "isCompleted"}
)

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func importJSON(raw []byte) (Data, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return Data{}, invalidf("root must be a JSON object: %v", err)
	}
	if err := checkKeys(root, allowedRootKeys, nil, "root"); err != nil {
		return Data{}, err
	}

	var data Data

	if rawTasks, ok := root["tasks"]; ok {
		var elements []json.RawMessage
		if err := json.Unmarshal(rawTasks, &elements); err != nil {
			return Data{}, invalidf("'tasks' must be an array")
		}
		for _, el := range elements {
			t, err := importJSONTask(el)
			if err != nil {
				return Data{}, err
			}
			data.Tasks = append(data.Tasks, t)
		}
	}

	if rawChecklists, ok := root["checklists"]; ok {
		var elements []json.RawMessage
		if err := json.Unmarshal(rawChecklists, &elements); err != nil {
			return Data{}, invalidf("'checklists' must be an array")
		}
		for _, el := range elements {
			c, err := importJSONChecklist(el)
			if err != nil {
				return Data{}, err
			}
			data.Checklists = append(data.Checklists, c)
		}
	}

	return data, nil
}

func importJSONTask(raw json.RawMessage) (*planner.Task, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, invalidf("task must be an object")
	}
	if err := checkKeys(obj, allowedTaskKeys, requiredTaskKeys, "task"); err != nil {
		return nil, err
	}
	var r taskRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, invalidf("malformed task: %v", err)
	}
	return taskFromRecord(r)
}

func importJSONChecklist(raw json.RawMessage) (planner.ChecklistWithObjectives, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return planner.ChecklistWithObjectives{}, invalidf("checklist entry must be an object")
	}
	if err := checkKeys(obj, allowedWrapperKeys, []string{"checklist"}, "checklist entry"); err != nil {
		return planner.ChecklistWithObjectives{}, err
	}

	var entity map[string]json.RawMessage
	if err := json.Unmarshal(obj["checklist"], &entity); err != nil {
		return planner.ChecklistWithObjectives{}, invalidf("'checklist' must be an object")
	}
	if err := checkKeys(entity, allowedChecklistKeys, requiredChecklistKeys, "checklist"); err != nil {
		return planner.ChecklistWithObjectives{}, err
	}

	if rawItems, ok := obj["items"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(rawItems, &items); err != nil {
			return planner.ChecklistWithObjectives{}, invalidf("'items' must be an array")
		}
		for _, item := range items {
			var itemObj map[string]json.RawMessage
			if err := json.Unmarshal(item, &itemObj); err != nil {
				return planner.ChecklistWithObjectives{}, invalidf("objective must be an object")
			}
			if err := checkKeys(itemObj, allowedItemKeys, requiredItemKeys, "objective"); err != nil {
				return planner.ChecklistWithObjectives{}, err
			}
		}
	}

	var r checklistRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return planner.ChecklistWithObjectives{}, invalidf("malformed checklist: %v", err)
	}
	if r.Checklist.ID == "" {
		r.Checklist.ID = uuid.NewString()
	}
	for i := range r.Items {
		if r.Items[i].ID == "" {
			r.Items[i].ID = uuid.NewString()
		}
	}
	return checklistFromRecord(r)
}

func checkKeys(obj map[string]json.RawMessage, allowed map[string]bool, required []string, kind string) error {
	var unknown []string
	for k := range obj {
		if !allowed[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return invalidf("unknown fields in %s: %s", kind, strings.Join(unknown, ", "))
	}
	var missing []string
	for _, k := range required {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return invalidf("missing required fields in %s: %s", kind, strings.Join(missing, ", "))
	}
	return nil
}

// importDelimited parses the CSV/TSV form: up to two tables distinguished
// by header signature. Task and checklist IDs from the file are never
// trusted; they are regenerated, with item rows grouped under one new
// checklist per distinct source ChecklistID.
func importDelimited(raw string, delim byte) (Data, error) {
	var data Data
	mode := ""

	taskHeader := "ID" + string(delim) + "Name"
	checklistHeader := "ChecklistID" + string(delim) + "ChecklistName"

	// Source ChecklistID -> regenerated checklist, in first-seen order.
	checklistIndex := make(map[string]int)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, taskHeader) {
			mode = "tasks"
			continue
		}
		if strings.HasPrefix(line, checklistHeader) {
			mode = "checklists"
			continue
		}

		switch mode {
		case "tasks":
			t, err := delimitedTask(splitLine(line, delim))
			if err != nil {
				return Data{}, err
			}
			data.Tasks = append(data.Tasks, t)
		case "checklists":
			if err := delimitedChecklistRow(splitLine(line, delim), &data, checklistIndex); err != nil {
				return Data{}, err
			}
		default:
			return Data{}, invalidf("unrecognized table header")
		}
	}

	return data, nil
}

func delimitedTask(tokens []string) (*planner.Task, error) {
	if len(tokens) < 7 {
		return nil, invalidf("task row has %d fields, want at least 7", len(tokens))
	}
	r := taskRecord{
		ID:            0, // regenerated by the store on insert
		Name:          tokens[1],
		Repeatability: tokens[5],
		Color:         0xFFFFFFFF, // opaque white when absent
	}
	if tokens[2] != "" {
		desc := tokens[2]
		r.Description = &desc
	}
	var err error
	if r.StartTime, err = strconv.ParseInt(tokens[3], 10, 64); err != nil {
		return nil, invalidf("task %q has a malformed start time", r.Name)
	}
	if r.EndTime, err = strconv.ParseInt(tokens[4], 10, 64); err != nil {
		return nil, invalidf("task %q has a malformed end time", r.Name)
	}
	if r.IsFloating, err = strconv.ParseBool(tokens[6]); err != nil {
		return nil, invalidf("task %q has a malformed floating flag", r.Name)
	}
	if len(tokens) >= 8 && tokens[7] != "" {
		if c, err := strconv.ParseInt(tokens[7], 10, 64); err == nil {
			r.Color = c
		}
	}
	if len(tokens) >= 9 && tokens[8] != "" {
		if mask, err := strconv.Atoi(tokens[8]); err == nil {
			r.CustomRepeatDays = &mask
		}
	}
	if len(tokens) >= 10 && tokens[9] != "" {
		for _, part := range strings.Split(tokens[9], ";") {
			if o, err := strconv.Atoi(part); err == nil {
				r.Reminders = append(r.Reminders, o)
			}
		}
	}
	return taskFromRecord(r)
}

func delimitedChecklistRow(tokens []string, data *Data, index map[string]int) error {
	if len(tokens) < 3 {
		return invalidf("checklist row has %d fields, want at least 3", len(tokens))
	}
	sourceID, name := tokens[0], tokens[1]
	if name == "" {
		return invalidf("checklist has an empty name")
	}
	completed, _ := strconv.ParseBool(tokens[2])

	i, ok := index[sourceID]
	if !ok {
		data.Checklists = append(data.Checklists, planner.ChecklistWithObjectives{
			Checklist: planner.Checklist{
				ID:        uuid.NewString(),
				Name:      name,
				Completed: completed,
				CreatedAt: time.Now(),
			},
		})
		i = len(data.Checklists) - 1
		index[sourceID] = i
	}

	// Rows without item fields carry an empty checklist.
	if len(tokens) < 6 || tokens[4] == "" {
		return nil
	}
	c := &data.Checklists[i]
	itemCompleted, _ := strconv.ParseBool(tokens[5])
	c.Objectives = append(c.Objectives, planner.Objective{
		ID:          uuid.NewString(),
		ChecklistID: c.Checklist.ID,
		Text:        tokens[4],
		Completed:   itemCompleted,
		Order:       len(c.Objectives),
	})
	return nil
}

// splitLine splits one delimited row honouring quoted fields with doubled
// quote escapes.
func splitLine(line string, delim byte) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == delim && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
