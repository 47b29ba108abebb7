package backup

import (
	"strings"
	"testing"
	"time"

	"lockin/internal/planner"
)

func sampleData(t *testing.T) Data {
	t.Helper()
	fixed, err := planner.FixedSchedule(1_700_000_000_000, 1_700_003_600_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	floating, err := planner.FloatingSchedule(540, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return Data{
		Tasks: []*planner.Task{
			{ID: 1, Name: "Dentist, downtown", Description: "bring card", Repeat: planner.RepeatSingle,
				Schedule: fixed, Reminders: []int{-30, 0}},
			{ID: 2, Name: "Gym", Repeat: planner.RepeatCustom,
				Weekdays: planner.MaskOf(time.Monday, time.Friday), Schedule: floating},
		},
		Checklists: []planner.ChecklistWithObjectives{
			{
				Checklist: planner.Checklist{ID: "c1", Name: "Groceries", CreatedAt: time.UnixMilli(1_700_000_000_000)},
				Objectives: []planner.Objective{
					{ID: "o1", ChecklistID: "c1", Text: "Milk", Completed: true, Order: 0},
					{ID: "o2", ChecklistID: "c1", Text: "Bread", Order: 1},
				},
			},
			{Checklist: planner.Checklist{ID: "c2", Name: "Empty list", CreatedAt: time.UnixMilli(1_700_000_000_000)}},
		},
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	data := sampleData(t)
	out, err := Export(data, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	back, err := Import(strings.NewReader(out), FormatJSON)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if len(back.Tasks) != 2 || len(back.Checklists) != 2 {
		t.Fatalf("got %d tasks and %d checklists, want 2 and 2", len(back.Tasks), len(back.Checklists))
	}

	orig, got := data.Tasks[1], back.Tasks[1]
	if got.Name != orig.Name || got.Repeat != orig.Repeat || got.Weekdays != orig.Weekdays {
		t.Errorf("custom task did not survive: got %+v", got)
	}
	if !got.Schedule.Floating() {
		t.Error("floating flag lost")
	}
	gs, ge := got.Schedule.FloatingMinutes()
	if gs != 540 || ge != 600 {
		t.Errorf("got floating span [%d, %d), want [540, 600)", gs, ge)
	}
	if back.Checklists[0].Objectives[0].Text != "Milk" {
		t.Error("objective lost on round trip")
	}
}

func TestExportDelimited(t *testing.T) {
	out, err := Export(sampleData(t), FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if !strings.HasPrefix(lines[0], "ID,Name,Description") {
		t.Errorf("got task header %q", lines[0])
	}
	if !strings.Contains(out, `"Dentist, downtown"`) {
		t.Error("a name containing the delimiter must be quoted")
	}
	if !strings.Contains(out, "-30;0") {
		t.Error("reminders must be semicolon-joined")
	}

	// Blank line between the two tables.
	blank := -1
	for i, l := range lines {
		if l == "" {
			blank = i
			break
		}
	}
	if blank == -1 {
		t.Fatal("expected a blank line between tables")
	}
	if !strings.HasPrefix(lines[blank+1], "ChecklistID,ChecklistName") {
		t.Errorf("got checklist header %q", lines[blank+1])
	}

	// The empty checklist still exports one row, with blank item fields.
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "c2,Empty list,false,") || !strings.HasSuffix(last, ",,") {
		t.Errorf("got empty-checklist row %q", last)
	}
}

func TestExportDelimited_ReimportEquivalence(t *testing.T) {
	data := sampleData(t)
	out, err := Export(data, FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := Import(strings.NewReader(out), FormatCSV)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if len(back.Tasks) != 2 || len(back.Checklists) != 2 {
		t.Fatalf("got %d tasks and %d checklists, want 2 and 2", len(back.Tasks), len(back.Checklists))
	}
	if back.Tasks[0].Name != "Dentist, downtown" {
		t.Errorf("got name %q after escaping round trip", back.Tasks[0].Name)
	}
	if back.Checklists[0].Checklist.ID == "c1" {
		t.Error("delimited re-import must regenerate ids")
	}
	if len(back.Checklists[0].Objectives) != 2 {
		t.Errorf("got %d objectives, want 2", len(back.Checklists[0].Objectives))
	}
}

func TestExportText(t *testing.T) {
	out, err := Export(sampleData(t), FormatTXT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"=== TASKS ===",
		"- Dentist, downtown",
		"Desc: bring card",
		"=== CHECKLISTS ===",
		"[x] Milk",
		"[ ] Bread",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestExportJSON_OmitsEmptySections(t *testing.T) {
	out, err := Export(Data{}, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "tasks") || strings.Contains(out, "checklists") {
		t.Errorf("empty sections must be omitted, got %q", out)
	}
}
