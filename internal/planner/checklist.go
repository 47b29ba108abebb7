package planner

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Checklist errors.
var (
	ErrEmptyChecklistName = errors.New("checklist name cannot be empty")
	ErrEmptyObjectiveText = errors.New("objective text cannot be empty")
)

// Checklist is a named collection of objectives. IDs are client-generated
// UUIDs, unlike task IDs which the store assigns.
type Checklist struct {
	ID        string
	Name      string
	Completed bool // explicit manual-complete flag
	CreatedAt time.Time
}

// Objective is one entry of a checklist. Order ranks the objective among
// its incomplete siblings only; completed siblings keep their last order
// value and sink to the bottom of the display.
type Objective struct {
	ID          string
	ChecklistID string
	Text        string
	Completed   bool
	Order       int
}

// ChecklistWithObjectives is a checklist together with its child rows.
type ChecklistWithObjectives struct {
	Checklist  Checklist
	Objectives []Objective
}

// NewChecklist creates a checklist with a fresh UUID.
func NewChecklist(name string) (*Checklist, error) {
	if name == "" {
		return nil, ErrEmptyChecklistName
	}
	return &Checklist{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// NewObjective creates an objective for the given checklist.
func NewObjective(checklistID, text string, order int) (*Objective, error) {
	if text == "" {
		return nil, ErrEmptyObjectiveText
	}
	return &Objective{
		ID:          uuid.NewString(),
		ChecklistID: checklistID,
		Text:        text,
		Order:       order,
	}, nil
}

// EffectivelyComplete reports whether a checklist should display as done:
// either it was manually completed, or it has at least one objective and
// every objective is complete. Derived, never stored.
func EffectivelyComplete(c Checklist, objectives []Objective) bool {
	if c.Completed {
		return true
	}
	if len(objectives) == 0 {
		return false
	}
	for _, o := range objectives {
		if !o.Completed {
			return false
		}
	}
	return true
}

// SortedObjectives returns objectives in display order: incomplete first by
// rank, then completed ordered by their stored order as a tiebreak.
func SortedObjectives(objectives []Objective) []Objective {
	out := make([]Objective, len(objectives))
	copy(out, objectives)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// ReorderIncomplete moves the identified objective one position up or down
// among the incomplete siblings and renumbers that subset densely from 0.
// Completed objectives are never touched: their order fields stay as
// stored. The returned slice holds only the incomplete objectives with
// their new ranks; moved is false when the id is absent, completed, or
// already at the edge.
func ReorderIncomplete(objectives []Objective, id string, up bool) (updated []Objective, moved bool) {
	incomplete := make([]Objective, 0, len(objectives))
	for _, o := range objectives {
		if !o.Completed {
			incomplete = append(incomplete, o)
		}
	}
	sort.SliceStable(incomplete, func(i, j int) bool {
		if incomplete[i].Order != incomplete[j].Order {
			return incomplete[i].Order < incomplete[j].Order
		}
		return incomplete[i].ID < incomplete[j].ID
	})

	idx := -1
	for i, o := range incomplete {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}

	switch {
	case up && idx > 0:
		incomplete[idx], incomplete[idx-1] = incomplete[idx-1], incomplete[idx]
	case !up && idx < len(incomplete)-1:
		incomplete[idx], incomplete[idx+1] = incomplete[idx+1], incomplete[idx]
	default:
		return nil, false
	}

	for i := range incomplete {
		incomplete[i].Order = i
	}
	return incomplete, true
}
