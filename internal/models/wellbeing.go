package models

import (
	"time"

	"github.com/GregMSThompson/household-finance/internal/errs"
)

type WellbeingKind string

const (
	WellbeingTask       WellbeingKind = "task"
	WellbeingHydration  WellbeingKind = "hydration"
	WellbeingMedication WellbeingKind = "medication"
)

const (
	maxGlasses           = 20
	medicationGrace      = 30 * time.Minute
	medicationTimeLayout = "15:04"
)

// WellbeingItem is a tagged variant: Kind selects which of Task, Hydration or
// Medication is populated and how completion and overdue checks behave.
type WellbeingItem struct {
	ID          string        `firestore:"id" json:"id"`
	Kind        WellbeingKind `firestore:"kind" json:"kind"`
	Title       string        `firestore:"title" json:"title"`
	Description string        `firestore:"description,omitempty" json:"description,omitempty"`
	AssignedTo  string        `firestore:"assignedTo" json:"assignedTo"`
	Completed   bool          `firestore:"completed" json:"completed"`
	CompletedAt *time.Time    `firestore:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time     `firestore:"createdAt" json:"createdAt"`

	Task       *TaskDetails       `firestore:"task,omitempty" json:"task,omitempty"`
	Hydration  *HydrationDetails  `firestore:"hydration,omitempty" json:"hydration,omitempty"`
	Medication *MedicationDetails `firestore:"medication,omitempty" json:"medication,omitempty"`
}

type TaskDetails struct {
	Category         string    `firestore:"category" json:"category"` // cleaning, cooking, shopping...
	Priority         string    `firestore:"priority" json:"priority"` // low, medium, high
	DueDate          time.Time `firestore:"dueDate" json:"dueDate"`
	EstimatedMinutes int       `firestore:"estimatedMinutes" json:"estimatedMinutes"`
	ActualMinutes    *int      `firestore:"actualMinutes,omitempty" json:"actualMinutes,omitempty"`
	Notes            string    `firestore:"notes,omitempty" json:"notes,omitempty"`
}

type HydrationDetails struct {
	Date            time.Time `firestore:"date" json:"date"`
	GlassesTarget   int       `firestore:"glassesTarget" json:"glassesTarget"`
	GlassesConsumed int       `firestore:"glassesConsumed" json:"glassesConsumed"`
}

type MedicationDetails struct {
	Name          string     `firestore:"name" json:"name"`
	Dosage        string     `firestore:"dosage" json:"dosage"`
	Date          time.Time  `firestore:"date" json:"date"`
	ScheduledTime string     `firestore:"scheduledTime" json:"scheduledTime"` // HH:MM
	Frequency     string     `firestore:"frequency" json:"frequency"`
	TakenAt       *time.Time `firestore:"takenAt,omitempty" json:"takenAt,omitempty"`
}

func (w *WellbeingItem) ItemType() WellbeingKind { return w.Kind }

// Validate checks that the variant payload matches Kind.
func (w *WellbeingItem) Validate() error {
	if w.Title == "" {
		return errs.NewValidationError("title is required")
	}
	switch w.Kind {
	case WellbeingTask:
		if w.Task == nil {
			return errs.NewValidationError("task details are required")
		}
		if w.Task.EstimatedMinutes < 0 {
			return errs.NewValidationError("estimatedMinutes cannot be negative")
		}
	case WellbeingHydration:
		if w.Hydration == nil {
			return errs.NewValidationError("hydration details are required")
		}
		if w.Hydration.GlassesTarget < 1 || w.Hydration.GlassesTarget > 10 {
			return errs.NewValidationError("glassesTarget must be between 1 and 10")
		}
		if w.Hydration.GlassesConsumed < 0 || w.Hydration.GlassesConsumed > maxGlasses {
			return errs.NewValidationError("glassesConsumed must be between 0 and 20")
		}
	case WellbeingMedication:
		if w.Medication == nil {
			return errs.NewValidationError("medication details are required")
		}
		if _, err := time.Parse(medicationTimeLayout, w.Medication.ScheduledTime); err != nil {
			return errs.NewValidationError("scheduledTime must be HH:MM")
		}
	default:
		return errs.NewValidationError("kind must be task, hydration or medication")
	}
	return nil
}

// MarkCompleted completes the item and reports whether it is now completed.
// Hydration entries only complete once the glass target is reached.
func (w *WellbeingItem) MarkCompleted(now time.Time) bool {
	switch w.Kind {
	case WellbeingHydration:
		if w.Hydration == nil || w.Hydration.GlassesConsumed < w.Hydration.GlassesTarget {
			return w.Completed
		}
	case WellbeingTask:
		if w.Task != nil && w.Task.ActualMinutes == nil {
			est := w.Task.EstimatedMinutes
			w.Task.ActualMinutes = &est
		}
	case WellbeingMedication:
		if w.Medication != nil {
			taken := now
			w.Medication.TakenAt = &taken
		}
	}
	w.Completed = true
	w.CompletedAt = &now
	return true
}

func (w *WellbeingItem) MarkIncomplete() {
	w.Completed = false
	w.CompletedAt = nil
	if w.Kind == WellbeingMedication && w.Medication != nil {
		w.Medication.TakenAt = nil
	}
}

// IsOverdue: tasks after their due date, medication 30 minutes past the
// scheduled time. Hydration entries are never overdue.
func (w *WellbeingItem) IsOverdue(now time.Time) bool {
	if w.Completed {
		return false
	}
	switch w.Kind {
	case WellbeingTask:
		if w.Task == nil {
			return false
		}
		return dayOf(now).After(dayOf(w.Task.DueDate))
	case WellbeingMedication:
		if w.Medication == nil {
			return false
		}
		at, err := time.Parse(medicationTimeLayout, w.Medication.ScheduledTime)
		if err != nil {
			return false
		}
		d := w.Medication.Date
		scheduled := time.Date(d.Year(), d.Month(), d.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
		return now.After(scheduled.Add(medicationGrace))
	default:
		return false
	}
}

// AddGlass records one more glass of water, capped at 20, completing the
// entry once the target is met.
func (w *WellbeingItem) AddGlass(now time.Time) error {
	if w.Kind != WellbeingHydration || w.Hydration == nil {
		return errs.NewValidationError("only hydration entries track glasses")
	}
	if w.Hydration.GlassesConsumed >= maxGlasses {
		return nil
	}
	w.Hydration.GlassesConsumed++
	if w.Hydration.GlassesConsumed >= w.Hydration.GlassesTarget {
		w.MarkCompleted(now)
	}
	return nil
}

// HydrationPercent is consumed/target as a percentage, capped at 100.
func (w *WellbeingItem) HydrationPercent() float64 {
	if w.Hydration == nil || w.Hydration.GlassesTarget <= 0 {
		return 0
	}
	pct := float64(w.Hydration.GlassesConsumed) * 100 / float64(w.Hydration.GlassesTarget)
	if pct > 100 {
		return 100
	}
	return pct
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
