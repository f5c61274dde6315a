package dto

import "github.com/GregMSThompson/household-finance/internal/models"

type CreateWellbeingRequest struct {
	Kind        models.WellbeingKind `json:"kind"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	AssignedTo  string               `json:"assignedTo"`

	Task       *models.TaskDetails       `json:"task,omitempty"`
	Hydration  *models.HydrationDetails  `json:"hydration,omitempty"`
	Medication *models.MedicationDetails `json:"medication,omitempty"`
}

type WellbeingQuery struct {
	Kind       *models.WellbeingKind
	AssignedTo *string
	OverdueNow bool
}
