package models

import (
	"time"
)

// User is the authenticated household owner; all other records live under it.
type User struct {
	UID           string    `firestore:"uid" json:"uid"`
	Email         string    `firestore:"email" json:"email"`
	FirstName     string    `firestore:"firstName" json:"firstName"`
	LastName      string    `firestore:"lastName" json:"lastName"`
	HouseholdName string    `firestore:"householdName,omitempty" json:"householdName,omitempty"`
	Currency      string    `firestore:"currency,omitempty" json:"currency,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}
