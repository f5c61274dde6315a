package models

import "time"

// FamilyMember is a household participant that transactions and wellbeing
// items can be attributed to.
type FamilyMember struct {
	ID        string    `firestore:"id" json:"id"`
	Name      string    `firestore:"name" json:"name"`
	NameKey   string    `firestore:"nameKey" json:"-"` // case-folded name for lookups
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
