package models

import "time"

type Achievement struct {
	Code      string    `firestore:"code" json:"code"`
	Title     string    `firestore:"title" json:"title"`
	Points    int       `firestore:"points" json:"points"`
	AwardedAt time.Time `firestore:"awardedAt" json:"awardedAt"`
}

type GamificationState struct {
	Points           int        `firestore:"points" json:"points"`
	Streak           int        `firestore:"streak" json:"streak"`
	LastActivityDate *time.Time `firestore:"lastActivityDate,omitempty" json:"lastActivityDate,omitempty"`
	UpdatedAt        time.Time  `firestore:"updatedAt" json:"updatedAt"`
}
