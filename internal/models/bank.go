package models

import (
	"time"
)

const BankStatusActive = "active"

// Bank is a Plaid item linked by the household. Everything synced from it is
// attributed to MemberID, when set.
type Bank struct {
	BankID      string    `firestore:"bankId" json:"bankId"`
	Institution string    `firestore:"institution" json:"institution"`
	Status      string    `firestore:"status" json:"status"`
	AccessToken string    `firestore:"-" json:"-"`           // plaintext, only in memory
	TokenCipher string    `firestore:"tokenCipher" json:"-"` // KMS ciphertext, base64
	MemberID    string    `firestore:"memberId,omitempty" json:"memberId,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}
