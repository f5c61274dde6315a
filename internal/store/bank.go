package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type tokenCipher interface {
	KmsEncrypt(ctx context.Context, plaintext string) (string, error)
	KmsDecrypt(ctx context.Context, ciphertext string) (string, error)
}

type bankStore struct {
	client *firestore.Client
	cipher tokenCipher
}

func NewBankStore(client *firestore.Client, cipher tokenCipher) *bankStore {
	return &bankStore{client: client, cipher: cipher}
}

func (s *bankStore) collection(uid string) *firestore.CollectionRef {
	return userDoc(s.client, uid).Collection("banks")
}

// Create encrypts the access token before the bank is written; the
// plaintext never reaches Firestore.
func (s *bankStore) Create(ctx context.Context, uid string, bank *models.Bank) error {
	now := time.Now()
	if bank.CreatedAt.IsZero() {
		bank.CreatedAt = now
	}
	bank.UpdatedAt = now

	if bank.AccessToken != "" {
		cipher, err := s.cipher.KmsEncrypt(ctx, bank.AccessToken)
		if err != nil {
			return errs.NewEncryptionError("failed to encrypt access token", err)
		}
		bank.TokenCipher = cipher
	}

	if _, err := s.collection(uid).Doc(bank.BankID).Set(ctx, bank); err != nil {
		return errs.NewDatabaseError("create", "failed to save bank", err)
	}
	return nil
}

func (s *bankStore) List(ctx context.Context, uid string) ([]*models.Bank, error) {
	iter := s.collection(uid).Documents(ctx)
	defer iter.Stop()

	banks := []*models.Bank{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list banks", err)
		}
		b, err := s.decode(ctx, doc)
		if err != nil {
			return nil, err
		}
		banks = append(banks, b)
	}
	return banks, nil
}

func (s *bankStore) Get(ctx context.Context, uid, bankID string) (*models.Bank, error) {
	doc, err := s.collection(uid).Doc(bankID).Get(ctx)
	if err != nil {
		return nil, readError(err, "bank")
	}
	return s.decode(ctx, doc)
}

// SetMember attributes the bank's future imports to memberID; an empty
// memberID clears the attribution.
func (s *bankStore) SetMember(ctx context.Context, uid, bankID, memberID string) error {
	_, err := s.collection(uid).Doc(bankID).Update(ctx, []firestore.Update{
		{Path: "memberId", Value: memberID},
		{Path: "updatedAt", Value: time.Now()},
	})
	if isNotFound(err) {
		return errs.NewNotFoundError("bank not found")
	}
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update bank member", err)
	}
	return nil
}

func (s *bankStore) Delete(ctx context.Context, uid, bankID string) error {
	_, err := s.collection(uid).Doc(bankID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete bank", err)
	}
	return nil
}

func (s *bankStore) decode(ctx context.Context, doc *firestore.DocumentSnapshot) (*models.Bank, error) {
	var b models.Bank
	if err := doc.DataTo(&b); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse bank data", err)
	}
	if b.TokenCipher != "" {
		token, err := s.cipher.KmsDecrypt(ctx, b.TokenCipher)
		if err != nil {
			return nil, errs.NewEncryptionError("failed to decrypt access token", err)
		}
		b.AccessToken = token
	}
	return &b, nil
}
