package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
)

type bankFakeBankStore struct {
	list      []*models.Bank
	listErr   error
	deleteErr error
	deleted   []string
	members   map[string]string
}

func (f *bankFakeBankStore) SetMember(ctx context.Context, uid, bankID, memberID string) error {
	if f.members == nil {
		f.members = map[string]string{}
	}
	f.members[bankID] = memberID
	return nil
}

func (f *bankFakeBankStore) List(ctx context.Context, uid string) ([]*models.Bank, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *bankFakeBankStore) Delete(ctx context.Context, uid, bankID string) error {
	f.deleted = append(f.deleted, uid+":"+bankID)
	return f.deleteErr
}

type bankFakeTxStore struct {
	deleteByBankErr error
	deleteCursorErr error
	calls           []string
}

func (f *bankFakeTxStore) DeleteByBank(ctx context.Context, uid, bankID string) error {
	f.calls = append(f.calls, "txs:"+uid+":"+bankID)
	return f.deleteByBankErr
}

func (f *bankFakeTxStore) DeleteCursor(ctx context.Context, uid, bankID string) error {
	f.calls = append(f.calls, "cursor:"+uid+":"+bankID)
	return f.deleteCursorErr
}

func TestBankServiceListBanks(t *testing.T) {
	expected := []*models.Bank{{BankID: "b1"}, {BankID: "b2"}}
	svc := NewBankService(&bankFakeBankStore{list: expected}, &bankFakeTxStore{}, newMemMemberStore())

	got, err := svc.ListBanks(helpers.TestCtx(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestBankServiceDeleteBankSuccess(t *testing.T) {
	banks := &bankFakeBankStore{}
	txs := &bankFakeTxStore{}
	svc := NewBankService(banks, txs, newMemMemberStore())

	require.NoError(t, svc.DeleteBank(helpers.TestCtx(), "uid-1", "bank-1"))
	assert.Equal(t, []string{"txs:uid-1:bank-1", "cursor:uid-1:bank-1"}, txs.calls)
	assert.Equal(t, []string{"uid-1:bank-1"}, banks.deleted)
}

func TestBankServiceDeleteBankStopsOnDeleteByBankError(t *testing.T) {
	expectedErr := errors.New("delete txs failed")
	banks := &bankFakeBankStore{}
	txs := &bankFakeTxStore{deleteByBankErr: expectedErr}
	svc := NewBankService(banks, txs, newMemMemberStore())

	err := svc.DeleteBank(helpers.TestCtx(), "uid-1", "bank-1")
	require.ErrorIs(t, err, expectedErr)
	assert.Equal(t, []string{"txs:uid-1:bank-1"}, txs.calls)
	assert.Empty(t, banks.deleted)
}

func TestBankServiceDeleteBankStopsOnDeleteCursorError(t *testing.T) {
	expectedErr := errors.New("delete cursor failed")
	banks := &bankFakeBankStore{}
	txs := &bankFakeTxStore{deleteCursorErr: expectedErr}
	svc := NewBankService(banks, txs, newMemMemberStore())

	err := svc.DeleteBank(helpers.TestCtx(), "uid-1", "bank-1")
	require.ErrorIs(t, err, expectedErr)
	assert.Equal(t, []string{"txs:uid-1:bank-1", "cursor:uid-1:bank-1"}, txs.calls)
	assert.Empty(t, banks.deleted)
}

func TestBankServiceDeleteBankReturnsBankDeleteError(t *testing.T) {
	expectedErr := errors.New("delete bank failed")
	banks := &bankFakeBankStore{deleteErr: expectedErr}
	txs := &bankFakeTxStore{}
	svc := NewBankService(banks, txs, newMemMemberStore())

	err := svc.DeleteBank(helpers.TestCtx(), "uid-1", "bank-1")
	require.ErrorIs(t, err, expectedErr)
	assert.Len(t, txs.calls, 2, "transactions and cursor should be removed first")
}

func TestBankServiceListBanksError(t *testing.T) {
	svc := NewBankService(&bankFakeBankStore{listErr: errors.New("boom")}, &bankFakeTxStore{}, newMemMemberStore())
	_, err := svc.ListBanks(helpers.TestCtx(), "uid-1")
	assert.Error(t, err)
}

func TestBankServiceAssignMember(t *testing.T) {
	members := newMemMemberStore()
	ctx := helpers.TestCtx()
	alice, err := NewMemberService(members).Create(ctx, "uid-1", "Alice")
	require.NoError(t, err)

	banks := &bankFakeBankStore{}
	svc := NewBankService(banks, &bankFakeTxStore{}, members)

	require.NoError(t, svc.AssignMember(ctx, "uid-1", "bank-1", alice.ID))
	assert.Equal(t, alice.ID, banks.members["bank-1"])

	require.NoError(t, svc.AssignMember(ctx, "uid-1", "bank-1", ""))
	assert.Empty(t, banks.members["bank-1"], "expected member to be cleared")
}

func TestBankServiceAssignUnknownMember(t *testing.T) {
	banks := &bankFakeBankStore{}
	svc := NewBankService(banks, &bankFakeTxStore{}, newMemMemberStore())

	err := svc.AssignMember(helpers.TestCtx(), "uid-1", "bank-1", "nobody")
	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.NotContains(t, banks.members, "bank-1", "bank should not be updated for an unknown member")
}
