package store

import (
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/household-finance/internal/errs"
)

// Every household collection lives under users/{uid}.
func userDoc(client *firestore.Client, uid string) *firestore.DocumentRef {
	return client.Collection("users").Doc(uid)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// readError maps a document read failure to NotFoundError or DatabaseError.
func readError(err error, what string) error {
	if isNotFound(err) {
		return errs.NewNotFoundError(what + " not found")
	}
	return errs.NewDatabaseError("read", "failed to read "+what, err)
}

// txError wraps a RunTransaction failure unless the callback already
// returned one of the typed errors.
func txError(err error, op, message string) error {
	if err == nil {
		return nil
	}
	var dbErr *errs.DatabaseError
	var nf *errs.NotFoundError
	var ve *errs.ValidationError
	if errors.As(err, &dbErr) || errors.As(err, &nf) || errors.As(err, &ve) {
		return err
	}
	return errs.NewDatabaseError(op, message, err)
}
