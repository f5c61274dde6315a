package store

import (
	"context"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"github.com/GregMSThompson/household-finance/internal/errs"
)

// Secret references look like
// projects/{project}/secrets/{name}[/versions/{version}]

type secretStore struct {
	client *secretmanager.Client
}

func NewSecretStore(client *secretmanager.Client) *secretStore {
	return &secretStore{client: client}
}

// IsSecretRef reports whether value names a Secret Manager secret rather
// than holding the secret itself.
func IsSecretRef(value string) bool {
	return strings.HasPrefix(value, "projects/") && strings.Contains(value, "/secrets/")
}

// Resolve returns value unchanged unless it is a secret reference, in which
// case the referenced version (latest when omitted) is read.
func (s *secretStore) Resolve(ctx context.Context, value string) (string, error) {
	if !IsSecretRef(value) {
		return value, nil
	}
	name := value
	if !strings.Contains(name, "/versions/") {
		name += "/versions/latest"
	}

	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if isNotFound(err) {
		return "", errs.NewNotFoundError("secret not found: " + value)
	}
	if err != nil {
		return "", errs.NewExternalServiceError("secretmanager", "failed to access secret", false, err)
	}
	return string(res.Payload.Data), nil
}
