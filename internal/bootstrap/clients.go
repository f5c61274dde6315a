package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// openClients connects to the Google services the household API runs on.
// Clients opened before a failure stay on bs so Close can release them.
func (bs *Bootstrap) openClients(ctx context.Context, projectID string) error {
	var err error

	bs.Firestore, err = firestore.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("firestore client: %w", err)
	}

	bs.Firebase, err = initFirebaseAuth(ctx, projectID)
	if err != nil {
		return fmt.Errorf("firebase auth client: %w", err)
	}

	bs.KMS, err = gcpkms.NewKeyManagementClient(ctx)
	if err != nil {
		return fmt.Errorf("kms client: %w", err)
	}

	bs.Secrets, err = secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("secret manager client: %w", err)
	}
	return nil
}

// the ID tokens verified by the auth middleware are issued for projectID
func initFirebaseAuth(ctx context.Context, projectID string) (*auth.Client, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return app.Auth(ctx)
}
