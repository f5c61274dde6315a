package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/household-finance/internal/assistant"
	"github.com/GregMSThompson/household-finance/internal/categorize"
	plaidclient "github.com/GregMSThompson/household-finance/internal/client/plaid"
	vertexclient "github.com/GregMSThompson/household-finance/internal/client/vertex"
	"github.com/GregMSThompson/household-finance/internal/config"
	"github.com/GregMSThompson/household-finance/internal/insight"
	"github.com/GregMSThompson/household-finance/internal/store"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

type Bootstrap struct {
	Log           *slog.Logger
	Firestore     *firestore.Client
	Firebase      *auth.Client
	KMS           *gcpkms.KeyManagementClient
	Secrets       *secretmanager.Client
	PlaidAdapter  *plaidclient.Adapter
	VertexAdapter *vertexclient.Adapter // nil when VERTEXMODEL is unset
	Rules         *categorize.Engine
	Intents       *assistant.Engine
	Insights      *insight.Engine
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	if err = bs.openClients(applicationCtx, cfg.ProjectID); err != nil {
		return bs, err
	}

	plaidSecret, err := store.NewSecretStore(bs.Secrets).Resolve(applicationCtx, cfg.PlaidSecret)
	if err != nil {
		return bs, err
	}
	bs.PlaidAdapter = plaidclient.NewAdapter(cfg.PlaidClientID, plaidSecret, cfg.PlaidEnvironment)

	if cfg.VertexModel != "" {
		bs.VertexAdapter, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
		if err != nil {
			return bs, err
		}
	} else {
		bs.Log.Info("vertex model not configured, assistant runs on rules only")
	}

	bs.Rules, err = categorize.LoadEmbedded()
	if err != nil {
		return bs, err
	}
	bs.Intents, err = assistant.LoadEmbedded()
	if err != nil {
		return bs, err
	}
	bs.Insights = insight.NewEngine(insight.WithWeekStart(cfg.WeekStart))

	return bs, nil
}

// Close releases every client that was opened, in reverse order.
func (bs *Bootstrap) Close() {
	if bs.VertexAdapter != nil {
		_ = bs.VertexAdapter.Close()
	}
	if bs.Secrets != nil {
		if err := bs.Secrets.Close(); err != nil {
			bs.Log.Error("secret manager close failed", "error", err)
		}
	}
	if bs.KMS != nil {
		if err := bs.KMS.Close(); err != nil {
			bs.Log.Error("kms close failed", "error", err)
		}
	}
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Error("firestore close failed", "error", err)
		}
	}
}
