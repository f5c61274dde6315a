package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/household-finance/infra/cloudrun"
	"github.com/GregMSThompson/household-finance/infra/docker"
	"github.com/GregMSThompson/household-finance/infra/firestore"
	"github.com/GregMSThompson/household-finance/infra/identity"
	"github.com/GregMSThompson/household-finance/infra/kms"
	"github.com/GregMSThompson/household-finance/infra/provider"
	"github.com/GregMSThompson/household-finance/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// key used to seal linked bank access tokens
		kmsSrv, err := kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		keyName, err := kms.CreateKey(ctx, prov, "household", "bank-tokens")
		if err != nil {
			return err
		}

		// the assistant falls back to rules only when no model is configured
		vertexSrv, err := vertex.SetupVertex(ctx, prov)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateHouseholdRepo(ctx, prov)
		if err != nil {
			return err
		}

		deps := []pulumi.Resource{ident, repo, kmsSrv}
		if vertexSrv != nil {
			deps = append(deps, vertexSrv)
		}
		_, err = cloudrun.SetupCloudRun(ctx, prov, keyName, deps...)
		if err != nil {
			return err
		}

		return nil
	})
}
