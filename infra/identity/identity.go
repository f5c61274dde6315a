package identity

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/identityplatform"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// SetupIdentity enables Identity Platform (Firebase Auth) for household
// sign-in. Every household member signs in with email; the optional
// household:authorizedDomains config lists the web front ends allowed to
// start a sign-in.
func SetupIdentity(ctx *pulumi.Context, prov *gcp.Provider) (*identityplatform.Config, error) {
	appCfg := config.New(ctx, "household")

	args := &identityplatform.ConfigArgs{
		SignIn: &identityplatform.ConfigSignInArgs{
			AllowDuplicateEmails: pulumi.Bool(false),
			Email: &identityplatform.ConfigSignInEmailArgs{
				Enabled:          pulumi.Bool(true),
				PasswordRequired: pulumi.Bool(true),
			},
		},
	}

	// leaving the list unset keeps the project's default domains
	var domains []string
	if err := appCfg.TryObject("authorizedDomains", &domains); err == nil && len(domains) > 0 {
		args.AuthorizedDomains = pulumi.ToStringArray(domains)
	}

	return identityplatform.NewConfig(ctx, "householdIdentityConfig", args, pulumi.Provider(prov))
}
