package cloudrun

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/household-finance/infra/common"
	"github.com/GregMSThompson/household-finance/infra/secret"
)

type secretRefs struct {
	plaidClientIDName pulumi.StringOutput
	plaidSecretName   pulumi.StringOutput
}

func SetupCloudRun(ctx *pulumi.Context, prov *gcp.Provider, keyName pulumi.StringOutput, res ...pulumi.Resource) (*serviceaccount.Account, error) {
	img, err := buildApiImage(ctx, res...)
	if err != nil {
		return nil, err
	}

	srv, err := enableCloudRun(ctx, prov)
	if err != nil {
		return nil, err
	}

	apiSA, err := createServiceAccount(ctx, prov)
	if err != nil {
		return nil, err
	}

	secrets, err := secret.SetupSecretManager(ctx, prov, apiSA)
	if err != nil {
		return nil, err
	}

	sr, err := createSecrets(ctx, secrets)
	if err != nil {
		return nil, err
	}

	svc, err := createCloudRunService(ctx, img, apiSA, sr, keyName, prov, srv, secrets.Service())
	if err != nil {
		return nil, err
	}

	err = setIAMAccessPolicy(ctx, svc, prov)
	if err != nil {
		return nil, err
	}

	return apiSA, nil
}

func buildApiImage(ctx *pulumi.Context, res ...pulumi.Resource) (*docker.Image, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	hash, err := common.SourceHash("..")
	if err != nil {
		return nil, err
	}

	return docker.NewImage(ctx, "apiImage", &docker.ImageArgs{
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/amd64"),
			Context:    pulumi.String(".."),                    // build from repo root
			Dockerfile: pulumi.String("../cmd/api/Dockerfile"), // Dockerfile path relative to repo root
		},
		ImageName: pulumi.String(fmt.Sprintf("%s-docker.pkg.dev/%s/household/api:%s", region, projectID, hash)),
	},
		pulumi.DependsOn(res),
	)
}

func enableCloudRun(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "cloudRunService", &projects.ServiceArgs{
		Service: pulumi.String("run.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createServiceAccount(ctx *pulumi.Context, prov *gcp.Provider) (*serviceaccount.Account, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	apiSA, err := serviceaccount.NewAccount(ctx, "householdApiAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("household-api"),
		DisplayName: pulumi.String("Household finance API"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	roles := map[string]string{
		"firestoreAccess": "roles/datastore.user",                       // Firestore read/write
		"kmsAccess":       "roles/cloudkms.cryptoKeyEncrypterDecrypter", // bank token sealing
		"vertexAccess":    "roles/aiplatform.user",                      // assistant model calls
	}
	for name, role := range roles {
		_, err = projects.NewIAMMember(ctx, name, &projects.IAMMemberArgs{
			Role: pulumi.String(role),
			Member: apiSA.Email.ApplyT(func(email string) string {
				return fmt.Sprintf("serviceAccount:%s", email)
			}).(pulumi.StringOutput),
			Project: pulumi.String(projectID),
		},
			pulumi.Provider(prov),
		)
		if err != nil {
			return nil, err
		}
	}

	return apiSA, nil
}

// plainEnv and secretEnv name the API's environment, see internal/config.
type plainEnv struct {
	name  string
	value pulumi.StringInput
}

type secretEnv struct {
	name   string
	secret pulumi.StringOutput
}

func containerEnvs(plain []plainEnv, secrets []secretEnv) cloudrun.ServiceTemplateSpecContainerEnvArray {
	envs := make(cloudrun.ServiceTemplateSpecContainerEnvArray, 0, len(plain)+len(secrets))
	for _, e := range plain {
		envs = append(envs, &cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name:  pulumi.String(e.name),
			Value: e.value,
		})
	}
	for _, e := range secrets {
		envs = append(envs, &cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name: pulumi.String(e.name),
			ValueFrom: &cloudrun.ServiceTemplateSpecContainerEnvValueFromArgs{
				SecretKeyRef: &cloudrun.ServiceTemplateSpecContainerEnvValueFromSecretKeyRefArgs{
					Name: e.secret,
					Key:  pulumi.String("latest"),
				},
			},
		})
	}
	return envs
}

// revisionAnnotations sizes and scales each revision from the cloudrun
// config namespace.
func revisionAnnotations(crCfg *config.Config) pulumi.StringMap {
	annotations := pulumi.StringMap{
		"run.googleapis.com/launch-stage":      pulumi.String("BETA"),
		"run.googleapis.com/identity-provider": pulumi.String("firebase"),
		"run.googleapis.com/cpu-throttling":    pulumi.String("true"),
	}
	for key, setting := range map[string]string{
		"autoscaling.knative.dev/minScale":         "minScale",
		"autoscaling.knative.dev/maxScale":         "maxScale",
		"run.googleapis.com/cpu":                   "cpu",
		"run.googleapis.com/memory":                "memory",
		"run.googleapis.com/container-concurrency": "concurrency",
	} {
		annotations[key] = pulumi.String(crCfg.Require(setting))
	}
	return annotations
}

func createCloudRunService(ctx *pulumi.Context,
	img *docker.Image,
	apiSA *serviceaccount.Account,
	sr *secretRefs,
	keyName pulumi.StringOutput,
	prov *gcp.Provider,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")
	plaidCfg := config.New(ctx, "plaid")
	appCfg := config.New(ctx, "household")

	region := gcpCfg.Require("region")
	timeout, err := strconv.Atoi(crCfg.Require("timeout"))
	if err != nil {
		return nil, fmt.Errorf("cloudrun:timeout: %w", err)
	}

	envs := containerEnvs([]plainEnv{
		{"PROJECTID", pulumi.String(gcpCfg.Require("project"))},
		{"REGION", pulumi.String(region)},
		{"LOGLEVEL", pulumi.String(crCfg.Require("logLevel"))},
		{"KMSKEYNAME", keyName},
		{"PLAIDENVIRONMENT", pulumi.String(plaidCfg.Require("environment"))},
		{"VERTEXMODEL", pulumi.String(appCfg.Get("vertexModel"))},
		{"WEEKSTART", pulumi.String(appCfg.Get("weekStart"))},
		{"CURRENCY", pulumi.String(appCfg.Get("currency"))},
	}, []secretEnv{
		{"PLAIDCLIENTID", sr.plaidClientIDName},
		{"PLAIDSECRET", sr.plaidSecretName},
	})

	return cloudrun.NewService(ctx, "householdApiService", &cloudrun.ServiceArgs{
		Location: pulumi.String(region),
		Template: &cloudrun.ServiceTemplateArgs{
			Metadata: &cloudrun.ServiceTemplateMetadataArgs{
				Annotations: revisionAnnotations(crCfg),
			},
			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ServiceAccountName: apiSA.Email,
				TimeoutSeconds:     pulumi.Int(timeout),
				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: img.ImageName,
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(8080),
							},
						},
						Envs: envs,
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func setIAMAccessPolicy(ctx *pulumi.Context, svc *cloudrun.Service, prov *gcp.Provider) error {
	gcpCfg := config.New(ctx, "gcp")
	region := gcpCfg.Require("region")

	// the API authenticates every route except /healthz itself
	_, err := cloudrun.NewIamMember(ctx, "publicInvoker", &cloudrun.IamMemberArgs{
		Service:  svc.Name,
		Location: pulumi.String(region),
		Role:     pulumi.String("roles/run.invoker"),
		Member:   pulumi.String("allUsers"),
	},
		pulumi.Provider(prov),
	)
	return err
}

func createSecrets(ctx *pulumi.Context, secrets *secret.Manager) (*secretRefs, error) {
	var err error
	sr := new(secretRefs)

	plaidCfg := config.New(ctx, "plaid")
	plaidClientID := plaidCfg.RequireSecret("clientId")
	plaidSecret := plaidCfg.RequireSecret("secret")

	sr.plaidClientIDName, err = secrets.AddSecret(ctx, "plaidClientIdSecret", "plaidClientId", plaidClientID)
	if err != nil {
		return nil, err
	}

	sr.plaidSecretName, err = secrets.AddSecret(ctx, "plaidSecretSecret", "plaidSecret", plaidSecret)
	if err != nil {
		return nil, err
	}

	return sr, nil
}
