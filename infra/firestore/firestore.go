package firestore

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

const databaseName = "(default)"

// compositeIndex is one equality filter followed by an ordered field, the
// shape every filtered list query in the API takes.
type compositeIndex struct {
	collection string
	equal      []string
	orderBy    string
	desc       bool
}

// indexes backs the filtered queries of the API's stores. Plain date-range
// scans run on the automatic single-field indexes.
var indexes = []compositeIndex{
	{collection: "transactions", equal: []string{"memberId"}, orderBy: "date"},
	{collection: "transactions", equal: []string{"memberId"}, orderBy: "date", desc: true},
	{collection: "transactions", equal: []string{"categoryKey"}, orderBy: "date", desc: true},
	{collection: "transactions", equal: []string{"direction"}, orderBy: "date"},
	{collection: "transactions", equal: []string{"memberId", "direction"}, orderBy: "date"},
	{collection: "transactions", equal: []string{"bankId"}, orderBy: "date", desc: true},
	{collection: "budgets", equal: []string{"month"}, orderBy: "categoryKey"},
	{collection: "wellbeing", equal: []string{"kind"}, orderBy: "createdAt", desc: true},
	{collection: "wellbeing", equal: []string{"assignedTo"}, orderBy: "createdAt", desc: true},
}

func SetupFirestore(ctx *pulumi.Context, prov *gcp.Provider) error {
	svc, err := enableFireStore(ctx, prov)
	if err != nil {
		return err
	}

	db, err := createDatabase(ctx, prov, svc)
	if err != nil {
		return err
	}

	for i, idx := range indexes {
		if err := createIndex(ctx, prov, db, i, idx); err != nil {
			return err
		}
	}

	return expireAssistantMessages(ctx, prov, db)
}

func enableFireStore(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "firestore", &projects.ServiceArgs{
		Service: pulumi.String("firestore.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createDatabase(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*firestore.Database, error) {
	gcpCfg := config.New(ctx, "gcp")

	return firestore.NewDatabase(ctx, "householdDatabase", &firestore.DatabaseArgs{
		Project:                       pulumi.String(gcpCfg.Require("project")),
		Name:                          pulumi.String(databaseName),
		LocationId:                    pulumi.String(gcpCfg.Require("region")),
		Type:                          pulumi.String("FIRESTORE_NATIVE"),
		PointInTimeRecoveryEnablement: pulumi.String("POINT_IN_TIME_RECOVERY_ENABLED"),
		DeleteProtectionState:         pulumi.String("DELETE_PROTECTION_ENABLED"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func createIndex(ctx *pulumi.Context, prov *gcp.Provider, db *firestore.Database, n int, idx compositeIndex) error {
	fields := firestore.IndexFieldArray{}
	for _, f := range idx.equal {
		fields = append(fields, &firestore.IndexFieldArgs{
			FieldPath: pulumi.String(f),
			Order:     pulumi.String("ASCENDING"),
		})
	}
	order := "ASCENDING"
	if idx.desc {
		order = "DESCENDING"
	}
	fields = append(fields, &firestore.IndexFieldArgs{
		FieldPath: pulumi.String(idx.orderBy),
		Order:     pulumi.String(order),
	})

	_, err := firestore.NewIndex(ctx, fmt.Sprintf("%sIndex%d", idx.collection, n), &firestore.IndexArgs{
		Database:   db.Name,
		Collection: pulumi.String(idx.collection),
		QueryScope: pulumi.String("COLLECTION"),
		Fields:     fields,
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{db}),
	)
	return err
}

// assistant messages carry expiresAt; Firestore removes them some time
// after it passes.
func expireAssistantMessages(ctx *pulumi.Context, prov *gcp.Provider, db *firestore.Database) error {
	_, err := firestore.NewField(ctx, "assistantMessageTTL", &firestore.FieldArgs{
		Database:   db.Name,
		Collection: pulumi.String("messages"),
		Field:      pulumi.String("expiresAt"),
		TtlConfig:  &firestore.FieldTtlConfigArgs{},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{db}),
	)
	return err
}
