// Command migrate creates the Spanner instance, database and sales_journal
// table used by the optional sales journal. It is emulator-friendly: point
// SPANNER_EMULATOR_HOST at a running emulator and run it once.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	projectID  = flag.String("project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	instanceID = flag.String("instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	databaseID = flag.String("database", getEnvOrDefault("SPANNER_DATABASE_ID", "vending-db"), "Spanner database ID")
)

var salesJournalDDL = []string{
	`CREATE TABLE sales_journal (
		entry_id STRING(36) NOT NULL,
		kind STRING(32) NOT NULL,
		product_name STRING(MAX),
		amount INT64 NOT NULL,
		forfeited INT64 NOT NULL,
		change JSON,
		occurred_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL OPTIONS (allow_commit_timestamp=true)
	) PRIMARY KEY (entry_id)`,
}

func main() {
	flag.Parse()

	ctx := context.Background()

	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		log.Printf("Using Spanner emulator at %s", host)
	}

	if err := run(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed successfully")
}

func run(ctx context.Context) error {
	if err := ensureInstance(ctx); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}
	if err := ensureDatabase(ctx); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	return nil
}

func ensureInstance(ctx context.Context) error {
	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	instanceName := fmt.Sprintf("projects/%s/instances/%s", *projectID, *instanceID)

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: instanceName})
	if err == nil {
		log.Printf("Instance %s already exists", *instanceID)
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check instance: %w", err)
	}

	log.Printf("Creating instance %s...", *instanceID)
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", *projectID),
		InstanceId: *instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", *projectID),
			DisplayName: "Vending service",
			NodeCount:   1,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}
	_, err = op.Wait(ctx)
	return err
}

func ensureDatabase(ctx context.Context) error {
	databaseAdmin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create database admin client: %w", err)
	}
	defer databaseAdmin.Close()

	databaseName := fmt.Sprintf("projects/%s/instances/%s/databases/%s", *projectID, *instanceID, *databaseID)

	_, err = databaseAdmin.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: databaseName})
	if err == nil {
		log.Printf("Database %s already exists, applying DDL", *databaseID)
		op, err := databaseAdmin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   databaseName,
			Statements: salesJournalDDL,
		})
		if err != nil {
			if status.Code(err) == codes.FailedPrecondition || status.Code(err) == codes.AlreadyExists {
				log.Println("Schema already up to date")
				return nil
			}
			return fmt.Errorf("failed to update DDL: %w", err)
		}
		return op.Wait(ctx)
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check database: %w", err)
	}

	log.Printf("Creating database %s...", *databaseID)
	op, err := databaseAdmin.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          fmt.Sprintf("projects/%s/instances/%s", *projectID, *instanceID),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", *databaseID),
		ExtraStatements: salesJournalDDL,
	})
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	_, err = op.Wait(ctx)
	return err
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
