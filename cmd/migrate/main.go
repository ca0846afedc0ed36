package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/pricing-engine/internal/pkg/config"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
)

var migrateDir = flag.String("migrations", "migrations", "Directory containing migration SQL files")

// databasePath is the parsed form of projects/P/instances/I/databases/D.
type databasePath struct {
	project  string
	instance string
	database string
}

func (p databasePath) instanceName() string {
	return fmt.Sprintf("projects/%s/instances/%s", p.project, p.instance)
}

func (p databasePath) String() string {
	return fmt.Sprintf("%s/databases/%s", p.instanceName(), p.database)
}

func parseDatabasePath(raw string) (databasePath, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" {
		return databasePath{}, fmt.Errorf("malformed database path %q", raw)
	}
	for _, p := range []string{parts[1], parts[3], parts[5]} {
		if p == "" {
			return databasePath{}, fmt.Errorf("malformed database path %q", raw)
		}
	}
	return databasePath{project: parts[1], instance: parts[3], database: parts[5]}, nil
}

func main() {
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "pricing-migrate", Format: "console"})
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	path, err := parseDatabasePath(cfg.Spanner.Database)
	if err != nil {
		logg.Error(ctx, "invalid spanner database", err)
		os.Exit(1)
	}

	emulator := os.Getenv("SPANNER_EMULATOR_HOST")
	ctx = logg.WithFields(ctx, map[string]any{
		"database": path.String(),
		"emulator": emulator,
	})

	if err := run(ctx, logg, path, emulator != ""); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrations completed")
}

func run(ctx context.Context, logg *logger.Logger, path databasePath, emulator bool) error {
	// Instances can only be created on the emulator; real deployments own them.
	if emulator {
		if err := ensureInstance(ctx, logg, path); err != nil {
			return fmt.Errorf("failed to ensure instance: %w", err)
		}
	}

	if err := ensureDatabase(ctx, logg, path, emulator); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}

	if err := applyMigrations(ctx, logg, path); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func ensureInstance(ctx context.Context, logg *logger.Logger, path databasePath) error {
	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: path.instanceName()})
	if err == nil {
		logg.Info(ctx, "instance exists")
		return nil
	}
	if status.Code(err) != codes.NotFound {
		logg.Warn(ctx, "unexpected error checking instance: "+err.Error())
		return nil
	}

	logg.Info(ctx, "creating instance")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + path.project,
		InstanceId: path.instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", path.project),
			DisplayName: "Pricing Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		logg.Warn(ctx, "instance creation wait: "+err.Error())
	}
	return nil
}

func ensureDatabase(ctx context.Context, logg *logger.Logger, path databasePath, emulator bool) error {
	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: path.String()})
	if err == nil {
		logg.Info(ctx, "database exists")
		return nil
	}

	if status.Code(err) == codes.NotFound {
		logg.Info(ctx, "creating database")
		op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
			Parent:          path.instanceName(),
			CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", path.database),
		})
		if err != nil {
			if status.Code(err) == codes.AlreadyExists {
				return nil
			}
			return fmt.Errorf("failed to create database: %w", err)
		}
		if _, err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to wait for database creation: %w", err)
		}
		return nil
	}

	// The emulator sometimes answers GetDatabase with odd codes for fresh instances.
	if emulator {
		logg.Warn(ctx, "proceeding despite database check error: "+err.Error())
		return nil
	}
	return fmt.Errorf("failed to check database: %w", err)
}

func applyMigrations(ctx context.Context, logg *logger.Logger, path databasePath) error {
	files, err := filepath.Glob(filepath.Join(*migrateDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		logg.Warn(ctx, "no migration files found in "+*migrateDir)
		return nil
	}
	sort.Strings(files)

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	for _, file := range files {
		name := filepath.Base(file)
		fileCtx := logg.WithField(ctx, "migration", name)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		statements := splitDDLStatements(string(content))
		if len(statements) == 0 {
			continue
		}

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   path.String(),
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
		logg.Info(fileCtx, "migration applied")
	}
	return nil
}

// splitDDLStatements drops comment and blank lines and splits on semicolons.
func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}
