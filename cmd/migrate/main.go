package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/emlak/backend/internal/infrastructure/config"
	"github.com/emlak/backend/internal/infrastructure/logger"
	"github.com/emlak/backend/internal/infrastructure/migration"
	"github.com/emlak/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
		tenant         string
		adminUser      string
	)

	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&tenant, "tenant", "", "Tenant to seed (default: app.default_tenant_id)")
	flag.StringVar(&adminUser, "admin", "admin", "Username of the seeded administrator")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	source := "embedded"
	if migrationsPath != "" {
		source = migrationsPath
	}
	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("source", source),
	)

	// Commands that don't need a database
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		dir := migrationsPath
		if dir == "" {
			dir = migration.SourceDir
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(dir, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created successfully",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return

	case "list":
		fsys, err := migrationFS(migrationsPath)
		if err != nil {
			log.Fatal("Failed to open migrations", zap.Error(err))
		}
		migrations, err := migration.ListMigrations(fsys)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(migrations) == 0 {
			log.Info("No migrations found")
			return
		}
		log.Info("Available migrations", zap.Int("count", len(migrations)))
		for _, m := range migrations {
			fmt.Println("  -", m)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if command == "seed" {
		runSeed(cfg, tenant, adminUser, log)
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "goto":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.GoTo(uint(version)); err != nil {
			log.Fatal("Migration goto failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		log.Warn("Forcing migration version - use with caution!")
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	case "drop":
		confirm := false
		for _, arg := range args[1:] {
			if arg == "-confirm" || arg == "--confirm" {
				confirm = true
				break
			}
		}
		if !confirm {
			log.Fatal("Drop cancelled. Use 'migrate drop -confirm' to confirm.")
		}
		if err := m.Drop(); err != nil {
			log.Fatal("Drop failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func migrationFS(dir string) (fs.FS, error) {
	if dir == "" {
		return migration.Source()
	}
	return os.DirFS(dir), nil
}

// runSeed creates the administrator and the housing attribute definitions
// of a tenant. The password comes from EMLAK_SEED_ADMIN_PASSWORD.
func runSeed(cfg *config.Config, tenant, adminUser string, log *zap.Logger) {
	tenantID := cfg.App.DefaultTenant()
	if tenant != "" {
		id, err := uuid.Parse(tenant)
		if err != nil {
			log.Fatal("Invalid tenant ID", zap.String("value", tenant))
		}
		tenantID = id
	}

	password := os.Getenv("EMLAK_SEED_ADMIN_PASSWORD")
	if adminUser != "" && password == "" {
		log.Fatal("EMLAK_SEED_ADMIN_PASSWORD is required to seed the administrator")
	}

	db, err := persistence.NewDatabase(&cfg.Database, logger.NewGormLogger(log, logger.MapGormLogLevel("warn")))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	seeder := migration.NewSeeder(
		persistence.NewGormUserRepository(db.DB),
		persistence.NewGormAttributeDefinitionRepository(db.DB),
		log,
	)
	if err := seeder.Run(ctx, migration.SeedConfig{
		TenantID:      tenantID,
		AdminUsername: adminUser,
		AdminPassword: password,
	}); err != nil {
		log.Fatal("Seed failed", zap.Error(err))
	}
	log.Info("Seed completed", zap.String("tenant_id", tenantID.String()))
}

func printUsage() {
	fmt.Println(`Emlak Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations
  seed                  Create the administrator and default attribute definitions

Flags:
  -path string          Read migrations from a directory instead of the embedded set
  -log-level string     Log level: debug, info, warn, error (default: info)
  -tenant string        Tenant to seed (default: app.default_tenant_id)
  -admin string         Administrator username to seed; empty skips it (default: admin)

Environment Variables:
  EMLAK_DATABASE_HOST, EMLAK_DATABASE_PORT, EMLAK_DATABASE_USER,
  EMLAK_DATABASE_PASSWORD, EMLAK_DATABASE_DBNAME, EMLAK_DATABASE_SSLMODE
  EMLAK_SEED_ADMIN_PASSWORD   password of the seeded administrator

Examples:
  # Apply all pending migrations
  migrate up

  # Roll back the last migration
  migrate step -1

  # Create a new migration
  migrate create add_listing_views "Track listing view counts"

  # Seed a tenant
  EMLAK_SEED_ADMIN_PASSWORD=... migrate -tenant 00000000-0000-0000-0000-000000000001 seed`)
}
