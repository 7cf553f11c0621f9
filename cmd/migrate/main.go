package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/clothstore/backend/internal/infrastructure/config"
	"github.com/clothstore/backend/internal/infrastructure/logger"
	"github.com/clothstore/backend/internal/infrastructure/migration"
	"github.com/clothstore/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// dbCommand runs against an open migrator. args excludes the command name.
type dbCommand func(m *migration.Migrator, log *zap.Logger, args []string) error

var dbCommands = map[string]dbCommand{
	"up": func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Up()
	},
	"down": func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Down()
	},
	"step": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"goto": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args, "goto <version>")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative, got %d", v)
		}
		return m.GoTo(uint(v))
	},
	"version": func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	},
	"force": func(m *migration.Migrator, log *zap.Logger, args []string) error {
		v, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		log.Warn("Forcing migration version", zap.Int("version", v))
		return m.Force(v)
	},
}

func intArg(args []string, usage string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing argument, usage: migrate %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q, usage: migrate %s", args[0], usage)
	}
	return n, nil
}

func main() {
	dir := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command, rest := args[0], args[1:]

	log, err := logger.New(&logger.Config{Level: *logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	var source fs.FS = migrations.FS
	if *dir != "" {
		source = os.DirFS(*dir)
	}

	switch command {
	case "create":
		createMigration(log, *dir, rest)
		return
	case "list":
		listMigrations(log, source)
		return
	}

	run, ok := dbCommands[command]
	if !ok {
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}

	m, db := openMigrator(log, *dir)
	defer db.Close()
	defer m.Close()

	if err := run(m, log, rest); err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

// createMigration writes a new up/down pair. Embedded sets are read-only, so -path is required.
func createMigration(log *zap.Logger, dir string, args []string) {
	if dir == "" {
		log.Fatal("create writes files and needs -path")
	}
	if len(args) == 0 {
		log.Fatal("Migration name required. Usage: migrate -path <dir> create <name> [description]")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		log.Fatal("Failed to create migration", zap.Error(err))
	}
	log.Info("Migration created",
		zap.Uint("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
}

func listMigrations(log *zap.Logger, source fs.FS) {
	list, err := migration.ListMigrations(source)
	if err != nil {
		log.Fatal("Failed to list migrations", zap.Error(err))
	}
	log.Info("Available migrations", zap.Int("count", len(list)))
	for _, m := range list {
		fmt.Println("  -", m)
	}
}

// openMigrator connects with the configured credentials. An empty dir selects the embedded set.
func openMigrator(log *zap.Logger, dir string) (*migration.Migrator, *sql.DB) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != "postgres" {
		log.Fatal("Versioned migrations target postgres; sqlite uses auto-migration",
			zap.String("driver", cfg.Database.Driver))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if dir != "" {
		m, err = migration.NewFromDir(db, dir, log)
	} else {
		m, err = migration.New(db, migrations.FS, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	return m, db
}

func printUsage() {
	fmt.Println(`Cloth Store schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative n rolls back)
  goto <version>        Migrate to a specific version
  version               Show the applied version
  force <version>       Set the version without running migrations
  create <name> [desc]  Write a new up/down pair (requires -path)
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: the set embedded in the binary)
  -log-level string     debug, info, warn or error (default: info)

The database is configured through config.toml or CLOTH_DATABASE_HOST,
CLOTH_DATABASE_PORT, CLOTH_DATABASE_USER, CLOTH_DATABASE_PASSWORD,
CLOTH_DATABASE_DBNAME and CLOTH_DATABASE_SSLMODE.`)
}
