// Package migrations applies the embedded schema for the configured driver.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY
)`

// Run applies every pending *.up.sql file for conn's driver in lexical order.
// Applied versions are recorded in schema_migrations.
func Run(ctx context.Context, conn database.Connection) error {
	dir := string(conn.Driver())
	names, err := upFiles(dir)
	if err != nil {
		return err
	}

	if _, err := conn.Exec(ctx, createVersionTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, name := range names {
		version := strings.TrimSuffix(name, ".up.sql")

		applied, err := isApplied(ctx, conn, version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		body, err := files.ReadFile(dir + "/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := conn.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := conn.Exec(ctx, insertVersion(conn.Driver()), version); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

// Pending lists migrations not yet applied.
func Pending(ctx context.Context, conn database.Connection) ([]string, error) {
	dir := string(conn.Driver())
	names, err := upFiles(dir)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var pending []string
	for _, name := range names {
		version := strings.TrimSuffix(name, ".up.sql")
		applied, err := isApplied(ctx, conn, version)
		if err != nil {
			return nil, err
		}
		if !applied {
			pending = append(pending, version)
		}
	}
	return pending, nil
}

func upFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func isApplied(ctx context.Context, conn database.Connection, version string) (bool, error) {
	query := `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`
	if conn.Driver() == database.DriverPostgres {
		query = `SELECT COUNT(*) FROM schema_migrations WHERE version = $1`
	}

	var n int
	if err := conn.QueryRow(ctx, query, version).Scan(&n); err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return n > 0, nil
}

func insertVersion(driver database.Driver) string {
	if driver == database.DriverPostgres {
		return `INSERT INTO schema_migrations (version) VALUES ($1)`
	}
	return `INSERT INTO schema_migrations (version) VALUES (?)`
}
