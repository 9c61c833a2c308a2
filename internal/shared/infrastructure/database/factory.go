package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config selects and configures a backend.
type Config struct {
	// Driver is detected from URL when empty or "auto".
	Driver Driver
	// URL is the PostgreSQL connection string.
	URL string
	// SQLitePath defaults to ~/.pulse/pulse.db.
	SQLitePath string
	// MaxConns applies to PostgreSQL only.
	MaxConns int
}

// Factory opens a connection for one driver. Driver packages register
// themselves from init.
type Factory func(ctx context.Context, cfg Config) (Connection, error)

var factories = map[Driver]Factory{}

// Register installs the factory for driver.
func Register(driver Driver, f Factory) {
	factories[driver] = f
}

// NewConnection opens a connection using the registered driver factory.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}

	f, ok := factories[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return f(ctx, cfg)
}

// DefaultSQLitePath returns the local mode database location.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".pulse", "pulse.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o750)
}
