package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDriver(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Driver
	}{
		{"empty selects sqlite", "", DriverSQLite},
		{"postgres scheme", "postgres://u:p@localhost:5432/pulse", DriverPostgres},
		{"postgresql scheme", "postgresql://localhost/pulse", DriverPostgres},
		{"sqlite scheme", "sqlite:///tmp/pulse.sqlite", DriverSQLite},
		{"file scheme", "file:/tmp/pulse", DriverSQLite},
		{"db suffix", "/var/lib/pulse/pulse.db", DriverSQLite},
		{"sqlite3 suffix", "pulse.sqlite3", DriverSQLite},
		{"unknown falls back to postgres", "host=localhost dbname=pulse", DriverPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDriver(tt.url))
		})
	}
}

func TestDriver_IsValid(t *testing.T) {
	assert.True(t, DriverPostgres.IsValid())
	assert.True(t, DriverSQLite.IsValid())
	assert.False(t, Driver("mysql").IsValid())
	assert.Equal(t, "sqlite", DriverSQLite.String())
}

func TestNewConnection_UnknownDriver(t *testing.T) {
	_, err := NewConnection(t.Context(), Config{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
