package app

import (
	"fmt"
	"time"

	activityDomain "github.com/felixgeelhaar/pulse/internal/activity/domain"
	activityPersistence "github.com/felixgeelhaar/pulse/internal/activity/infrastructure/persistence"
	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	productivityPersistence "github.com/felixgeelhaar/pulse/internal/productivity/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/pulse/internal/shared/application"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/outbox"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// TaskRepository creates a task repository for the configured driver.
func (f *RepositoryFactory) TaskRepository() (task.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return productivityPersistence.NewPostgresTaskRepository(f.conn), nil
	case database.DriverSQLite:
		return productivityPersistence.NewSQLiteTaskRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// ActivityRepository creates an activity repository whose calendar days
// are defined by loc.
func (f *RepositoryFactory) ActivityRepository(loc *time.Location) (activityDomain.ActivityRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return activityPersistence.NewPostgresActivityRepository(f.conn, loc), nil
	case database.DriverSQLite:
		return activityPersistence.NewSQLiteActivityRepository(f.conn, loc), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// OutboxRepository creates an outbox repository for the configured driver.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return outbox.NewPostgresRepository(f.conn), nil
	case database.DriverSQLite:
		return outbox.NewSQLiteRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// UnitOfWork returns a unit of work bound to the connection.
func (f *RepositoryFactory) UnitOfWork() sharedApplication.UnitOfWork {
	return database.NewUnitOfWork(f.conn)
}

// Driver returns the database driver.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}
