package app

import (
	"context"
	"testing"
	"time"

	activityPersistence "github.com/felixgeelhaar/pulse/internal/activity/infrastructure/persistence"
	productivityPersistence "github.com/felixgeelhaar/pulse/internal/productivity/infrastructure/persistence"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConnection implements database.Connection without a backing database.
type stubConnection struct {
	driver database.Driver
}

func (s *stubConnection) Driver() database.Driver { return s.driver }
func (s *stubConnection) Close() error            { return nil }
func (s *stubConnection) Ping(context.Context) error {
	return nil
}

func (s *stubConnection) BeginTx(context.Context) (database.Transaction, error) {
	return nil, nil
}

func (s *stubConnection) Exec(context.Context, string, ...any) (database.Result, error) {
	return nil, nil
}

func (s *stubConnection) QueryRow(context.Context, string, ...any) database.Row {
	return nil
}

func (s *stubConnection) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, nil
}

func TestRepositoryFactory_SQLite(t *testing.T) {
	factory := NewRepositoryFactory(&stubConnection{driver: database.DriverSQLite})
	assert.Equal(t, database.DriverSQLite, factory.Driver())

	taskRepo, err := factory.TaskRepository()
	require.NoError(t, err)
	assert.IsType(t, &productivityPersistence.SQLiteTaskRepository{}, taskRepo)

	activityRepo, err := factory.ActivityRepository(time.UTC)
	require.NoError(t, err)
	assert.IsType(t, &activityPersistence.SQLiteActivityRepository{}, activityRepo)

	outboxRepo, err := factory.OutboxRepository()
	require.NoError(t, err)
	assert.IsType(t, &outbox.SQLiteRepository{}, outboxRepo)

	assert.NotNil(t, factory.UnitOfWork())
}

func TestRepositoryFactory_Postgres(t *testing.T) {
	factory := NewRepositoryFactory(&stubConnection{driver: database.DriverPostgres})
	assert.Equal(t, database.DriverPostgres, factory.Driver())

	taskRepo, err := factory.TaskRepository()
	require.NoError(t, err)
	assert.IsType(t, &productivityPersistence.PostgresTaskRepository{}, taskRepo)

	activityRepo, err := factory.ActivityRepository(time.UTC)
	require.NoError(t, err)
	assert.IsType(t, &activityPersistence.PostgresActivityRepository{}, activityRepo)

	outboxRepo, err := factory.OutboxRepository()
	require.NoError(t, err)
	assert.IsType(t, &outbox.PostgresRepository{}, outboxRepo)
}

func TestRepositoryFactory_UnsupportedDriver(t *testing.T) {
	factory := NewRepositoryFactory(&stubConnection{driver: database.Driver("mysql")})

	_, err := factory.TaskRepository()
	assert.ErrorContains(t, err, "unsupported driver")

	_, err = factory.ActivityRepository(time.UTC)
	assert.ErrorContains(t, err, "unsupported driver")

	_, err = factory.OutboxRepository()
	assert.ErrorContains(t, err, "unsupported driver")
}
