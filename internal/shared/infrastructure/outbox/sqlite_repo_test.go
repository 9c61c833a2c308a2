package outbox_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pulse/internal/shared/domain"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/outbox"
)

type taskCreated struct {
	domain.BaseEvent
	Title string `json:"title"`
}

func setupOutboxDB(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "outbox.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}

func TestSQLiteRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn := setupOutboxDB(t)
	repo := outbox.NewRepository(conn)

	evt := &taskCreated{BaseEvent: domain.NewBaseEvent(uuid.New(), "Task", "productivity.task.created"), Title: "plan"}
	msgs, err := outbox.NewMessages([]domain.DomainEvent{evt, evt})
	require.NoError(t, err)
	// second copy needs its own event id
	msgs[1].EventID = uuid.New()

	uow := database.NewUnitOfWork(conn)
	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(txCtx, msgs))
	require.NoError(t, uow.Commit(txCtx))
	assert.NotZero(t, msgs[0].ID)

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, evt.EventID(), pending[0].EventID)
	assert.Equal(t, "productivity.task.created", pending[0].RoutingKey)
	assert.JSONEq(t, string(msgs[0].Payload), string(pending[0].Payload))

	require.NoError(t, repo.MarkPublished(ctx, pending[0].ID))
	require.NoError(t, repo.MarkFailed(ctx, pending[1].ID, "nope", time.Now().Add(time.Hour)))

	pending, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "failed message waits for its retry time")

	time.Sleep(5 * time.Millisecond)
	deleted, err := repo.DeleteOld(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestSQLiteRepository_MarkDead(t *testing.T) {
	ctx := context.Background()
	conn := setupOutboxDB(t)
	repo := outbox.NewSQLiteRepository(conn)

	evt := &taskCreated{BaseEvent: domain.NewBaseEvent(uuid.New(), "Task", "productivity.task.created")}
	msgs, err := outbox.NewMessages([]domain.DomainEvent{evt})
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(ctx, msgs))

	require.NoError(t, repo.MarkDead(ctx, msgs[0].ID, "poison"))
	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
