package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/pulse/pkg/observability"
)

type fakeRepository struct {
	mu        sync.Mutex
	messages  []*outbox.Message
	published []int64
	failed    []int64
	dead      []int64
	fetchErr  error
}

func (r *fakeRepository) SaveBatch(_ context.Context, msgs []*outbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		m.ID = int64(len(r.messages) + 1)
		r.messages = append(r.messages, m)
	}
	return nil
}

func (r *fakeRepository) GetUnpublished(_ context.Context, limit int) ([]*outbox.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	var out []*outbox.Message
	for _, m := range r.messages {
		if m.IsPublished() || m.IsDead() {
			continue
		}
		if m.NextRetryAt != nil && m.NextRetryAt.After(time.Now()) {
			continue
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeRepository) find(id int64) *outbox.Message {
	for _, m := range r.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *fakeRepository) MarkPublished(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.find(id).PublishedAt = &now
	r.published = append(r.published, id)
	return nil
}

func (r *fakeRepository) MarkFailed(_ context.Context, id int64, errMsg string, next time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.find(id)
	m.RetryCount++
	m.LastError = &errMsg
	m.NextRetryAt = &next
	r.failed = append(r.failed, id)
	return nil
}

func (r *fakeRepository) MarkDead(_ context.Context, id int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	m := r.find(id)
	m.DeadLetteredAt = &now
	m.DeadLetterReason = &reason
	r.dead = append(r.dead, id)
	return nil
}

func (r *fakeRepository) DeleteOld(context.Context, int) (int64, error) { return 0, nil }

type fakePublisher struct {
	mu    sync.Mutex
	keys  []string
	err   error
	calls int
}

func (p *fakePublisher) Publish(_ context.Context, key string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func seed(t *testing.T, repo *fakeRepository, keys ...string) {
	t.Helper()
	var msgs []*outbox.Message
	for _, k := range keys {
		msgs = append(msgs, &outbox.Message{
			EventID:    uuid.New(),
			RoutingKey: k,
			Payload:    []byte(`{}`),
			CreatedAt:  time.Now().Add(-time.Second),
		})
	}
	require.NoError(t, repo.SaveBatch(context.Background(), msgs))
}

func TestProcessor_ProcessOnce_Publishes(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{}
	metrics := observability.NewInMemoryMetrics()
	seed(t, repo, "productivity.task.created", "productivity.task.completed")

	p := outbox.NewProcessor(repo, pub, outbox.DefaultProcessorConfig(), nil, metrics)
	n, err := p.ProcessOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"productivity.task.created", "productivity.task.completed"}, pub.keys)
	assert.Equal(t, []int64{1, 2}, repo.published)
	assert.Equal(t, uint64(2), p.GetStats().PublishedCount)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricOutboxPublished, observability.T("routing_key", "productivity.task.created")))

	n, err = p.ProcessOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessor_ProcessOnce_RetriesThenDeadLetters(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{err: errors.New("broker down")}
	seed(t, repo, "productivity.task.created")

	cfg := outbox.DefaultProcessorConfig()
	cfg.MaxRetries = 2
	cfg.RetryBackoffBase = time.Nanosecond
	cfg.RetryBackoffMax = time.Nanosecond
	p := outbox.NewProcessor(repo, pub, cfg, nil, nil)

	_, err := p.ProcessOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.failed)
	assert.Empty(t, repo.dead)

	time.Sleep(time.Millisecond)
	_, err = p.ProcessOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.dead)

	stats := p.GetStats()
	assert.Equal(t, uint64(1), stats.FailedCount)
	assert.Equal(t, uint64(1), stats.DeadCount)
	assert.Equal(t, "broker down", stats.LastError)
}

func TestProcessor_ProcessOnce_FetchError(t *testing.T) {
	repo := &fakeRepository{fetchErr: errors.New("db gone")}
	p := outbox.NewProcessor(repo, &fakePublisher{}, outbox.DefaultProcessorConfig(), nil, nil)

	_, err := p.ProcessOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "db gone", p.GetStats().LastError)
}

func TestProcessor_StartStop(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{}
	seed(t, repo, "productivity.task.deleted")

	cfg := outbox.DefaultProcessorConfig()
	cfg.PollInterval = 5 * time.Millisecond
	p := outbox.NewProcessor(repo, pub, cfg, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	p.Start(ctx)
	assert.True(t, p.IsRunning())

	assert.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return len(pub.keys) == 1
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()
	assert.False(t, p.IsRunning())
}
