package wiring

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"bidboard/internal/adapters/gateway"
	"bidboard/internal/domain"
	"bidboard/internal/infra/config"
	"bidboard/internal/usecase/ledger"
	"bidboard/internal/usecase/prefs"
)

func TestOpenStorageMemoryAndRedis(t *testing.T) {
	ctx := context.Background()
	var cfg config.AppConfig
	cfg.Storage.Backend = "memory"
	st, err := OpenStorage(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, st.KV.Set(ctx, "k", []byte("1")))
	st.Close()

	srv := miniredis.RunT(t)
	cfg.Storage.Backend = "redis"
	cfg.Storage.RedisAddr = srv.Addr()
	cfg.Storage.Namespace = "ns"
	st, err = OpenStorage(ctx, cfg)
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.KV.Set(ctx, "k", []byte("1")))
	require.True(t, srv.Exists("ns:k"))

	cfg.Storage.Backend = "etcd"
	_, err = OpenStorage(ctx, cfg)
	require.Error(t, err)
}

func TestDefaultStoragePersistsBetweenRuns(t *testing.T) {
	ctx := context.Background()
	var cfg config.AppConfig
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "bidboard.db")
	cfg.Storage.Namespace = "bidboard"

	first, err := OpenStorage(ctx, cfg)
	require.NoError(t, err)
	store := prefs.New(first.KV, zerolog.Nop())
	store.SetSession(ctx, "tok", "u1")
	ledger.New(first.KV, zerolog.Nop()).RecordOpened(ctx, []string{"https://jobs.example/1"})
	first.Close()

	second, err := OpenStorage(ctx, cfg)
	require.NoError(t, err)
	defer second.Close()
	token, userID := prefs.New(second.KV, zerolog.Nop()).Session(ctx)
	require.Equal(t, "tok", token)
	require.Equal(t, "u1", userID)
	require.True(t, ledger.New(second.KV, zerolog.Nop()).IsOpened(ctx, "https://jobs.example/1"))
}

func TestOpenQueueRedis(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	var cfg config.AppConfig
	cfg.Storage.RedisAddr = srv.Addr()
	cfg.Queues.Backend = "redis"
	cfg.Queues.Notify = "jobs"

	q, err := OpenQueue(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer q.Close()
	require.NoError(t, q.Enqueue(ctx, domain.NotificationJob{ID: "1"}))
	job, _, err := q.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, "1", job.ID)
}

func TestNewGateway(t *testing.T) {
	var cfg config.AppConfig
	cfg.API.BaseURL = "http://localhost:5000/api"
	client, err := NewGateway(cfg, gateway.Session{Token: "t"}, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, "t", client.Session().Token)
}
